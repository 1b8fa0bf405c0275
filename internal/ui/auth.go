package ui

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamsinv/vitrine/internal/storefront"
)

// Auth form modes.
const (
	modeLogin = iota
	modeSignup
)

// authState holds the login, signup and OTP verification screens.
type authState struct {
	mode  int
	focus int

	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	otp      textinput.Model

	// pendingOTP is the client-generated code sent alongside registration
	// and resend requests so the backend can email it to the user.
	pendingOTP      string
	rememberedEmail string
	submitting      bool
}

func newAuthState(email string) authState {
	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 60
	name.Width = 32

	emailInput := textinput.New()
	emailInput.Placeholder = "Email"
	emailInput.CharLimit = 80
	emailInput.Width = 32
	emailInput.SetValue(email)
	emailInput.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 80
	password.Width = 32
	password.EchoMode = textinput.EchoPassword

	otp := textinput.New()
	otp.Placeholder = "6-digit code"
	otp.CharLimit = 6
	otp.Width = 12

	return authState{
		email:           emailInput,
		name:            name,
		password:        password,
		otp:             otp,
		rememberedEmail: email,
	}
}

// fields returns the active form inputs in tab order. The name field only
// participates in signup mode.
func (a *authState) fields() []*textinput.Model {
	if a.mode == modeSignup {
		return []*textinput.Model{&a.name, &a.email, &a.password}
	}
	return []*textinput.Model{&a.email, &a.password}
}

func (a *authState) focusIndex(idx int) tea.Cmd {
	fields := a.fields()
	if idx < 0 {
		idx = len(fields) - 1
	}
	idx %= len(fields)
	a.focus = idx
	for i, f := range fields {
		if i == idx {
			f.Focus()
		} else {
			f.Blur()
		}
	}
	return textinput.Blink
}

// generateOTP produces the 6-digit code the client hands to the backend for
// email delivery.
func generateOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// handleLoginKey processes keys for the login/signup screen.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.auth.submitting {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.view = ViewCatalog
		return m, nil
	case "ctrl+t":
		if m.auth.mode == modeLogin {
			m.auth.mode = modeSignup
		} else {
			m.auth.mode = modeLogin
		}
		return m, m.auth.focusIndex(0)
	case "tab", "down":
		return m, m.auth.focusIndex(m.auth.focus + 1)
	case "shift+tab", "up":
		return m, m.auth.focusIndex(m.auth.focus - 1)
	case "enter":
		if m.auth.focus < len(m.auth.fields())-1 {
			return m, m.auth.focusIndex(m.auth.focus + 1)
		}
		return m.submitAuth()
	}

	fields := m.auth.fields()
	var cmd tea.Cmd
	*fields[m.auth.focus], cmd = fields[m.auth.focus].Update(msg)
	return m, cmd
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.auth.email.Value())
	password := m.auth.password.Value()
	if email == "" || password == "" {
		m.store.Notices().Errorf("Email and password are required")
		return m, nil
	}

	ctx, client := m.ctx, m.client
	m.auth.submitting = true

	if m.auth.mode == modeSignup {
		name := strings.TrimSpace(m.auth.name.Value())
		if name == "" {
			m.auth.submitting = false
			m.store.Notices().Errorf("Name is required")
			return m, nil
		}
		m.auth.pendingOTP = generateOTP()
		otp := m.auth.pendingOTP
		return m, func() tea.Msg {
			message, err := client.Register(ctx, name, email, password, otp)
			return registerResultMsg{message: message, err: err}
		}
	}

	return m, func() tea.Msg {
		token, err := client.Login(ctx, email, password)
		return authResultMsg{token: token, err: err}
	}
}

// handleOtpKey processes keys for the OTP verification screen.
func (m Model) handleOtpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.auth.submitting {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.view = ViewLogin
		return m, m.auth.focusIndex(0)
	case "ctrl+r":
		m.auth.pendingOTP = generateOTP()
		email := strings.TrimSpace(m.auth.email.Value())
		otp := m.auth.pendingOTP
		ctx, client := m.ctx, m.client
		return m, func() tea.Msg {
			return otpResentMsg{err: client.ResendOTP(ctx, email, otp)}
		}
	case "enter":
		code := strings.TrimSpace(m.auth.otp.Value())
		if len(code) != 6 {
			m.store.Notices().Errorf("Enter the 6-digit code")
			return m, nil
		}
		m.auth.submitting = true
		email := strings.TrimSpace(m.auth.email.Value())
		ctx, client := m.ctx, m.client
		return m, func() tea.Msg {
			token, err := client.VerifyOTP(ctx, email, code)
			return authResultMsg{token: token, err: err}
		}
	}

	var cmd tea.Cmd
	m.auth.otp, cmd = m.auth.otp.Update(msg)
	return m, cmd
}

// handleAuthResult finishes a login or OTP verification attempt.
func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.auth.submitting = false

	if msg.err != nil {
		if errors.Is(msg.err, storefront.ErrVerifyRequired) {
			// The account exists but the email was never verified. Push a
			// fresh code and move to the verification screen.
			m.auth.pendingOTP = generateOTP()
			m.auth.otp.SetValue("")
			m.auth.otp.Focus()
			m.view = ViewOtp
			email := strings.TrimSpace(m.auth.email.Value())
			otp := m.auth.pendingOTP
			ctx, client := m.ctx, m.client
			return m, func() tea.Msg {
				return otpResentMsg{err: client.ResendOTP(ctx, email, otp)}
			}
		}
		m.store.Notices().Errorf("%s", authErrorMessage(msg.err))
		return m, nil
	}

	m.store.Login(msg.token)
	m.auth.rememberedEmail = strings.TrimSpace(m.auth.email.Value())
	m.auth.password.SetValue("")
	m.auth.otp.SetValue("")
	m.savePrefs()
	m.store.Notices().Successf("Logged In Successfully!")
	m.view = ViewCatalog

	ctx, store := m.ctx, m.store
	return m, func() tea.Msg {
		return serverCartMsg{err: store.RefreshServerCart(ctx)}
	}
}

// handleRegisterResult finishes a signup attempt.
func (m Model) handleRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	m.auth.submitting = false

	if msg.err != nil {
		m.store.Notices().Errorf("%s", authErrorMessage(msg.err))
		return m, nil
	}

	if msg.message != "" {
		m.store.Notices().Successf("%s", msg.message)
	} else {
		m.store.Notices().Successf("Check your email for the verification code")
	}
	m.auth.otp.SetValue("")
	m.auth.otp.Focus()
	m.view = ViewOtp
	return m, textinput.Blink
}

func authErrorMessage(err error) string {
	var apiErr *storefront.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Something went wrong"
}

// renderLogin renders the login/signup form.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	title := "Login"
	if m.auth.mode == modeSignup {
		title = "Sign up"
	}

	var b strings.Builder
	b.WriteString("\n  " + styles.AccentText.Bold(true).Render(title) + "\n\n")

	labels := []string{"Email", "Password"}
	if m.auth.mode == modeSignup {
		labels = []string{"Name", "Email", "Password"}
	}
	for i, f := range m.auth.fields() {
		if i == m.auth.focus {
			b.WriteString("  " + styles.AccentText.Render("> "+labels[i]))
		} else {
			b.WriteString("  " + styles.MutedText.Render("  "+labels[i]))
		}
		b.WriteString("\n    " + f.View() + "\n")
	}

	if m.auth.submitting {
		b.WriteString("\n  " + styles.WarningText.Render("Contacting storefront...") + "\n")
	}

	return b.String()
}

// renderOtp renders the verification code prompt.
func (m Model) renderOtp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n  " + styles.AccentText.Bold(true).Render("Verify your email") + "\n\n")
	b.WriteString("  " + styles.MutedText.Render("We sent a 6-digit code to "+strings.TrimSpace(m.auth.email.Value())) + "\n\n")
	b.WriteString("    " + m.auth.otp.View() + "\n")

	if m.auth.submitting {
		b.WriteString("\n  " + styles.WarningText.Render("Verifying...") + "\n")
	}

	return b.String()
}
