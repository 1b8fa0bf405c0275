package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamsinv/vitrine/internal/storefront"
)

// Checkout form field order. Mirrors the delivery address fields the order
// endpoint expects.
const (
	fieldFirstName = iota
	fieldLastName
	fieldEmail
	fieldStreet
	fieldCity
	fieldState
	fieldZipcode
	fieldCountry
	fieldPhone
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"First name",
	"Last name",
	"Email",
	"Street",
	"City",
	"State",
	"Zip code",
	"Country",
	"Phone",
}

// checkoutState holds the checkout form state.
type checkoutState struct {
	inputs     [fieldCount]textinput.Model
	focus      int
	submitting bool
}

func newCheckoutState() checkoutState {
	var c checkoutState
	for i := range c.inputs {
		input := textinput.New()
		input.Placeholder = fieldLabels[i]
		input.CharLimit = 80
		input.Width = 32
		c.inputs[i] = input
	}
	return c
}

func (c *checkoutState) focusFirst() tea.Cmd {
	c.focus = 0
	for i := range c.inputs {
		c.inputs[i].Blur()
	}
	c.inputs[0].Focus()
	return textinput.Blink
}

func (c *checkoutState) focusField(idx int) tea.Cmd {
	c.focus = idx
	for i := range c.inputs {
		if i == idx {
			c.inputs[i].Focus()
		} else {
			c.inputs[i].Blur()
		}
	}
	return textinput.Blink
}

func (c *checkoutState) address() storefront.Address {
	value := func(i int) string { return strings.TrimSpace(c.inputs[i].Value()) }
	return storefront.Address{
		FirstName: value(fieldFirstName),
		LastName:  value(fieldLastName),
		Email:     value(fieldEmail),
		Street:    value(fieldStreet),
		City:      value(fieldCity),
		State:     value(fieldState),
		Zipcode:   value(fieldZipcode),
		Country:   value(fieldCountry),
		Phone:     value(fieldPhone),
	}
}

func (c *checkoutState) missingField() (string, bool) {
	for i := range c.inputs {
		if strings.TrimSpace(c.inputs[i].Value()) == "" {
			return fieldLabels[i], true
		}
	}
	return "", false
}

// handleCheckoutKey processes keys for the checkout form.
func (m Model) handleCheckoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.checkout.submitting {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.view = ViewCart
		return m, nil
	case "tab", "down":
		return m, m.checkout.focusField((m.checkout.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.checkout.focusField((m.checkout.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if m.checkout.focus < fieldCount-1 {
			return m, m.checkout.focusField(m.checkout.focus + 1)
		}
		if label, missing := m.checkout.missingField(); missing {
			m.store.Notices().Errorf("%s is required", label)
			return m, nil
		}
		m.checkout.submitting = true
		address := m.checkout.address()
		ctx, store := m.ctx, m.store
		return m, func() tea.Msg {
			message, err := store.PlaceOrder(ctx, address)
			return orderPlacedMsg{message: message, err: err}
		}
	}

	var cmd tea.Cmd
	m.checkout.inputs[m.checkout.focus], cmd = m.checkout.inputs[m.checkout.focus].Update(msg)
	return m, cmd
}

// renderCheckout renders the delivery form and the order summary.
func (m Model) renderCheckout() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n  " + styles.AccentText.Bold(true).Render("Delivery information") + "\n\n")

	for i := range m.checkout.inputs {
		label := fieldLabels[i]
		if i == m.checkout.focus {
			b.WriteString("  " + styles.AccentText.Render("> "+label))
		} else {
			b.WriteString("  " + styles.MutedText.Render("  "+label))
		}
		b.WriteString("\n    " + m.checkout.inputs[i].View() + "\n")
	}

	b.WriteString("\n")
	b.WriteString("  " + styles.MutedText.Render("Subtotal: ") + styles.Text.Render(money(m.currency, m.store.CartAmount())) + "\n")
	b.WriteString("  " + styles.MutedText.Render("Delivery: ") + styles.Text.Render(money(m.currency, m.store.DeliveryCharge())) + "\n")
	b.WriteString("  " + styles.MutedText.Render("Total:    ") + styles.AccentText.Bold(true).Render(money(m.currency, m.store.TotalAmount())) + "\n")

	if m.checkout.submitting {
		b.WriteString("\n  " + styles.WarningText.Render("Placing order...") + "\n")
	}

	return b.String()
}
