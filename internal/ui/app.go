package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamsinv/vitrine/internal/config"
	"github.com/tamsinv/vitrine/internal/prefs"
	"github.com/tamsinv/vitrine/internal/shop"
	"github.com/tamsinv/vitrine/internal/storefront"
)

// View represents the current active screen.
type View int

const (
	ViewCatalog View = iota
	ViewProduct
	ViewCart
	ViewWishlist
	ViewCheckout
	ViewOrders
	ViewLogin
	ViewOtp
	ViewInfo
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *storefront.Client
	Store     *shop.Store
	Config    *config.Config
	ThemeName string
	PrefsPath string
	Prefs     prefs.Prefs
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *storefront.Client
	store     *shop.Store
	config    *config.Config
	prefsPath string
	currency  string

	// UI state
	theme   Theme
	view    View
	width   int
	height  int
	ready   bool
	loading bool

	// Per-screen state
	catalog  catalogState
	product  productState
	cart     cartState
	wishlist wishlistState
	checkout checkoutState
	orders   ordersState
	auth     authState
	info     infoState
}

const repaintTick = 500 * time.Millisecond

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	currency := "$"
	if opts.Config != nil && opts.Config.Currency != "" {
		currency = opts.Config.Currency
	}

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     opts.Store,
		config:    opts.Config,
		prefsPath: prefsPath,
		currency:  currency,
		theme:     GetTheme(themeName),
		view:      ViewCatalog,
		loading:   true,
	}
	m.catalog = newCatalogState()
	m.checkout = newCheckoutState()
	m.auth = newAuthState(opts.Prefs.Email)
	m.info = newInfoState()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
		initStoreCmd(m.ctx, m.store),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.info.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		// The periodic tick repaints the screen so the transient notice
		// disappears once its interval elapses.
		return m, tickCmd()

	case storeReadyMsg:
		m.loading = false
		m.catalog.clampCursor(m.store)
		return m, nil

	case catalogRefreshedMsg:
		if msg.err != nil {
			m.store.Notices().Errorf("Error fetching products")
		}
		m.catalog.clampCursor(m.store)
		return m, nil

	case authResultMsg:
		return m.handleAuthResult(msg)

	case registerResultMsg:
		return m.handleRegisterResult(msg)

	case otpResentMsg:
		if msg.err != nil {
			m.store.Notices().Errorf("Failed to resend OTP")
		} else {
			m.store.Notices().Successf("OTP sent")
		}
		return m, nil

	case serverCartMsg:
		// Failure already surfaced through the notice sink by the store.
		return m, nil

	case ordersLoadedMsg:
		m.orders.loading = false
		if msg.err != nil {
			m.orders.err = msg.err
			return m, nil
		}
		m.orders.err = nil
		m.orders.list = msg.orders
		m.orders.clampCursor()
		return m, nil

	case orderPlacedMsg:
		m.checkout.submitting = false
		if msg.err != nil {
			m.store.Notices().Errorf("%s", orderErrorMessage(msg.err))
			return m, nil
		}
		m.checkout = newCheckoutState()
		m.view = ViewOrders
		return m, m.loadOrders()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var body string
	switch m.view {
	case ViewCatalog:
		body = m.renderCatalog()
	case ViewProduct:
		body = m.renderProduct()
	case ViewCart:
		body = m.renderCart()
	case ViewWishlist:
		body = m.renderWishlist()
	case ViewCheckout:
		body = m.renderCheckout()
	case ViewOrders:
		body = m.renderOrders()
	case ViewLogin:
		body = m.renderLogin()
	case ViewOtp:
		body = m.renderOtp()
	case ViewInfo:
		body = m.renderInfo()
	}

	return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" + body
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Screens with active text entry consume keys first.
	if m.typing() {
		switch m.view {
		case ViewCatalog:
			return m.handleCatalogSearchKey(msg)
		case ViewCheckout:
			return m.handleCheckoutKey(msg)
		case ViewLogin:
			return m.handleLoginKey(msg)
		case ViewOtp:
			return m.handleOtpKey(msg)
		}
	}

	// Global navigation keys.
	switch msg.String() {
	case "e":
		return m, tea.Quit

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case "b":
		m.view = ViewCatalog
		return m, nil

	case "c":
		m.view = ViewCart
		m.cart.clampCursor(m.store)
		return m, nil

	case "w":
		m.view = ViewWishlist
		m.wishlist.clampCursor(m.store)
		return m, nil

	case "o":
		m.view = ViewOrders
		return m, m.loadOrders()

	case "i":
		m.view = ViewInfo
		return m, nil

	case "u":
		if m.store.IsAuthenticated() {
			m.store.Logout()
			m.store.Notices().Successf("Logged out")
			return m, nil
		}
		m.view = ViewLogin
		return m, nil

	case "esc":
		if m.view != ViewCatalog {
			m.view = ViewCatalog
			return m, nil
		}
	}

	// Screen-specific keys.
	switch m.view {
	case ViewCatalog:
		return m.handleCatalogKey(msg)
	case ViewProduct:
		return m.handleProductKey(msg)
	case ViewCart:
		return m.handleCartKey(msg)
	case ViewWishlist:
		return m.handleWishlistKey(msg)
	case ViewCheckout:
		return m.handleCheckoutKey(msg)
	case ViewOrders:
		return m.handleOrdersKey(msg)
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewOtp:
		return m.handleOtpKey(msg)
	case ViewInfo:
		return m.handleInfoKey(msg)
	}

	return m, nil
}

// typing reports whether a text input currently owns the keyboard.
func (m Model) typing() bool {
	switch m.view {
	case ViewCatalog:
		return m.catalog.searching
	case ViewCheckout, ViewLogin, ViewOtp:
		return true
	}
	return false
}

func (m *Model) savePrefs() {
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme: m.theme.Name,
		Email: m.auth.rememberedEmail,
	})
}

func (m *Model) loadOrders() tea.Cmd {
	if !m.store.IsAuthenticated() {
		m.store.Notices().Errorf("Please login to view your orders")
		m.view = ViewLogin
		return nil
	}
	m.orders.loading = true
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		orders, err := store.Orders(ctx)
		return ordersLoadedMsg{orders: orders, err: err}
	}
}

func orderErrorMessage(err error) string {
	var apiErr *storefront.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, shop.ErrNotAuthenticated) {
		return "Please login to place an order"
	}
	return "Something went wrong"
}

// Messages

type tickMsg time.Time

type storeReadyMsg struct{}

type catalogRefreshedMsg struct{ err error }

type serverCartMsg struct{ err error }

type authResultMsg struct {
	token string
	err   error
}

type registerResultMsg struct {
	message string
	err     error
}

type otpResentMsg struct{ err error }

type ordersLoadedMsg struct {
	orders []storefront.Order
	err    error
}

type orderPlacedMsg struct {
	message string
	err     error
}

// Commands

func tickCmd() tea.Cmd {
	return tea.Tick(repaintTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initStoreCmd(ctx context.Context, store *shop.Store) tea.Cmd {
	return func() tea.Msg {
		store.Init(ctx)
		return storeReadyMsg{}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
