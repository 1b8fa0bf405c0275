package ui

import (
	"fmt"
	"strings"

	"github.com/tamsinv/vitrine/internal/notify"
)

// renderHeader renders the status bar: logo, auth state, cart badge and the
// transient notice, if one is visible.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	var parts []string
	parts = append(parts, styles.Logo.Render("vitrine"))

	if m.loading {
		parts = append(parts, styles.WarningText.Bold(true).Render("Connecting to storefront..."))
		return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
	}

	if m.store.IsAuthenticated() {
		parts = append(parts, styles.SuccessText.Render("● signed in"))
	} else {
		parts = append(parts, styles.MutedText.Render("● guest"))
	}

	if count := m.store.CartCount(); count > 0 {
		parts = append(parts,
			styles.MutedText.Render("Cart:")+" "+
				styles.AccentText.Render(fmt.Sprintf("%d", count))+" "+
				styles.MutedText.Render(money(m.currency, m.store.TotalAmount())))
	}

	if selected := m.store.SelectedCategories(); len(selected) > 0 {
		parts = append(parts,
			styles.MutedText.Render("Filter:")+" "+
				styles.InfoText.Render(strings.Join(selected, ",")))
	}

	if n, ok := m.store.Notices().Current(); ok {
		text := truncate(n.Message, 60)
		if n.Kind == notify.Error {
			parts = append(parts, styles.DangerText.Render("✗ "+text))
		} else {
			parts = append(parts, styles.SuccessText.Render("✓ "+text))
		}
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderCommandBar renders the key hints for the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.view {
	case ViewCatalog:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"Enter", "Details"},
			{"/", "Search"},
			{"Tab/Space", "Filter"},
			{"r", "Reload"},
		}
	case ViewProduct:
		commands = []cmd{
			{"h/l", "Size"},
			{"a", "Add to cart"},
			{"s", "Wishlist"},
			{"Esc", "Back"},
		}
	case ViewCart:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"+/-", "Quantity"},
			{"x", "Remove"},
			{"p", "Checkout"},
		}
	case ViewWishlist:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"Enter", "Details"},
			{"s", "Remove"},
		}
	case ViewCheckout:
		commands = []cmd{
			{"Tab", "Next field"},
			{"Enter", "Place order"},
			{"Esc", "Back"},
		}
	case ViewOrders:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"r", "Reload"},
		}
	case ViewLogin:
		commands = []cmd{
			{"Tab", "Next field"},
			{"Enter", "Submit"},
			{"ctrl+t", "Login/Sign up"},
			{"Esc", "Back"},
		}
	case ViewOtp:
		commands = []cmd{
			{"Enter", "Verify"},
			{"ctrl+r", "Resend"},
			{"Esc", "Back"},
		}
	case ViewInfo:
		commands = []cmd{
			{"h/l", "Page"},
			{"j/k", "Scroll"},
		}
	}

	segments := make([]string, 0, len(commands)+3)
	for _, c := range commands {
		segments = append(segments,
			styles.AccentText.Render(c.key)+":"+styles.MutedText.Render(c.desc))
	}

	// Global hints
	segments = append(segments,
		styles.AccentText.Render("b/c/w/o/i")+":"+styles.MutedText.Render("Screens"))
	if m.view != ViewLogin && m.view != ViewOtp {
		account := "Login"
		if m.store != nil && m.store.IsAuthenticated() {
			account = "Logout"
		}
		segments = append(segments,
			styles.AccentText.Render("u")+":"+styles.MutedText.Render(account))
	}
	segments = append(segments,
		styles.AccentText.Render("T")+":"+styles.FaintText.Render(m.theme.Name))

	return styles.Header.Width(m.width).Render(strings.Join(segments, "  "))
}
