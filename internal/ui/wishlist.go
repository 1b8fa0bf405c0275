package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamsinv/vitrine/internal/shop"
	"github.com/tamsinv/vitrine/internal/storefront"
)

// wishlistState holds the wishlist screen state.
type wishlistState struct {
	cursor int
}

func (w *wishlistState) clampCursor(store *shop.Store) {
	count := len(store.Wishlist())
	if w.cursor >= count {
		w.cursor = count - 1
	}
	if w.cursor < 0 {
		w.cursor = 0
	}
}

// wishlistProducts resolves wishlist ids against the catalog. Ids that no
// longer resolve are kept out of the view but stay saved.
func (m Model) wishlistProducts() []storefront.Product {
	ids := m.store.Wishlist()
	products := make([]storefront.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.store.Product(id); ok {
			products = append(products, p)
		}
	}
	return products
}

// handleWishlistKey processes keys for the wishlist screen.
func (m Model) handleWishlistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.wishlistProducts()

	switch msg.String() {
	case "j", "down":
		if m.wishlist.cursor < len(products)-1 {
			m.wishlist.cursor++
		}
	case "k", "up":
		if m.wishlist.cursor > 0 {
			m.wishlist.cursor--
		}
	case "s", "x":
		if m.wishlist.cursor < len(products) {
			_ = m.store.ToggleWishlist(products[m.wishlist.cursor].ID)
			m.wishlist.clampCursor(m.store)
		}
	case "enter":
		if m.wishlist.cursor < len(products) {
			m.product = newProductState(products[m.wishlist.cursor].ID)
			m.view = ViewProduct
		}
	}

	return m, nil
}

// renderWishlist renders the saved products.
func (m Model) renderWishlist() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n")

	if !m.store.IsAuthenticated() {
		b.WriteString("  " + styles.MutedText.Render("Login to keep a wishlist"))
		return b.String()
	}

	products := m.wishlistProducts()
	if len(products) == 0 {
		b.WriteString("  " + styles.MutedText.Render("Your wishlist is empty"))
		return b.String()
	}

	nameWidth := m.width - 28
	if nameWidth < 20 {
		nameWidth = 20
	}
	for i, p := range products {
		line := fmt.Sprintf(" %s %-*s %8s",
			styles.DangerText.Render("♥"),
			nameWidth,
			truncate(p.Name, nameWidth),
			money(m.currency, p.Price))
		if i == m.wishlist.cursor {
			b.WriteString(styles.Selected.Render(">" + line))
		} else {
			b.WriteString(styles.Text.Render(" " + line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
