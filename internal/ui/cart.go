package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamsinv/vitrine/internal/shop"
)

// cartState holds the cart screen state.
type cartState struct {
	cursor int
}

func (c *cartState) clampCursor(store *shop.Store) {
	count := len(store.CartLines())
	if c.cursor >= count {
		c.cursor = count - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

// handleCartKey processes keys for the cart screen.
func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.store.CartLines()

	switch msg.String() {
	case "j", "down":
		if m.cart.cursor < len(lines)-1 {
			m.cart.cursor++
		}
	case "k", "up":
		if m.cart.cursor > 0 {
			m.cart.cursor--
		}
	case "+", "=":
		if m.cart.cursor < len(lines) {
			line := lines[m.cart.cursor]
			return m, m.updateQuantityCmd(line, line.Quantity+1)
		}
	case "-":
		if m.cart.cursor < len(lines) {
			line := lines[m.cart.cursor]
			return m, m.updateQuantityCmd(line, line.Quantity-1)
		}
	case "x":
		if m.cart.cursor < len(lines) {
			return m, m.updateQuantityCmd(lines[m.cart.cursor], 0)
		}
	case "p", "enter":
		if len(lines) == 0 {
			m.store.Notices().Errorf("Your cart is empty")
			return m, nil
		}
		if !m.store.IsAuthenticated() {
			m.store.Notices().Errorf("Please login to place an order")
			m.view = ViewLogin
			return m, nil
		}
		m.view = ViewCheckout
		return m, m.checkout.focusFirst()
	}

	return m, nil
}

func (m *Model) updateQuantityCmd(line shop.CartLine, quantity int) tea.Cmd {
	if quantity < 0 {
		quantity = 0
	}
	ctx, store := m.ctx, m.store
	id, size := line.Product.ID, line.Size
	return func() tea.Msg {
		store.UpdateQuantity(ctx, id, size, quantity)
		return serverCartMsg{}
	}
}

// renderCart renders the cart lines and the totals summary.
func (m Model) renderCart() string {
	styles := m.theme.Styles()
	lines := m.store.CartLines()

	var b strings.Builder
	b.WriteString("\n")
	if len(lines) == 0 {
		b.WriteString("  " + styles.MutedText.Render("Your cart is empty"))
		return b.String()
	}

	nameWidth := m.width - 40
	if nameWidth < 16 {
		nameWidth = 16
	}
	for i, line := range lines {
		row := fmt.Sprintf(" %-*s %-4s x%-3d %8s",
			nameWidth,
			truncate(line.Product.Name, nameWidth),
			line.Size,
			line.Quantity,
			money(m.currency, line.Product.Price*float64(line.Quantity)))
		if i == m.cart.cursor {
			b.WriteString(styles.Selected.Render(">" + row))
		} else {
			b.WriteString(styles.Text.Render(" " + row))
		}
		b.WriteString("\n")
	}

	amount := m.store.CartAmount()
	delivery := m.store.DeliveryCharge()

	b.WriteString("\n")
	b.WriteString("  " + styles.MutedText.Render("Subtotal: ") + styles.Text.Render(money(m.currency, amount)) + "\n")
	if delivery > 0 {
		b.WriteString("  " + styles.MutedText.Render("Delivery: ") + styles.Text.Render(money(m.currency, delivery)) + "\n")
	} else {
		b.WriteString("  " + styles.MutedText.Render("Delivery: ") + styles.SuccessText.Render("Free") + "\n")
	}
	b.WriteString("  " + styles.MutedText.Render("Total:    ") + styles.AccentText.Bold(true).Render(money(m.currency, m.store.TotalAmount())) + "\n")

	return b.String()
}
