package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamsinv/vitrine/internal/storefront"
)

// ordersState holds the order history screen state.
type ordersState struct {
	list    []storefront.Order
	loading bool
	err     error
	cursor  int
}

func (o *ordersState) clampCursor() {
	if o.cursor >= len(o.list) {
		o.cursor = len(o.list) - 1
	}
	if o.cursor < 0 {
		o.cursor = 0
	}
}

// handleOrdersKey processes keys for the orders screen.
func (m Model) handleOrdersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.orders.cursor < len(m.orders.list)-1 {
			m.orders.cursor++
		}
	case "k", "up":
		if m.orders.cursor > 0 {
			m.orders.cursor--
		}
	case "r":
		return m, m.loadOrders()
	}
	return m, nil
}

// renderOrders renders the order history with a status badge per order.
func (m Model) renderOrders() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n")

	if m.orders.loading {
		b.WriteString("  " + styles.MutedText.Render("Loading orders..."))
		return b.String()
	}
	if m.orders.err != nil {
		b.WriteString("  " + styles.DangerText.Render("Could not load orders"))
		b.WriteString("\n  " + styles.MutedText.Render(truncate(m.orders.err.Error(), m.width-4)))
		return b.String()
	}
	if len(m.orders.list) == 0 {
		b.WriteString("  " + styles.MutedText.Render("No orders yet"))
		return b.String()
	}

	for i, order := range m.orders.list {
		placed := ""
		if at := order.PlacedAt(); !at.IsZero() {
			placed = at.Format("Jan 2, 2006")
		}
		head := fmt.Sprintf(" %-12s %8s  %s",
			placed,
			money(m.currency, order.Amount),
			"")
		badge := styles.StatusStyle(order.Status).Render(order.Status)

		if i == m.orders.cursor {
			b.WriteString(styles.Selected.Render(">"+head) + badge)
		} else {
			b.WriteString(styles.Text.Render(" "+head) + badge)
		}
		b.WriteString("\n")

		for _, item := range order.Items {
			line := fmt.Sprintf("     %s  %s x%d", truncate(item.Name, m.width-24), item.Size, item.Quantity)
			b.WriteString(styles.MutedText.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}
