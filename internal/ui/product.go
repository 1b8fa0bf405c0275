package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// productState holds the detail screen state.
type productState struct {
	id      string
	sizeIdx int
}

func newProductState(id string) productState {
	return productState{id: id}
}

// handleProductKey processes keys for the product detail screen.
func (m Model) handleProductKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	product, ok := m.store.Product(m.product.id)
	if !ok {
		m.view = ViewCatalog
		return m, nil
	}

	switch msg.String() {
	case "h", "left":
		if m.product.sizeIdx > 0 {
			m.product.sizeIdx--
		}
	case "l", "right":
		if m.product.sizeIdx < len(product.Sizes)-1 {
			m.product.sizeIdx++
		}
	case "a", "enter":
		if len(product.Sizes) == 0 {
			m.store.Notices().Errorf("Select a size first")
			return m, nil
		}
		size := product.Sizes[m.product.sizeIdx]
		ctx, store := m.ctx, m.store
		return m, func() tea.Msg {
			store.AddToCart(ctx, product.ID, size)
			return serverCartMsg{}
		}
	case "s":
		_ = m.store.ToggleWishlist(product.ID)
	}

	return m, nil
}

// renderProduct renders the product detail screen.
func (m Model) renderProduct() string {
	styles := m.theme.Styles()
	product, ok := m.store.Product(m.product.id)
	if !ok {
		return "  " + styles.MutedText.Render("Product no longer available")
	}

	var b strings.Builder
	b.WriteString("\n  " + styles.AccentText.Bold(true).Render(product.Name))
	if product.Bestseller {
		b.WriteString("  " + styles.WarningText.Render("★ Bestseller"))
	}
	if m.store.IsInWishlist(product.ID) {
		b.WriteString("  " + styles.DangerText.Render("♥"))
	}
	b.WriteString("\n\n")

	b.WriteString("  " + styles.Text.Render(money(m.currency, product.Price)))
	b.WriteString("  " + styles.MutedText.Render(product.Category))
	b.WriteString("\n\n")

	if product.Description != "" {
		width := m.width - 4
		if width > 76 {
			width = 76
		}
		for _, line := range wrap(product.Description, width) {
			b.WriteString("  " + styles.MutedText.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	if len(product.Sizes) > 0 {
		b.WriteString("  " + styles.MutedText.Render("Size:") + " ")
		chips := make([]string, 0, len(product.Sizes))
		for i, size := range product.Sizes {
			if i == m.product.sizeIdx {
				chips = append(chips, styles.Selected.Render(" "+size+" "))
			} else {
				chips = append(chips, styles.Text.Render(" "+size+" "))
			}
		}
		b.WriteString(strings.Join(chips, " "))
		b.WriteString("\n")
	}

	if product.Image != "" {
		b.WriteString("\n  " + styles.FaintText.Render(truncate(product.Image, m.width-4)) + "\n")
	}

	return b.String()
}
