package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamsinv/vitrine/internal/shop"
)

// catalogState holds the browse screen state.
type catalogState struct {
	cursor    int
	catCursor int
	searching bool
	search    textinput.Model
}

func newCatalogState() catalogState {
	input := textinput.New()
	input.Placeholder = "search products"
	input.CharLimit = 60
	input.Width = 30
	return catalogState{search: input}
}

func (c *catalogState) clampCursor(store *shop.Store) {
	count := len(store.FilteredProducts(c.search.Value()))
	if c.cursor >= count {
		c.cursor = count - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

// handleCatalogKey processes keys for the browse screen.
func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.store.FilteredProducts(m.catalog.search.Value())
	categories := m.store.Categories()

	switch msg.String() {
	case "j", "down":
		if m.catalog.cursor < len(products)-1 {
			m.catalog.cursor++
		}
	case "k", "up":
		if m.catalog.cursor > 0 {
			m.catalog.cursor--
		}
	case "g", "home":
		m.catalog.cursor = 0
	case "G", "end":
		m.catalog.cursor = len(products) - 1
		if m.catalog.cursor < 0 {
			m.catalog.cursor = 0
		}
	case "tab":
		if len(categories) > 0 {
			m.catalog.catCursor = (m.catalog.catCursor + 1) % len(categories)
		}
	case " ":
		if len(categories) > 0 && m.catalog.catCursor < len(categories) {
			m.store.ToggleCategory(categories[m.catalog.catCursor])
			m.catalog.clampCursor(m.store)
		}
	case "/":
		m.catalog.searching = true
		m.catalog.search.Focus()
		return m, textinput.Blink
	case "r":
		ctx, store := m.ctx, m.store
		return m, func() tea.Msg {
			return catalogRefreshedMsg{err: store.RefreshCatalog(ctx)}
		}
	case "enter":
		if m.catalog.cursor < len(products) {
			m.product = newProductState(products[m.catalog.cursor].ID)
			m.view = ViewProduct
		}
	}

	return m, nil
}

// handleCatalogSearchKey processes keys while the search input is focused.
func (m Model) handleCatalogSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.catalog.searching = false
		m.catalog.search.Blur()
		m.catalog.clampCursor(m.store)
		return m, nil
	case "esc":
		m.catalog.searching = false
		m.catalog.search.Blur()
		m.catalog.search.SetValue("")
		m.catalog.clampCursor(m.store)
		return m, nil
	}

	var cmd tea.Cmd
	m.catalog.search, cmd = m.catalog.search.Update(msg)
	m.catalog.clampCursor(m.store)
	return m, cmd
}

// renderCatalog renders the product list with the category filter row.
func (m Model) renderCatalog() string {
	styles := m.theme.Styles()
	var b strings.Builder

	// Category filter row
	categories := m.store.Categories()
	if len(categories) > 0 {
		chips := make([]string, 0, len(categories))
		for i, label := range categories {
			chip := label
			if m.store.IsCategorySelected(label) {
				chip = "[x] " + chip
			} else {
				chip = "[ ] " + chip
			}
			if i == m.catalog.catCursor {
				chips = append(chips, styles.Selected.Render(chip))
			} else {
				chips = append(chips, styles.MutedText.Render(chip))
			}
		}
		b.WriteString("  " + strings.Join(chips, "  "))
		b.WriteString("\n")
	}

	// Search row
	if m.catalog.searching || m.catalog.search.Value() != "" {
		b.WriteString("  " + styles.AccentText.Render("/") + m.catalog.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	products := m.store.FilteredProducts(m.catalog.search.Value())
	if m.loading {
		b.WriteString("  " + styles.MutedText.Render("Loading catalog..."))
		return b.String()
	}
	if len(products) == 0 {
		b.WriteString("  " + styles.MutedText.Render("No products found"))
		return b.String()
	}

	nameWidth := m.width - 30
	if nameWidth < 20 {
		nameWidth = 20
	}
	for i, p := range products {
		marker := " "
		if m.store.IsInWishlist(p.ID) {
			marker = styles.DangerText.Render("♥")
		}
		name := truncate(p.Name, nameWidth)
		line := fmt.Sprintf(" %s %-*s %8s", marker, nameWidth, name, money(m.currency, p.Price))
		if p.Bestseller {
			line += " " + styles.WarningText.Render("★")
		}
		if i == m.catalog.cursor {
			b.WriteString(styles.Selected.Render(">" + line))
		} else {
			b.WriteString(styles.Text.Render(" " + line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
