package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// infoPage is a static content page.
type infoPage struct {
	title string
	body  string
}

// infoState holds the static pages screen.
type infoState struct {
	pages []infoPage
	page  int
	vp    viewport.Model
	ready bool
}

func newInfoState() infoState {
	return infoState{pages: infoPages()}
}

func (s *infoState) resize(width, height int) {
	// Header, command bar and tab row take four lines.
	h := height - 4
	if h < 3 {
		h = 3
	}
	if !s.ready {
		s.vp = viewport.New(width, h)
		s.ready = true
	} else {
		s.vp.Width = width
		s.vp.Height = h
	}
	s.setContent(width)
}

func (s *infoState) setContent(width int) {
	if !s.ready {
		return
	}
	wrapWidth := width - 4
	if wrapWidth > 76 {
		wrapWidth = 76
	}
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	var b strings.Builder
	for _, paragraph := range strings.Split(s.pages[s.page].body, "\n\n") {
		for _, line := range wrap(strings.TrimSpace(paragraph), wrapWidth) {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}
	s.vp.SetContent(b.String())
	s.vp.GotoTop()
}

// handleInfoKey processes keys for the static pages screen.
func (m Model) handleInfoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if m.info.page > 0 {
			m.info.page--
			m.info.setContent(m.width)
		}
		return m, nil
	case "l", "right":
		if m.info.page < len(m.info.pages)-1 {
			m.info.page++
			m.info.setContent(m.width)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.info.vp, cmd = m.info.vp.Update(msg)
	return m, cmd
}

// renderInfo renders the tab row and the current page.
func (m Model) renderInfo() string {
	styles := m.theme.Styles()

	tabs := make([]string, 0, len(m.info.pages))
	for i, page := range m.info.pages {
		if i == m.info.page {
			tabs = append(tabs, styles.Selected.Render(" "+page.title+" "))
		} else {
			tabs = append(tabs, styles.MutedText.Render(" "+page.title+" "))
		}
	}

	body := ""
	if m.info.ready {
		body = m.info.vp.View()
	}
	return "  " + strings.Join(tabs, " ") + "\n" + body
}

func infoPages() []infoPage {
	return []infoPage{
		{
			title: "About",
			body: `vitrine is a terminal storefront for a small fashion retailer.

Browse the catalog, filter by category, keep a wishlist and place orders without leaving your terminal. Your cart follows you: sign in on any device and the storefront restores it.

Every piece in the catalog is picked for quality and longevity. Bestsellers are marked with a star.`,
		},
		{
			title: "Contact",
			body: `Questions about an order, a return or anything else?

Email: support@vitrine.example
Phone: +1 (555) 010-0199

Our support hours are Monday through Friday, 9:00 to 18:00 CET. We usually answer within one business day.`,
		},
		{
			title: "Terms",
			body: `Orders are confirmed by email once placed. Prices include applicable taxes.

Delivery is free for orders above the free shipping threshold shown at checkout; a flat delivery fee applies otherwise.

Unworn items can be returned within 30 days of delivery for a full refund. Return shipping is on us for defective items.`,
		},
		{
			title: "Privacy",
			body: `We store your delivery address and order history to fulfil your orders. Your sign-in token and cart are kept locally on this device.

We never sell your data. Sign out at any time to remove your token, cart and wishlist from this device.`,
		},
	}
}
