// Package ui provides the terminal user interface for vitrine.
//
// # Architecture Overview
//
// The UI is built on Bubble Tea's Model/Update/View loop. A single root Model
// owns the active screen, the theme and one small state struct per screen.
// All domain state (catalog, cart, wishlist, auth token, category filters)
// lives in shop.Store; the UI only reads snapshots from it and dispatches
// mutations through tea.Cmd closures so the event loop never blocks on the
// network.
//
// # Package Structure
//
//   - app.go: Root model, message plumbing, global key handling and Run
//   - header.go: Status bar (auth state, cart badge, transient notice) and key hints
//   - catalog.go: Product list with category filter and search
//   - product.go: Product detail with size picker
//   - cart.go: Cart lines, quantity editing and totals
//   - wishlist.go: Saved products
//   - checkout.go: Delivery address form and order submission
//   - orders.go: Order history with status badges
//   - auth.go: Login, signup and OTP verification
//   - info.go: Static pages (about, contact, terms, privacy)
//   - theme.go: Color themes and Lipgloss styles
//   - helpers.go: Text truncation, word wrapping and money formatting
//
// # Screens
//
//   - Catalog: Browse and search the product list, toggle category filters
//   - Product: Size selection, add to cart, wishlist toggle
//   - Cart: Adjust quantities, remove lines, proceed to checkout
//   - Wishlist: Saved products, jump back to details
//   - Checkout: Delivery address form, places the order
//   - Orders: Order history with per-status color badges
//   - Login/OTP: Credential entry and email verification
//   - Info: Static storefront pages
//
// # Event Flow
//
//  1. Run() builds the model and starts the Bubble Tea program in the
//     alternate screen
//  2. Init() kicks off the store initialization command and the repaint tick
//  3. Slow work (HTTP calls through shop.Store) runs inside tea.Cmd closures
//     and comes back as typed messages
//  4. A periodic tick repaints so transient notices disappear on time
//
// # Key Bindings
//
//   - b/c/w/o/i: Catalog, cart, wishlist, orders, info screens
//   - u: Login or logout
//   - T: Cycle color theme
//   - /: Search the catalog
//   - Tab/Space: Move and toggle category filters
//   - ESC: Back to the catalog
//   - e or Ctrl+C: Exit
package ui
