// Package app provides the orchestration layer for vitrine.
//
// # Overview
//
// This package wires together configuration, logging, local storage, the
// storefront HTTP client, the shopping state store and the UI. It serves as
// the composition root where all dependencies are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/vitrine/config.toml
//  2. Load user preferences (theme, remembered login email)
//  3. Open the file logger under the data directory
//  4. Initialize the storefront HTTP client
//  5. Open the local JSON storage under the data directory
//  6. Build the shop.Store that holds catalog, cart, wishlist and token
//  7. Start the TUI and block until the user exits or the context cancels
//
// The store performs its own startup sequence once the UI is running: it
// fetches the catalog, restores the token, cart and wishlist from local
// storage, and replaces the cart with the server copy when a token exists.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file present but invalid
//   - Storefront client initialization failure (bad server URL)
//   - Local storage directory cannot be created
//
// Recoverable conditions (degraded, never fatal):
//   - Log file cannot be opened: logging becomes a no-op
//   - Preferences missing or corrupt: defaults apply
//   - Backend unreachable: the UI starts with an empty catalog and a notice
//
// # Dependencies
//
//   - config: Loads and parses the vitrine configuration file
//   - prefs: User preferences persistence
//   - logging: File-backed structured logger
//   - storage: Local JSON persistence for token, cart and wishlist
//   - storefront: HTTP client for the storefront API
//   - shop: Authoritative shopping state
//   - ui: Terminal user interface
package app
