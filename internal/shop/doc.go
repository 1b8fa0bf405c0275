// Package shop holds the shared shopping state: product catalog, cart,
// wishlist, auth token and category filters, with derived totals and the
// persistence and remote-sync side effects of each mutation.
package shop
