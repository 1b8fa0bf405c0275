package shop

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tamsinv/vitrine/internal/notify"
	"github.com/tamsinv/vitrine/internal/storage"
	"github.com/tamsinv/vitrine/internal/storefront"
)

// Cart maps product id -> size -> quantity. A quantity of zero is kept in
// place rather than pruned; consumers filter on quantity > 0.
type Cart map[string]map[string]int

// CartLine is a flattened cart entry joined against the catalog.
type CartLine struct {
	Product  storefront.Product
	Size     string
	Quantity int
}

const (
	// DeliveryFee is charged on orders below the free shipping threshold.
	DeliveryFee = 10.0
	// FreeShippingThreshold is the cart amount at which delivery becomes free.
	FreeShippingThreshold = 120.0
)

// Storage keys for the locally persisted blobs.
const (
	keyToken    = "token"
	keyCart     = "cart"
	keyWishlist = "wishlist"
)

// ErrNotAuthenticated reports a mutating operation attempted in guest mode.
var ErrNotAuthenticated = errors.New("not authenticated")

// Options configure the shop store.
type Options struct {
	Backend storefront.Backend
	Local   storage.Store
	Notices *notify.Sink
	Logger  *zap.Logger
}

// Store is the single authoritative holder of the catalog, cart, wishlist,
// auth token and category filters. Mutations apply to memory first; local
// persistence and remote sync run afterwards and never roll the memory state
// back, except for ToggleWishlist which reports persistence failures to its
// caller.
type Store struct {
	backend storefront.Backend
	local   storage.Store
	notices *notify.Sink
	log     *zap.Logger

	mu         sync.RWMutex
	products   []storefront.Product
	productIdx map[string]storefront.Product
	cart       Cart
	wishlist   []string
	token      string
	categories map[string]struct{}
}

// New builds a Store. Backend and Local are required; Notices and Logger fall
// back to a fresh sink and a no-op logger.
func New(opts Options) *Store {
	notices := opts.Notices
	if notices == nil {
		notices = notify.NewSink()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		backend:    opts.Backend,
		local:      opts.Local,
		notices:    notices,
		log:        log,
		productIdx: make(map[string]storefront.Product),
		cart:       make(Cart),
		categories: make(map[string]struct{}),
	}
}

// Notices exposes the sink driving transient UI messages.
func (s *Store) Notices() *notify.Sink {
	return s.notices
}

// Init loads everything the client needs at startup: the catalog from the
// backend, then the persisted token, cart and wishlist. When a token is
// present the server-side cart replaces the locally persisted one wholesale.
func (s *Store) Init(ctx context.Context) {
	if err := s.RefreshCatalog(ctx); err != nil {
		s.log.Warn("catalog fetch failed", zap.Error(err))
		s.notices.Errorf("Error fetching products")
	}

	var token string
	if _, err := s.local.Get(keyToken, &token); err != nil {
		s.log.Warn("load token failed", zap.Error(err))
	}

	cart := make(Cart)
	if _, err := s.local.Get(keyCart, &cart); err != nil {
		s.log.Warn("load cart failed", zap.Error(err))
		cart = make(Cart)
	}

	var wishlist []string
	if _, err := s.local.Get(keyWishlist, &wishlist); err != nil {
		s.log.Warn("load wishlist failed", zap.Error(err))
		wishlist = nil
	}

	s.mu.Lock()
	s.token = token
	s.cart = cart
	s.wishlist = wishlist
	s.mu.Unlock()

	if token != "" {
		if err := s.RefreshServerCart(ctx); err != nil {
			s.log.Warn("server cart fetch failed", zap.Error(err))
			s.notices.Errorf("Failed to load cart")
		}
	}
}

// RefreshCatalog replaces the in-memory catalog with the backend's version.
func (s *Store) RefreshCatalog(ctx context.Context) error {
	products, err := s.backend.FetchProducts(ctx)
	if err != nil {
		return fmt.Errorf("fetch products: %w", err)
	}
	idx := make(map[string]storefront.Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	s.mu.Lock()
	s.products = products
	s.productIdx = idx
	s.mu.Unlock()
	return nil
}

// RefreshServerCart replaces the in-memory cart with the server's version.
// The server cart wins over anything persisted locally.
func (s *Store) RefreshServerCart(ctx context.Context) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return ErrNotAuthenticated
	}

	data, err := s.backend.CartGet(ctx, token)
	if err != nil {
		return fmt.Errorf("get server cart: %w", err)
	}
	cart := make(Cart, len(data))
	for id, sizes := range data {
		cart[id] = make(map[string]int, len(sizes))
		for size, qty := range sizes {
			cart[id][size] = qty
		}
	}
	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()
	s.persistCart()
	return nil
}

// AddToCart increments the quantity for the product/size pair by one. Guest
// mode aborts with a notification before any state change. Remote failures
// surface as a notification only; the local mutation stands.
func (s *Store) AddToCart(ctx context.Context, productID, size string) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		s.notices.Errorf("Please login to add items to your cart")
		return
	}
	token := s.token
	if s.cart[productID] == nil {
		s.cart[productID] = make(map[string]int)
	}
	s.cart[productID][size]++
	s.mu.Unlock()

	s.persistCart()
	s.notices.Successf("Product added to cart")

	if err := s.backend.CartAdd(ctx, token, productID, size); err != nil {
		s.log.Warn("cart add sync failed",
			zap.String("product", productID),
			zap.String("size", size),
			zap.Error(err))
		s.notices.Errorf("%s", remoteMessage(err, "Failed to update cart"))
	}
}

// UpdateQuantity sets the quantity for the product/size pair. Zero marks the
// line as removed in place; the entry stays in the cart with quantity 0.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size string, quantity int) {
	if quantity < 0 {
		return
	}
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		s.notices.Errorf("Please login to update your cart")
		return
	}
	token := s.token
	if s.cart[productID] == nil {
		s.cart[productID] = make(map[string]int)
	}
	s.cart[productID][size] = quantity
	s.mu.Unlock()

	s.persistCart()

	if err := s.backend.CartUpdate(ctx, token, productID, size, quantity); err != nil {
		s.log.Warn("cart update sync failed",
			zap.String("product", productID),
			zap.String("size", size),
			zap.Int("quantity", quantity),
			zap.Error(err))
		s.notices.Errorf("%s", remoteMessage(err, "Failed to update quantity"))
	}
}

// CartAmount sums price x quantity over the cart, skipping entries whose
// product is no longer in the catalog and entries with quantity <= 0.
func (s *Store) CartAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for id, sizes := range s.cart {
		product, ok := s.productIdx[id]
		if !ok {
			continue
		}
		for _, qty := range sizes {
			if qty > 0 {
				total += product.Price * float64(qty)
			}
		}
	}
	return total
}

// DeliveryCharge is the flat fee for carts below the free shipping threshold.
// An empty cart ships nothing and is not charged.
func (s *Store) DeliveryCharge() float64 {
	return deliveryCharge(s.CartAmount())
}

func deliveryCharge(amount float64) float64 {
	if amount > 0 && amount < FreeShippingThreshold {
		return DeliveryFee
	}
	return 0
}

// TotalAmount is the cart amount plus the delivery charge.
func (s *Store) TotalAmount() float64 {
	amount := s.CartAmount()
	return amount + deliveryCharge(amount)
}

// CartCount returns the number of cart lines with quantity > 0.
func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, sizes := range s.cart {
		for _, qty := range sizes {
			if qty > 0 {
				count++
			}
		}
	}
	return count
}

// CartLines flattens the cart into catalog-joined lines with quantity > 0,
// sorted by product name then size for stable rendering.
func (s *Store) CartLines() []CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var lines []CartLine
	for id, sizes := range s.cart {
		product, ok := s.productIdx[id]
		if !ok {
			continue
		}
		for size, qty := range sizes {
			if qty > 0 {
				lines = append(lines, CartLine{Product: product, Size: size, Quantity: qty})
			}
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Product.Name != lines[j].Product.Name {
			return lines[i].Product.Name < lines[j].Product.Name
		}
		return lines[i].Size < lines[j].Size
	})
	return lines
}

// CartSnapshot returns a deep copy of the cart, zero-quantity entries included.
func (s *Store) CartSnapshot() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCart(s.cart)
}

// ToggleWishlist flips membership of the product in the wishlist. It is the
// one operation with caller-visible failure semantics: unauthenticated calls
// and persistence failures return an error so optimistic UI can revert.
func (s *Store) ToggleWishlist(productID string) error {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		s.notices.Errorf("Please login to manage wishlist")
		return ErrNotAuthenticated
	}

	added := true
	next := make([]string, 0, len(s.wishlist)+1)
	for _, id := range s.wishlist {
		if id == productID {
			added = false
			continue
		}
		next = append(next, id)
	}
	if added {
		next = append(next, productID)
	}
	prev := s.wishlist
	s.wishlist = next
	snapshot := append([]string(nil), next...)
	s.mu.Unlock()

	if err := s.local.Set(keyWishlist, snapshot); err != nil {
		s.mu.Lock()
		s.wishlist = prev
		s.mu.Unlock()
		s.log.Warn("persist wishlist failed", zap.Error(err))
		s.notices.Errorf("Failed to update wishlist")
		return fmt.Errorf("persist wishlist: %w", err)
	}

	if added {
		s.notices.Successf("Added to wishlist")
	} else {
		s.notices.Successf("Removed from wishlist")
	}
	return nil
}

// IsInWishlist reports wishlist membership.
func (s *Store) IsInWishlist(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.wishlist {
		if id == productID {
			return true
		}
	}
	return false
}

// Wishlist returns a copy of the wishlist in insertion order.
func (s *Store) Wishlist() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.wishlist...)
}

// Login records and persists the auth token.
func (s *Store) Login(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.local.Set(keyToken, token); err != nil {
		s.log.Warn("persist token failed", zap.Error(err))
	}
}

// Logout clears the token, cart and wishlist from memory and local storage.
// There is no remote invalidation call.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.cart = make(Cart)
	s.wishlist = nil
	s.mu.Unlock()

	for _, key := range []string{keyToken, keyCart, keyWishlist} {
		if err := s.local.Delete(key); err != nil {
			s.log.Warn("clear storage failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Token returns the current auth token, empty in guest mode.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// ToggleCategory flips a category label in the session-only filter set.
func (s *Store) ToggleCategory(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[label]; ok {
		delete(s.categories, label)
	} else {
		s.categories[label] = struct{}{}
	}
}

// IsCategorySelected reports membership in the filter set.
func (s *Store) IsCategorySelected(label string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.categories[label]
	return ok
}

// SelectedCategories returns the filter set sorted alphabetically.
func (s *Store) SelectedCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.categories))
	for label := range s.categories {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Products returns a copy of the catalog.
func (s *Store) Products() []storefront.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]storefront.Product(nil), s.products...)
}

// Product looks up a catalog entry by id.
func (s *Store) Product(id string) (storefront.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.productIdx[id]
	return p, ok
}

// FilteredProducts applies the category filter set and a case-insensitive
// name search to the catalog, preserving catalog order.
func (s *Store) FilteredProducts(search string) []storefront.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(search))
	var out []storefront.Product
	for _, p := range s.products {
		if len(s.categories) > 0 {
			if _, ok := s.categories[p.Category]; !ok {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct category labels present in the catalog,
// sorted alphabetically.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// PlaceOrder submits the current cart with the given delivery address. On
// success the cart is cleared from memory and local storage. Failures are
// returned to the caller for screen-level handling.
func (s *Store) PlaceOrder(ctx context.Context, address storefront.Address) (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		s.notices.Errorf("Please login to place an order")
		return "", ErrNotAuthenticated
	}

	lines := s.CartLines()
	if len(lines) == 0 {
		return "", fmt.Errorf("cart is empty")
	}

	items := make([]storefront.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, storefront.OrderItem{
			Product:  line.Product,
			Size:     line.Size,
			Quantity: line.Quantity,
		})
	}

	message, err := s.backend.PlaceOrder(ctx, token, storefront.OrderRequest{
		Address: address,
		Items:   items,
		Amount:  s.TotalAmount(),
	})
	if err != nil {
		s.log.Warn("place order failed", zap.Error(err))
		return "", fmt.Errorf("place order: %w", err)
	}

	s.mu.Lock()
	s.cart = make(Cart)
	s.mu.Unlock()
	if err := s.local.Delete(keyCart); err != nil {
		s.log.Warn("clear cart storage failed", zap.Error(err))
	}

	s.notices.Successf("Order placed successfully")
	return message, nil
}

// Orders fetches the authenticated user's order history.
func (s *Store) Orders(ctx context.Context) ([]storefront.Order, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	orders, err := s.backend.FetchOrders(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	return orders, nil
}

func (s *Store) persistCart() {
	s.mu.RLock()
	snapshot := cloneCart(s.cart)
	s.mu.RUnlock()

	if err := s.local.Set(keyCart, snapshot); err != nil {
		s.log.Warn("persist cart failed", zap.Error(err))
	}
}

func cloneCart(cart Cart) Cart {
	dup := make(Cart, len(cart))
	for id, sizes := range cart {
		dup[id] = make(map[string]int, len(sizes))
		for size, qty := range sizes {
			dup[id][size] = qty
		}
	}
	return dup
}

func remoteMessage(err error, fallback string) string {
	var apiErr *storefront.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}
