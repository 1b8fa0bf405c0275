package shop

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tamsinv/vitrine/internal/notify"
	"github.com/tamsinv/vitrine/internal/storage"
	"github.com/tamsinv/vitrine/internal/storefront"
)

// fakeBackend implements storefront.Backend with canned responses.
type fakeBackend struct {
	products    []storefront.Product
	productsErr error
	serverCart  storefront.CartData
	cartGetErr  error
	cartAddErr  error
	cartUpdErr  error
	placeErr    error
	orders      []storefront.Order

	cartAdds    []string // "id/size"
	cartUpdates []string // "id/size=qty"
	placed      []storefront.OrderRequest
}

var _ storefront.Backend = (*fakeBackend)(nil)

func (f *fakeBackend) FetchProducts(ctx context.Context) ([]storefront.Product, error) {
	return f.products, f.productsErr
}

func (f *fakeBackend) Register(ctx context.Context, name, email, password, otp string) (string, error) {
	return "OTP sent", nil
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (string, error) {
	return "tok", nil
}

func (f *fakeBackend) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	return "tok", nil
}

func (f *fakeBackend) ResendOTP(ctx context.Context, email, otp string) error {
	return nil
}

func (f *fakeBackend) CartAdd(ctx context.Context, token, itemID, size string) error {
	f.cartAdds = append(f.cartAdds, itemID+"/"+size)
	return f.cartAddErr
}

func (f *fakeBackend) CartUpdate(ctx context.Context, token, itemID, size string, quantity int) error {
	f.cartUpdates = append(f.cartUpdates, fmt.Sprintf("%s/%s=%d", itemID, size, quantity))
	return f.cartUpdErr
}

func (f *fakeBackend) CartGet(ctx context.Context, token string) (storefront.CartData, error) {
	return f.serverCart, f.cartGetErr
}

func (f *fakeBackend) PlaceOrder(ctx context.Context, token string, order storefront.OrderRequest) (string, error) {
	if f.placeErr != nil {
		return "", f.placeErr
	}
	f.placed = append(f.placed, order)
	return "Order Placed", nil
}

func (f *fakeBackend) FetchOrders(ctx context.Context, token string) ([]storefront.Order, error) {
	return f.orders, nil
}

// failingStore wraps a storage.Store and fails every Set.
type failingStore struct {
	storage.Store
}

func (failingStore) Set(key string, value any) error {
	return errors.New("disk full")
}

func catalog() []storefront.Product {
	return []storefront.Product{
		{ID: "P1", Name: "Linen Shirt", Price: 20, Category: "Men", Sizes: []string{"S", "M", "L"}},
		{ID: "P2", Name: "Silk Dress", Price: 80, Category: "Women", Sizes: []string{"S", "M"}, Bestseller: true},
		{ID: "P3", Name: "Wool Coat", Price: 150, Category: "Women", Sizes: []string{"M", "L"}},
	}
}

func newTestStore(t *testing.T, backend *fakeBackend) (*Store, storage.Store) {
	t.Helper()
	local, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	s := New(Options{Backend: backend, Local: local})
	return s, local
}

func authenticate(s *Store) {
	s.Login("tok")
	s.Notices().Dismiss()
}

func TestInit_LoadsCatalogAndPersistedState(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	local, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if err := local.Set("cart", Cart{"P1": {"M": 2}}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	if err := local.Set("wishlist", []string{"P2"}); err != nil {
		t.Fatalf("seed wishlist: %v", err)
	}

	s := New(Options{Backend: backend, Local: local})
	s.Init(context.Background())

	if len(s.Products()) != 3 {
		t.Fatalf("Products = %d items, want 3", len(s.Products()))
	}
	if s.IsAuthenticated() {
		t.Fatal("IsAuthenticated = true, want guest mode with no persisted token")
	}
	if got := s.CartSnapshot()["P1"]["M"]; got != 2 {
		t.Fatalf("cart P1/M = %d, want 2 from local storage", got)
	}
	if !s.IsInWishlist("P2") {
		t.Fatal("IsInWishlist(P2) = false, want persisted wishlist loaded")
	}
}

func TestInit_ServerCartWinsWhenAuthenticated(t *testing.T) {
	backend := &fakeBackend{
		products:   catalog(),
		serverCart: storefront.CartData{"P2": {"S": 1}},
	}
	local, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if err := local.Set("token", "tok"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if err := local.Set("cart", Cart{"P1": {"M": 5}}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	s := New(Options{Backend: backend, Local: local})
	s.Init(context.Background())

	snap := s.CartSnapshot()
	if snap["P2"]["S"] != 1 {
		t.Fatalf("cart = %#v, want server cart P2/S=1", snap)
	}
	if _, ok := snap["P1"]; ok {
		t.Fatalf("cart = %#v, want local P1 entry replaced wholesale", snap)
	}
}

func TestInit_CatalogFetchFailureLeavesEmptyCatalog(t *testing.T) {
	backend := &fakeBackend{productsErr: errors.New("boom")}
	s, _ := newTestStore(t, backend)

	s.Init(context.Background())

	if len(s.Products()) != 0 {
		t.Fatalf("Products = %d items, want empty catalog on fetch failure", len(s.Products()))
	}
	n, ok := s.Notices().Current()
	if !ok || n.Kind != notify.Error {
		t.Fatalf("notice = %#v ok=%v, want error notice", n, ok)
	}
}

func TestAddToCart_IncrementsAndSyncs(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, local := newTestStore(t, backend)
	_ = s.RefreshCatalog(context.Background())
	authenticate(s)

	s.AddToCart(context.Background(), "P1", "M")
	if got := s.CartSnapshot()["P1"]["M"]; got != 1 {
		t.Fatalf("quantity after first add = %d, want 1", got)
	}

	s.AddToCart(context.Background(), "P1", "M")
	if got := s.CartSnapshot()["P1"]["M"]; got != 2 {
		t.Fatalf("quantity after second add = %d, want 2", got)
	}

	if len(backend.cartAdds) != 2 || backend.cartAdds[0] != "P1/M" {
		t.Fatalf("remote cart adds = %v, want two P1/M calls", backend.cartAdds)
	}

	var persisted Cart
	ok, err := local.Get("cart", &persisted)
	if err != nil || !ok {
		t.Fatalf("persisted cart ok=%v err=%v, want present", ok, err)
	}
	if persisted["P1"]["M"] != 2 {
		t.Fatalf("persisted cart = %#v, want P1/M=2", persisted)
	}
}

func TestAddToCart_GuestModeRejects(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, _ := newTestStore(t, backend)

	s.AddToCart(context.Background(), "P1", "M")

	if len(s.CartSnapshot()) != 0 {
		t.Fatalf("cart = %#v, want unchanged in guest mode", s.CartSnapshot())
	}
	if len(backend.cartAdds) != 0 {
		t.Fatalf("remote cart adds = %v, want none in guest mode", backend.cartAdds)
	}
	n, ok := s.Notices().Current()
	if !ok || n.Kind != notify.Error {
		t.Fatalf("notice = %#v ok=%v, want error notice", n, ok)
	}
}

func TestAddToCart_RemoteFailureKeepsLocalState(t *testing.T) {
	backend := &fakeBackend{
		products:   catalog(),
		cartAddErr: &storefront.APIError{Message: "Size unavailable"},
	}
	s, _ := newTestStore(t, backend)
	_ = s.RefreshCatalog(context.Background())
	authenticate(s)

	s.AddToCart(context.Background(), "P1", "M")

	if got := s.CartSnapshot()["P1"]["M"]; got != 1 {
		t.Fatalf("quantity = %d, want optimistic local state kept", got)
	}
	n, ok := s.Notices().Current()
	if !ok || n.Kind != notify.Error || n.Message != "Size unavailable" {
		t.Fatalf("notice = %#v ok=%v, want server message surfaced", n, ok)
	}
}

func TestUpdateQuantity_ZeroRetainedButNotCounted(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, _ := newTestStore(t, backend)
	_ = s.RefreshCatalog(context.Background())
	authenticate(s)

	s.AddToCart(context.Background(), "P1", "M")
	s.UpdateQuantity(context.Background(), "P1", "M", 0)

	snap := s.CartSnapshot()
	if qty, ok := snap["P1"]["M"]; !ok || qty != 0 {
		t.Fatalf("cart = %#v, want P1/M retained with quantity 0", snap)
	}
	if got := s.CartAmount(); got != 0 {
		t.Fatalf("CartAmount = %v, want 0 for zero-quantity entry", got)
	}
	if got := s.CartCount(); got != 0 {
		t.Fatalf("CartCount = %d, want 0 for zero-quantity entry", got)
	}
	if got := len(s.CartLines()); got != 0 {
		t.Fatalf("CartLines = %d lines, want none for zero-quantity entry", got)
	}
}

func TestUpdateQuantity_CreatesAbsentEntry(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, _ := newTestStore(t, backend)
	_ = s.RefreshCatalog(context.Background())
	authenticate(s)

	s.UpdateQuantity(context.Background(), "P2", "S", 3)
	if got := s.CartSnapshot()["P2"]["S"]; got != 3 {
		t.Fatalf("quantity = %d, want 3 on an entry created by UpdateQuantity", got)
	}
	if len(backend.cartUpdates) != 1 || backend.cartUpdates[0] != "P2/S=3" {
		t.Fatalf("remote cart updates = %v, want P2/S=3", backend.cartUpdates)
	}
}

func TestUpdateQuantity_NegativeIgnored(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, _ := newTestStore(t, backend)
	_ = s.RefreshCatalog(context.Background())
	authenticate(s)

	s.UpdateQuantity(context.Background(), "P1", "M", -1)
	if len(s.CartSnapshot()) != 0 {
		t.Fatalf("cart = %#v, want untouched on negative quantity", s.CartSnapshot())
	}
}

func TestCartAmount_SkipsUnknownProducts(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, _ := newTestStore(t, backend)
	_ = s.RefreshCatalog(context.Background())
	authenticate(s)

	s.AddToCart(context.Background(), "P1", "M")
	s.AddToCart(context.Background(), "P1", "M")
	s.UpdateQuantity(context.Background(), "GONE", "M", 4)

	// P1 price 20 x 2 = 40; GONE is not in the catalog and contributes 0.
	if got := s.CartAmount(); got != 40 {
		t.Fatalf("CartAmount = %v, want 40", got)
	}
	if got := s.DeliveryCharge(); got != DeliveryFee {
		t.Fatalf("DeliveryCharge = %v, want %v below threshold", got, DeliveryFee)
	}
	if got := s.TotalAmount(); got != 50 {
		t.Fatalf("TotalAmount = %v, want 50", got)
	}
}

func TestDeliveryCharge_Boundaries(t *testing.T) {
	cases := []struct {
		amount float64
		want   float64
	}{
		{0, 0},
		{0.01, DeliveryFee},
		{FreeShippingThreshold - 1, DeliveryFee},
		{FreeShippingThreshold, 0},
		{FreeShippingThreshold + 50, 0},
	}
	for _, tc := range cases {
		if got := deliveryCharge(tc.amount); got != tc.want {
			t.Fatalf("deliveryCharge(%v) = %v, want %v", tc.amount, got, tc.want)
		}
	}
}

func TestToggleWishlist_RoundTrip(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, local := newTestStore(t, backend)
	authenticate(s)

	if err := s.ToggleWishlist("P1"); err != nil {
		t.Fatalf("ToggleWishlist returned error: %v", err)
	}
	if !s.IsInWishlist("P1") {
		t.Fatal("IsInWishlist = false after first toggle, want true")
	}
	n, ok := s.Notices().Current()
	if !ok || n.Message != "Added to wishlist" {
		t.Fatalf("notice = %#v ok=%v, want Added to wishlist", n, ok)
	}

	if err := s.ToggleWishlist("P1"); err != nil {
		t.Fatalf("ToggleWishlist returned error: %v", err)
	}
	if s.IsInWishlist("P1") {
		t.Fatal("IsInWishlist = true after second toggle, want false")
	}

	var persisted []string
	ok, err := local.Get("wishlist", &persisted)
	if err != nil || !ok {
		t.Fatalf("persisted wishlist ok=%v err=%v, want present", ok, err)
	}
	if len(persisted) != 0 {
		t.Fatalf("persisted wishlist = %v, want empty after double toggle", persisted)
	}
}

func TestToggleWishlist_GuestModeRejects(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := newTestStore(t, backend)

	err := s.ToggleWishlist("P1")
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("ToggleWishlist error = %v, want ErrNotAuthenticated", err)
	}
	if s.IsInWishlist("P1") {
		t.Fatal("wishlist changed in guest mode")
	}
}

func TestToggleWishlist_PersistFailureReverts(t *testing.T) {
	backend := &fakeBackend{}
	local, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	s := New(Options{Backend: backend, Local: failingStore{local}})
	s.Login("tok")

	err = s.ToggleWishlist("P1")
	if err == nil {
		t.Fatal("ToggleWishlist returned nil error, want persistence error")
	}
	if s.IsInWishlist("P1") {
		t.Fatal("IsInWishlist = true after failed persist, want membership reverted")
	}
}

func TestLogout_ClearsMemoryAndStorage(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, local := newTestStore(t, backend)
	_ = s.RefreshCatalog(context.Background())
	authenticate(s)

	s.AddToCart(context.Background(), "P1", "M")
	if err := s.ToggleWishlist("P2"); err != nil {
		t.Fatalf("ToggleWishlist returned error: %v", err)
	}

	s.Logout()

	if s.IsAuthenticated() {
		t.Fatal("IsAuthenticated = true after Logout")
	}
	if len(s.CartSnapshot()) != 0 || len(s.Wishlist()) != 0 {
		t.Fatal("cart/wishlist not cleared from memory on Logout")
	}

	for _, key := range []string{"token", "cart", "wishlist"} {
		var raw any
		ok, err := local.Get(key, &raw)
		if err != nil {
			t.Fatalf("Get(%q) returned error: %v", key, err)
		}
		if ok {
			t.Fatalf("storage key %q still present after Logout", key)
		}
	}

	// A fresh store over the same storage must come up empty.
	fresh := New(Options{Backend: backend, Local: local})
	fresh.Init(context.Background())
	if fresh.IsAuthenticated() || len(fresh.CartSnapshot()) != 0 || len(fresh.Wishlist()) != 0 {
		t.Fatal("fresh load after Logout read back non-empty state")
	}
}

func TestToggleCategoryAndFilteredProducts(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, _ := newTestStore(t, backend)
	_ = s.RefreshCatalog(context.Background())

	if got := s.Categories(); len(got) != 2 || got[0] != "Men" || got[1] != "Women" {
		t.Fatalf("Categories = %v, want [Men Women]", got)
	}

	s.ToggleCategory("Women")
	if !s.IsCategorySelected("Women") {
		t.Fatal("IsCategorySelected(Women) = false after toggle")
	}

	filtered := s.FilteredProducts("")
	if len(filtered) != 2 {
		t.Fatalf("FilteredProducts = %d items, want 2 in Women", len(filtered))
	}

	filtered = s.FilteredProducts("silk")
	if len(filtered) != 1 || filtered[0].ID != "P2" {
		t.Fatalf("FilteredProducts(silk) = %#v, want just P2", filtered)
	}

	s.ToggleCategory("Women")
	if s.IsCategorySelected("Women") {
		t.Fatal("IsCategorySelected(Women) = true after second toggle")
	}
	if got := len(s.FilteredProducts("")); got != 3 {
		t.Fatalf("FilteredProducts = %d items, want full catalog with no filters", got)
	}
}

func TestPlaceOrder_BuildsItemsAndClearsCart(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, local := newTestStore(t, backend)
	_ = s.RefreshCatalog(context.Background())
	authenticate(s)

	s.AddToCart(context.Background(), "P1", "M")
	s.AddToCart(context.Background(), "P1", "M")
	s.UpdateQuantity(context.Background(), "P2", "S", 0)

	msg, err := s.PlaceOrder(context.Background(), storefront.Address{FirstName: "Ana", City: "Lisbon"})
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if msg != "Order Placed" {
		t.Fatalf("PlaceOrder message = %q, want %q", msg, "Order Placed")
	}

	if len(backend.placed) != 1 {
		t.Fatalf("placed orders = %d, want 1", len(backend.placed))
	}
	order := backend.placed[0]
	if len(order.Items) != 1 || order.Items[0].ID != "P1" || order.Items[0].Quantity != 2 {
		t.Fatalf("order items = %#v, want one P1 line with quantity 2", order.Items)
	}
	// P1 20 x 2 = 40, plus delivery fee 10 below the threshold.
	if order.Amount != 50 {
		t.Fatalf("order amount = %v, want 50", order.Amount)
	}

	if len(s.CartSnapshot()) != 0 {
		t.Fatal("cart not cleared after successful order")
	}
	var raw any
	ok, err := local.Get("cart", &raw)
	if err != nil {
		t.Fatalf("Get(cart) returned error: %v", err)
	}
	if ok {
		t.Fatal("persisted cart still present after successful order")
	}
}

func TestPlaceOrder_GuestAndEmptyCart(t *testing.T) {
	backend := &fakeBackend{products: catalog()}
	s, _ := newTestStore(t, backend)
	_ = s.RefreshCatalog(context.Background())

	if _, err := s.PlaceOrder(context.Background(), storefront.Address{}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("PlaceOrder error = %v, want ErrNotAuthenticated", err)
	}

	authenticate(s)
	if _, err := s.PlaceOrder(context.Background(), storefront.Address{}); err == nil {
		t.Fatal("PlaceOrder returned nil error on empty cart, want error")
	}
}

func TestOrders_RequiresToken(t *testing.T) {
	backend := &fakeBackend{orders: []storefront.Order{{ID: "O1"}}}
	s, _ := newTestStore(t, backend)

	if _, err := s.Orders(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("Orders error = %v, want ErrNotAuthenticated", err)
	}

	authenticate(s)
	orders, err := s.Orders(context.Background())
	if err != nil {
		t.Fatalf("Orders returned error: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "O1" {
		t.Fatalf("Orders = %#v, want 1 order id=O1", orders)
	}
}
