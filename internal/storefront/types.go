package storefront

import "time"

// Product mirrors a catalog entry returned by /api/product/list. Products are
// immutable on the client; each fetch replaces the whole catalog.
type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Sizes       []string `json:"sizes"`
	Bestseller  bool     `json:"bestseller"`
}

// CartData is the wire form of the cart: product id -> size -> quantity.
type CartData map[string]map[string]int

// Address is the delivery address collected by the checkout form.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// OrderItem is a product line inside an order: the catalog entry plus the
// chosen size and quantity.
type OrderItem struct {
	Product
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// OrderRequest is the payload for /api/order/place.
type OrderRequest struct {
	Address Address     `json:"address"`
	Items   []OrderItem `json:"items"`
	Amount  float64     `json:"amount"`
}

// Order is a previously placed order returned by /api/order/userorders.
type Order struct {
	ID            string      `json:"_id"`
	Items         []OrderItem `json:"items"`
	Amount        float64     `json:"amount"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	Payment       bool        `json:"payment"`
	Date          int64       `json:"date"` // unix milliseconds
}

// PlacedAt returns the order date as time.Time.
func (o Order) PlacedAt() time.Time {
	if o.Date == 0 {
		return time.Time{}
	}
	return time.UnixMilli(o.Date)
}

type productListResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Products []Product `json:"products"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type cartGetResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	CartData CartData `json:"cartData"`
}

type ordersResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Orders  []Order `json:"orders"`
}

type basicResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
