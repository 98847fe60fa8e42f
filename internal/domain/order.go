package domain

import "time"

// OrderItem mirrors a CartItem at placement time. UnitPrice is frozen and
// immune to later catalog price changes.
type OrderItem struct {
	ProductID int64  `json:"product_id" bson:"product_id"`
	Name      string `json:"name" bson:"name"`
	Image     string `json:"image" bson:"image"`
	UnitPrice int64  `json:"unit_price" bson:"unit_price"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

type OrderUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order as returned by the storefront backend. Immutable after creation
// except the paid/delivered flags, which the backend flips.
type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"order_items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	ItemsPrice      int64           `json:"items_price"`
	ShippingPrice   int64           `json:"shipping_price"`
	TotalPrice      int64           `json:"total_price"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	User            OrderUser       `json:"user"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderDraft is the frozen snapshot submitted to order creation: cart items,
// address, payment method, and the totals computed at submit time.
type OrderDraft struct {
	Items           []OrderItem     `json:"order_items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	ItemsPrice      int64           `json:"items_price"`
	ShippingPrice   int64           `json:"shipping_price"`
	TotalPrice      int64           `json:"total_price"`
}
