package domain

// CartItem is one cart line. UnitPrice is in currency minor units.
type CartItem struct {
	ProductID    int64  `json:"product_id" bson:"product_id"`
	Name         string `json:"name" bson:"name"`
	Image        string `json:"image" bson:"image"`
	UnitPrice    int64  `json:"unit_price" bson:"unit_price"`
	Quantity     int    `json:"quantity" bson:"quantity"`
	CountInStock int    `json:"count_in_stock" bson:"count_in_stock"`
}

// Cart is the live checkout state for one session. Items keep insertion
// order. Derived prices are never stored on the cart; they are recomputed
// from Items every time they are needed.
type Cart struct {
	Items           []CartItem       `json:"items" bson:"items"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty" bson:"shipping_address,omitempty"`
	PaymentMethod   string           `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
}

type ShippingAddress struct {
	Country    string `json:"country" bson:"country"`
	City       string `json:"city" bson:"city"`
	Address    string `json:"address" bson:"address"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
}

func (c *Cart) HasShippingAddress() bool {
	return c.ShippingAddress != nil
}

func (c *Cart) HasPaymentMethod() bool {
	return c.PaymentMethod != ""
}
