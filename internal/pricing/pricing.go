package pricing

import "github.com/fjod/go_checkout/internal/domain"

// Config carries the deployment-specific shipping rule inputs, in currency
// minor units.
type Config struct {
	FreeShippingThreshold int64
	FlatShippingFee       int64
}

func DefaultConfig() Config {
	return Config{
		FreeShippingThreshold: 100000,
		FlatShippingFee:       20000,
	}
}

// Totals are the derived checkout prices in currency minor units.
type Totals struct {
	ItemsPrice    int64 `json:"items_price"`
	ShippingPrice int64 `json:"shipping_price"`
	TotalPrice    int64 `json:"total_price"`
}

// ComputeTotals derives the totals from the given line items. Shipping is
// free only when the item subtotal strictly exceeds the threshold; a cart
// sitting exactly at the threshold pays the flat fee.
func ComputeTotals(items []domain.CartItem, cfg Config) Totals {
	var itemsPrice int64
	for _, item := range items {
		itemsPrice += item.UnitPrice * int64(item.Quantity)
	}

	shippingPrice := cfg.FlatShippingFee
	if itemsPrice > cfg.FreeShippingThreshold {
		shippingPrice = 0
	}

	return Totals{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TotalPrice:    itemsPrice + shippingPrice,
	}
}

// OrderItemsPrice recomputes the item subtotal from frozen order items. It
// must equal the ItemsPrice stored on the order at creation time.
func OrderItemsPrice(items []domain.OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}
