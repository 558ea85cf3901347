// Package orders provides the backing data source for the shipping orders API.
package orders

import (
	"context"
)

// Order is one shipping order record.
type Order struct {
	ID     int    `json:"order_id" yaml:"order_id" toml:"order_id"`
	Data   string `json:"order_data" yaml:"order_data" toml:"order_data"`
	Status string `json:"order_status" yaml:"order_status" toml:"order_status"`
}

// Store reads the full order collection.
type Store interface {
	Orders(ctx context.Context) ([]Order, error)
}

// Find returns the order with the given id.
func Find(orders []Order, id int) (Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}
