package store

import (
	"encoding/json"
	"fmt"
	"log"

	"kugihands/internal/kvstore"
	"kugihands/internal/models"
)

const ordersKey = "kugihands-orders"

// Orders is the append-only log of placed orders. Records are never
// mutated or removed once written.
type Orders struct {
	kv       kvstore.Store
	errorLog *log.Logger
}

func NewOrders(kv kvstore.Store, errorLog *log.Logger) *Orders {
	return &Orders{kv: kv, errorLog: errorLog}
}

// Append persists order at the end of the log.
func (o *Orders) Append(order models.Order) error {
	orders := o.load()
	raw, err := json.Marshal(append(orders, order))
	if err != nil {
		return fmt.Errorf("encode orders: %w", err)
	}
	if err := o.kv.Set(ordersKey, string(raw)); err != nil {
		return fmt.Errorf("persist orders: %w", err)
	}
	return nil
}

// List returns every order placed so far, oldest first.
func (o *Orders) List() []models.Order {
	return o.load()
}

func (o *Orders) load() []models.Order {
	raw, ok, err := o.kv.Get(ordersKey)
	if err != nil || !ok {
		return nil
	}
	var orders []models.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		if o.errorLog != nil {
			o.errorLog.Printf("discarding corrupt order log: %v", err)
		}
		return nil
	}
	return orders
}
