// Package consumer applies order events to the catalog.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Skotchmaster/logistics_shop/pkg/events"
)

type StockApplier interface {
	ApplyOrder(ctx context.Context, ev events.OrderCreated) error
}

// OrderCreated returns a handler for the order topic. Events other than
// order_created are skipped; undecodable ones are reported as
// events.ErrMalformed.
func OrderCreated(svc StockApplier) events.HandlerFunc {
	return func(ctx context.Context, _, value []byte) error {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(value, &head); err != nil {
			return fmt.Errorf("decode event: %v: %w", err, events.ErrMalformed)
		}
		if head.Type != events.TypeOrderCreated {
			return nil
		}

		var ev events.OrderCreated
		if err := json.Unmarshal(value, &ev); err != nil {
			return fmt.Errorf("decode order_created: %v: %w", err, events.ErrMalformed)
		}
		return svc.ApplyOrder(ctx, ev)
	}
}
