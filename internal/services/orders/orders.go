// Package orders runs the purchase and sales order workflows: an order shell
// is created, its lines are priced and persisted in input order, and the total
// is written back, all inside one transaction.
package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/apperr"
	"inventory-system/internal/notify"
)

const (
	PurchasePrefix = "PO"
	SalesPrefix    = "SO"

	KindPurchase = "purchase"
	KindSales    = "sales"

	orderNumberLayout = "20060102150405"
)

// GenerateOrderNumber formats prefix-yyyyMMddHHmmss from now in UTC. Numbers
// are not unique when two orders of the same kind share a second.
func GenerateOrderNumber(prefix string, now time.Time) string {
	return prefix + "-" + now.UTC().Format(orderNumberLayout)
}

type LineRequest struct {
	ItemID   uuid.UUID
	Quantity int
}

type Request struct {
	PartyID   uuid.UUID
	OrderDate time.Time
	Items     []LineRequest
}

func (r *Request) normalize(now time.Time) error {
	if r.PartyID == uuid.Nil {
		return apperr.ValidationField("partyId", "Party is required")
	}
	if len(r.Items) == 0 {
		return apperr.ValidationField("items", "At least one item is required")
	}
	for i := range r.Items {
		if r.Items[i].ItemID == uuid.Nil {
			return apperr.ValidationField("items", "Every line needs an item")
		}
		if r.Items[i].Quantity == 0 {
			r.Items[i].Quantity = 1
		}
		if r.Items[i].Quantity < 0 {
			return apperr.ValidationField("items", "Quantity must be at least 1")
		}
	}
	if r.OrderDate.IsZero() {
		r.OrderDate = now
	}
	r.OrderDate = r.OrderDate.UTC()
	return nil
}

// Option configures an order service.
type Option func(*options)

type options struct {
	events notify.OrderPublisher
	now    func() time.Time
}

func WithPublisher(p notify.OrderPublisher) Option {
	return func(o *options) { o.events = p }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// publish announces an order event. Failures are logged and never reach the
// caller, the order is already committed.
func (o options) publish(ctx context.Context, event notify.OrderEvent) {
	if o.events == nil {
		return
	}
	event.Timestamp = o.now().UTC()
	if err := o.events.PublishOrderEvent(ctx, event); err != nil {
		zap.L().Warn("failed to publish order event",
			zap.String("event", event.EventType),
			zap.String("order_no", event.OrderNo),
			zap.Error(err),
		)
	}
}

func normalizeTerm(term string) string {
	return strings.TrimSpace(term)
}
