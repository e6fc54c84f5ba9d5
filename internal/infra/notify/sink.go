// Package notify delivers placed orders to the shop: a WhatsApp deep link
// for the customer and event sinks for the back office.
package notify

import (
	"context"
	"errors"

	"storefront/internal/domain/model"

	"go.uber.org/zap"
)

// OrderSink is told about every placed order. Errors are reported to the
// caller but must not undo the order.
type OrderSink interface {
	OrderPlaced(ctx context.Context, order model.Order) error
}

// LogSink writes placed orders to the application log.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) OrderPlaced(_ context.Context, o model.Order) error {
	s.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("mobile", o.Mobile),
		zap.Int("lines", len(o.Items)),
		zap.String("total", o.TotalAmount.String()),
		zap.String("payment", string(o.PaymentMethod)),
		zap.String("coupon", o.CouponCode),
	)
	return nil
}

// MultiSink fans out to every sink and joins their errors.
type MultiSink []OrderSink

func (m MultiSink) OrderPlaced(ctx context.Context, o model.Order) error {
	var errs []error
	for _, s := range m {
		if err := s.OrderPlaced(ctx, o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
