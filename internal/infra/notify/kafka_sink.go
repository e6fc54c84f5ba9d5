package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const (
	DefaultOrderTopic = "orders.placed"
	EventOrderPlaced  = "OrderPlaced"
	producerName      = "storefront-api"

	//ブローカー停止中でも注文レスポンスを待たせない
	publishTimeout = 3 * time.Second
)

// Envelope v1
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

type OrderPlacedPayload struct {
	OrderID        string          `json:"order_id"`
	CustomerName   string          `json:"customer_name"`
	Mobile         string          `json:"mobile"`
	Address        string          `json:"address"`
	TimeSlot       string          `json:"time_slot"`
	PaymentMethod  string          `json:"payment_method"`
	Items          []OrderLine     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Total          decimal.Decimal `json:"total"`
	CouponCode     string          `json:"coupon_code,omitempty"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes OrderPlaced events keyed by order id.
type KafkaSink struct {
	w       messageWriter
	now     func() time.Time
	timeout time.Duration
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	if topic == "" {
		topic = DefaultOrderTopic
	}
	return &KafkaSink{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: publishTimeout,
			MaxAttempts:  2,
		},
		now:     time.Now,
		timeout: publishTimeout,
	}
}

func (s *KafkaSink) OrderPlaced(ctx context.Context, o model.Order) error {
	msg, err := orderPlacedMessage(o, s.now())
	if err != nil {
		return err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order %s: %w", o.ID, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.w.Close()
}

func orderPlacedMessage(o model.Order, now time.Time) (kafka.Message, error) {
	lines := make([]OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, OrderLine{ProductID: it.ID, Name: it.Name, Qty: it.Quantity, Price: it.Price})
	}

	payload, err := json.Marshal(OrderPlacedPayload{
		OrderID:        o.ID,
		CustomerName:   o.CustomerName,
		Mobile:         o.Mobile,
		Address:        o.Address,
		TimeSlot:       o.TimeSlot,
		PaymentMethod:  string(o.PaymentMethod),
		Items:          lines,
		Subtotal:       o.Subtotal,
		Discount:       o.Discount,
		DeliveryCharge: o.DeliveryCharge,
		Total:          o.TotalAmount,
		CouponCode:     o.CouponCode,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	value, err := json.Marshal(Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    now.UTC(),
		Producer:      producerName,
		CorrelationID: o.ID,
		Payload:       payload,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(o.ID),
		Value: value,
		Time:  now,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
			{Key: "x-event-version", Value: []byte("1")},
		},
	}, nil
}
