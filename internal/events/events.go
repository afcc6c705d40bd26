package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/GlebRadaev/smmpanel/internal/domain"
)

const OrderPlaced = "order.placed"

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderEvent struct {
	Event     string             `json:"event"`
	OrderID   int64              `json:"order_id"`
	AccountID int                `json:"account_id"`
	ServiceID int                `json:"service_id"`
	Link      string             `json:"link"`
	Quantity  int                `json:"quantity"`
	Charge    string             `json:"charge"`
	Status    domain.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// Publisher announces placed orders on a Kafka topic keyed by order id.
type Publisher struct {
	writer Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func NewPublisherWithWriter(writer Writer) *Publisher {
	return &Publisher{
		writer: writer,
	}
}

func (p *Publisher) PublishOrders(ctx context.Context, orders []domain.Order) error {
	msgs := make([]kafka.Message, 0, len(orders))
	for _, o := range orders {
		value, err := json.Marshal(OrderEvent{
			Event:     OrderPlaced,
			OrderID:   o.OrderID,
			AccountID: o.AccountID,
			ServiceID: o.ServiceID,
			Link:      o.Link,
			Quantity:  o.Quantity,
			Charge:    domain.FormatMoney(o.Charge),
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(o.OrderID, 10)),
			Value: value,
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		zap.L().Error("can't publish order events", zap.Int("count", len(msgs)), zap.Error(err))
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Nop drops events; used when no brokers are configured.
type Nop struct{}

func (Nop) PublishOrders(context.Context, []domain.Order) error { return nil }

func (Nop) Close() error { return nil }
