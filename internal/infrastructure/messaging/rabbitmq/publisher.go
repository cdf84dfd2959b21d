package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/user-service/internal/application/users"
	appCtx "github.com/baechuer/user-service/internal/pkg/context"
)

const (
	DefaultExchange = "users.events"

	publishWait = 2 * time.Second
	appID       = "user-service"
)

var errChannelClosed = errors.New("rabbitmq channel closed")

// link is one connection plus its confirm-mode channel.
type link struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	confirms <-chan amqp.Confirmation
}

func (l *link) alive() bool {
	return l != nil && !l.conn.IsClosed() && !l.ch.IsClosed()
}

func (l *link) close() {
	if l == nil {
		return
	}
	_ = l.ch.Close()
	_ = l.conn.Close()
}

// Publisher sends user lifecycle events to a durable topic exchange and
// waits for the broker confirm of each message. Calls are serialized.
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	link *link
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	l, err := dial(url, exchange)
	if err != nil {
		return nil, err
	}
	return &Publisher{url: url, exchange: exchange, link: l}, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.link.close()
	p.link = nil
	return nil
}

// PublishUserEvent uses the event type (user.created, user.updated,
// user.deleted) as the routing key.
func (p *Publisher) PublishUserEvent(ctx context.Context, evt users.UserEvent) error {
	msg, err := newMessage(ctx, evt)
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.link.alive() {
		p.link.close()
		p.link = nil
		l, err := dial(p.url, p.exchange)
		if err != nil {
			return err
		}
		p.link = l
	}

	key := string(evt.Type)
	if err := p.send(ctx, key, msg); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			p.link.close()
			p.link = nil
		}
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

func (p *Publisher) send(ctx context.Context, key string, msg amqp.Publishing) error {
	l := p.link
	tag := l.ch.GetNextPublishSeqNo()

	// mandatory=false: events with no bound queue are dropped by the broker
	if err := l.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg); err != nil {
		return err
	}
	return awaitConfirm(ctx, l.confirms, tag)
}

// awaitConfirm waits for the confirm carrying tag. Confirms with lower tags
// belong to messages whose caller stopped waiting and are skipped.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, tag uint64) error {
	for {
		select {
		case c, ok := <-confirms:
			switch {
			case !ok:
				return errChannelClosed
			case c.DeliveryTag < tag:
				continue
			case !c.Ack:
				return fmt.Errorf("broker nack (delivery tag %d)", c.DeliveryTag)
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func newMessage(ctx context.Context, evt users.UserEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode %s event: %w", evt.Type, err)
	}
	return amqp.Publishing{
		AppId:         appID,
		Type:          string(evt.Type),
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now().UTC(),
		CorrelationId: appCtx.GetRequestID(ctx),
		Body:          body,
	}, nil
}

func dial(url, exchange string) (*link, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	l := &link{conn: conn, ch: ch}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		l.close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		l.close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	l.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	return l, nil
}
