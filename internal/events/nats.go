package events

import (
	"context"
	"fmt"
	"time"

	"bedflow/internal/config"

	"github.com/nats-io/nats.go"
)

// NATSPublisher relays events to the subject "<subject>.<topic>"
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// DialNATS connects to a NATS server with unlimited reconnects
func DialNATS(cfg config.NATSConfig) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.Timeout(5 * time.Second),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn, subject: cfg.Subject}, nil
}

func (p *NATSPublisher) Subject(topic string) string {
	return p.subject + "." + topic
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.conn.Publish(p.Subject(topic), payload)
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Flush(); err != nil {
		p.conn.Close()
		return err
	}
	p.conn.Close()
	return nil
}
