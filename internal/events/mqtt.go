package events

import (
	"context"
	"fmt"
	"time"

	"bedflow/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTPublisher relays events to the topic "<topic>/<event topic>"
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// DialMQTT connects to an MQTT broker
func DialMQTT(cfg config.MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTPublisher{client: client, topic: cfg.Topic, qos: cfg.QoS}, nil
}

func (p *MQTTPublisher) Topic(topic string) string {
	return p.topic + "/" + topic
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	wait := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		wait = time.Until(deadline)
	}

	token := p.client.Publish(p.Topic(topic), p.qos, false, payload)
	if !token.WaitTimeout(wait) {
		return fmt.Errorf("timed out publishing to topic %s", p.Topic(topic))
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", p.Topic(topic), token.Error())
	}
	return nil
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
