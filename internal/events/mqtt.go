package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trusthire/internal/config"
	"trusthire/internal/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const (
	publishQoS       = 1
	publishTimeout   = 5 * time.Second
	disconnectQuiesc = 250
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// MQTTPublisher writes events as JSON to <prefix>/<event type>.
type MQTTPublisher struct {
	client mqtt.Client
	prefix string
}

func NewMQTTPublisher(cfg *config.MQTTConfig) *MQTTPublisher {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Minute)

	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info("MQTT client connected", zap.String("broker", cfg.Broker))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	})
	opts.SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
		logger.Info("Reconnecting to MQTT broker")
	})

	return &MQTTPublisher{
		client: mqtt.NewClient(opts),
		prefix: cfg.TopicPrefix,
	}
}

func (p *MQTTPublisher) Connect(timeout time.Duration) error {
	token := p.client.Connect()
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("failed to connect to MQTT broker: timed out after %s", timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}
	return nil
}

func (p *MQTTPublisher) Topic(t Type) string {
	return p.prefix + "/" + string(t)
}

func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	token := p.client.Publish(p.Topic(event.Type), publishQoS, false, payload)
	if !token.WaitTimeout(timeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}

func (p *MQTTPublisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(disconnectQuiesc)
		logger.Info("Disconnected from MQTT broker")
	}
}
