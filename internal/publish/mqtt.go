package publish

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const connectTimeout = 10 * time.Second

// client is the part of mqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher pushes refreshed aggregates to an MQTT broker as retained JSON.
type Publisher struct {
	client      client
	topicPrefix string
	timeout     time.Duration
	enabled     bool
}

type PublisherConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	Enabled     bool
}

// NewPublisher connects to the broker. A disabled config yields a no-op publisher.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return &Publisher{enabled: false}, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			log.Printf("MQTT connection lost: %v", err)
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.Println("MQTT connected")
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	return newPublisher(c, cfg.TopicPrefix), nil
}

func newPublisher(c client, prefix string) *Publisher {
	if prefix == "" {
		prefix = "weather"
	}
	return &Publisher{
		client:      c,
		topicPrefix: prefix,
		timeout:     10 * time.Second,
		enabled:     true,
	}
}

// Topic returns "<prefix>/<location-slug>/<range>".
func (p *Publisher) Topic(req weather.Request) string {
	slug := common.Slug(req.Location)
	if slug == "" {
		slug = "default"
	}
	return fmt.Sprintf("%s/%s/%s", p.topicPrefix, slug, req.Range.Normalize())
}

// Publish sends the aggregate of res, retained, to the view's topic.
func (p *Publisher) Publish(req weather.Request, res weather.Result) error {
	if !p.enabled {
		return nil
	}

	payload, err := json.Marshal(res.Aggregate)
	if err != nil {
		return fmt.Errorf("failed to marshal aggregate: %w", err)
	}

	topic := p.Topic(req)
	token := p.client.Publish(topic, 1, true, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, token.Error())
	}
	return nil
}

// Apply lets the publisher act as a scheduler sink. Failures are logged.
func (p *Publisher) Apply(req weather.Request, res weather.Result) {
	if err := p.Publish(req, res); err != nil {
		log.Printf("ERROR: %v", err)
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if !p.enabled {
		return
	}
	if c, ok := p.client.(mqtt.Client); ok {
		c.Disconnect(250)
	}
}
