package publish

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	sent []message
	err  error
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, message{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return &fakeToken{err: c.err}
}

func TestPublishRetainedJSON(t *testing.T) {
	fc := &fakeClient{}
	p := newPublisher(fc, "dash")

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	req := weather.Request{Location: "Benin City, NG", Range: weather.Range24Hours}
	res := weather.Result{Aggregate: weather.Fallback(weather.Range24Hours, weather.DefaultLocation, now)}

	if err := p.Publish(req, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(fc.sent))
	}

	msg := fc.sent[0]
	if msg.topic != "dash/benin-city-ng/24h" {
		t.Fatalf("unexpected topic %q", msg.topic)
	}
	if !msg.retained || msg.qos != 1 {
		t.Fatalf("expected retained qos 1 message, got retained=%v qos=%d", msg.retained, msg.qos)
	}

	var got weather.Aggregate
	if err := json.Unmarshal(msg.payload, &got); err != nil {
		t.Fatalf("payload is not an aggregate: %v", err)
	}
	if got.Source != weather.SourceFallback || got.Current.Temperature != 28 {
		t.Fatalf("unexpected payload: source=%q temp=%d", got.Source, got.Current.Temperature)
	}
}

func TestPublishError(t *testing.T) {
	fc := &fakeClient{err: errors.New("broker gone")}
	p := newPublisher(fc, "")

	err := p.Publish(weather.Request{Location: "", Range: "bogus"}, weather.Result{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if fc.sent[0].topic != "weather/default/7d" {
		t.Fatalf("unexpected topic %q", fc.sent[0].topic)
	}
}

func TestDisabledPublisher(t *testing.T) {
	p, err := NewPublisher(PublisherConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Publish(weather.Request{Location: "x"}, weather.Result{}); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	p.Apply(weather.Request{Location: "x"}, weather.Result{})
	p.Close()
}

func TestNewPublisherUnreachableBroker(t *testing.T) {
	_, err := NewPublisher(PublisherConfig{Enabled: true, Broker: "tcp://127.0.0.1:1", ClientID: "test"})
	if err == nil {
		t.Fatal("expected an error for an unreachable broker")
	}
}
