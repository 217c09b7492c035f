package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/spacenav/common"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type wireMessage struct {
	Type    string    `json:"type"`
	Axes    []float64 `json:"axes,omitempty"`
	Index   int       `json:"index,omitempty"`
	Pressed bool      `json:"pressed,omitempty"`
}

// ParseMessage decodes one JSON input message:
//
//	{"type":"motion","axes":[tx,ty,tz,rx,ry,rz]}
//	{"type":"button","index":n,"pressed":true}
//
// Parameters:
//   - payload: the raw message body
//
// Returns:
//   - Message: the decoded message
//   - error: on malformed JSON, wrong axis count or an unknown type
func ParseMessage(payload []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(payload, &w); err != nil {
		return Message{}, fmt.Errorf("failed to decode message: %w", err)
	}
	switch w.Type {
	case "motion":
		if len(w.Axes) != 6 {
			return Message{}, fmt.Errorf("motion message has %d axes, want 6", len(w.Axes))
		}
		axes := [6]float64(w.Axes)
		if err := validAxes(axes); err != nil {
			return Message{}, err
		}
		return Message{Kind: MessageMotion, Sample: common.AxisSampleFromAxes(axes)}, nil
	case "button":
		if err := validButton(w.Index); err != nil {
			return Message{}, err
		}
		return Message{Kind: MessageButton, Button: common.ButtonEvent{Index: w.Index, Pressed: w.Pressed}}, nil
	default:
		return Message{}, fmt.Errorf("unknown message type %q", w.Type)
	}
}

// EncodeMessage is the inverse of ParseMessage.
func EncodeMessage(m Message) ([]byte, error) {
	switch m.Kind {
	case MessageMotion:
		a := m.Sample.Axes()
		return json.Marshal(wireMessage{Type: "motion", Axes: a[:]})
	case MessageButton:
		return json.Marshal(wireMessage{Type: "button", Index: m.Button.Index, Pressed: m.Button.Pressed})
	default:
		return nil, fmt.Errorf("unknown message kind %d", m.Kind)
	}
}

type mqttFeed struct {
	broker   string
	topic    string
	clientID string
}

var _ Feed = &mqttFeed{}

// NewMQTTFeed creates a feed subscribed to a broker topic carrying JSON input messages.
//
// Parameters:
//   - broker: broker URL, e.g. tcp://localhost:1883
//   - topic: the topic to subscribe to
//   - clientID: MQTT client id
//
// Returns:
//   - Feed: the MQTT feed
func NewMQTTFeed(broker, topic, clientID string) Feed {
	return &mqttFeed{broker: broker, topic: topic, clientID: clientID}
}

func (f *mqttFeed) Name() string {
	return "mqtt:" + f.broker + "/" + f.topic
}

func (f *mqttFeed) Run(ctx context.Context, sink Sink) error {
	lost := make(chan error, 1)
	opts := mqtt.NewClientOptions().
		AddBroker(f.broker).
		SetClientID(f.clientID).
		SetAutoReconnect(false).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			select {
			case lost <- err:
			default:
			}
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to %s: %w", f.broker, token.Error())
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		m, err := ParseMessage(msg.Payload())
		if err != nil {
			log.Printf("feed %s: dropping message: %v", f.Name(), err)
			return
		}
		deliver(sink, m)
	}
	if token := client.Subscribe(f.topic, 0, handler); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", f.topic, token.Error())
	}
	notifyConnected(sink)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-lost:
		return fmt.Errorf("broker connection lost: %w", err)
	}
}
