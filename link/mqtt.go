package link

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttConnectTimeout = 5 * time.Second
	mqttPublishQoS     = 0
	controlDepth       = 16
)

// MQTTTransport maps characteristics onto MQTT topics under a device
// prefix: notifies publish to <prefix>/<characteristic>, control writes
// arrive on <prefix>/<characteristic>/set.
type MQTTTransport struct {
	client  mqtt.Client
	prefix  string
	control chan ControlMsg
}

type MQTTConfig struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Prefix   string // topic prefix, e.g. glass/dev1
	Username string
	Password string
}

func NewMQTT(cfg MQTTConfig) (*MQTTTransport, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttConnectTimeout)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	t := &MQTTTransport{
		prefix:  cfg.Prefix,
		control: make(chan ControlMsg, controlDepth),
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.WaitTimeout(mqttConnectTimeout) && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	t.client = client

	for _, ch := range []Characteristic{PhotoControl, AudioControl} {
		ch := ch
		topic := t.topic(ch) + "/set"
		token := client.Subscribe(topic, mqttPublishQoS, func(_ mqtt.Client, msg mqtt.Message) {
			select {
			case t.control <- ControlMsg{Ch: ch, Payload: msg.Payload()}:
			default:
				// control queue full, drop the write
			}
		})
		if token.WaitTimeout(mqttConnectTimeout) && token.Error() != nil {
			client.Disconnect(0)
			return nil, fmt.Errorf("mqtt subscribe %s: %w", topic, token.Error())
		}
	}

	return t, nil
}

func (t *MQTTTransport) topic(ch Characteristic) string {
	return t.prefix + "/" + ch.String()
}

func (t *MQTTTransport) Send(ch Characteristic, payload []byte) error {
	token := t.client.Publish(t.topic(ch), mqttPublishQoS, false, payload)
	// Fire and forget at QoS 0; errors surface on the token without
	// blocking the control loop.
	if token.Error() != nil {
		return fmt.Errorf("mqtt publish %s: %w", ch, token.Error())
	}
	return nil
}

func (t *MQTTTransport) Connected() bool {
	return t.client.IsConnectionOpen()
}

func (t *MQTTTransport) Control() <-chan ControlMsg {
	return t.control
}

func (t *MQTTTransport) Close() {
	t.client.Disconnect(250)
}
