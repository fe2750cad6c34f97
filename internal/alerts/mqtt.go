// Package alerts publishes urgency alerts for equipment units over MQTT so
// plant dashboards and notification bridges can react without polling.
package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/brdiniz/blower-maintenance/internal/models"
)

// Publisher sends equipment alerts to an MQTT topic.
type Publisher interface {
	PublishEquipmentAlert(alert models.Alert) error
}

// publishFn matches the subset of mqtt.Client the publisher uses.
type publishFn func(topic string, qos byte, retained bool, payload interface{}) mqtt.Token

// MQTTPublisher implements Publisher on a paho MQTT client.
type MQTTPublisher struct {
	publish publishFn
	topic   string
}

// NewMQTTPublisher connects to the broker and returns a ready publisher.
func NewMQTTPublisher(brokerURL, clientID, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timed out for %s", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect failed: %w", err)
	}
	log.WithFields(log.Fields{"broker": brokerURL, "topic": topic}).Info("connected to MQTT broker")
	return &MQTTPublisher{publish: client.Publish, topic: topic}, nil
}

// PublishEquipmentAlert sends one alert as a JSON payload.
func (p *MQTTPublisher) PublishEquipmentAlert(alert models.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}
	token := p.publish(p.topic, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt publish timed out for %s", alert.EquipmentTag)
	}
	return token.Error()
}

// AlertFor builds the alert payload for a unit in an urgent tier.
func AlertFor(unit models.Equipment, now time.Time) models.Alert {
	return models.Alert{
		EquipmentTag:  unit.Tag,
		Area:          unit.Area,
		Status:        unit.OverallStatus,
		NextDue:       unit.NextDue,
		DaysRemaining: unit.DaysRemaining,
		Timestamp:     now,
	}
}
