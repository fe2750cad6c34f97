package alerts

import (
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"

	"github.com/brdiniz/blower-maintenance/internal/models"
)

type capturedPublish struct {
	topic   string
	qos     byte
	payload []byte
}

func capturingPublish(captured *capturedPublish) publishFn {
	return func(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
		captured.topic = topic
		captured.qos = qos
		captured.payload = payload.([]byte)
		token := &mqtt.DummyToken{}
		return token
	}
}

func TestPublishEquipmentAlert(t *testing.T) {
	var captured capturedPublish
	p := &MQTTPublisher{publish: capturingPublish(&captured), topic: "maintenance/alerts"}

	days := -3
	due := time.Date(2026, 3, 7, 0, 0, 0, 0, time.Local)
	alert := models.Alert{
		EquipmentTag:  "SPD-131",
		Area:          "Caldeira Norte",
		Status:        models.StatusOverdue,
		NextDue:       &due,
		DaysRemaining: &days,
		Timestamp:     time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local),
	}

	err := p.PublishEquipmentAlert(alert)
	assert.NoError(t, err)
	assert.Equal(t, "maintenance/alerts", captured.topic)
	assert.Equal(t, byte(1), captured.qos)

	var decoded models.Alert
	assert.NoError(t, json.Unmarshal(captured.payload, &decoded))
	assert.Equal(t, "SPD-131", decoded.EquipmentTag)
	assert.Equal(t, models.StatusOverdue, decoded.Status)
	assert.Equal(t, -3, *decoded.DaysRemaining)
}

func TestAlertFor(t *testing.T) {
	days := 2
	due := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	unit := models.Equipment{
		Tag:           "SPD-140",
		Area:          "Caldeira Sul",
		OverallStatus: models.StatusCritical,
		NextDue:       &due,
		DaysRemaining: &days,
	}

	alert := AlertFor(unit, now)
	assert.Equal(t, "SPD-140", alert.EquipmentTag)
	assert.Equal(t, models.StatusCritical, alert.Status)
	assert.Equal(t, due, *alert.NextDue)
	assert.Equal(t, now, alert.Timestamp)
}
