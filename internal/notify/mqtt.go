package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/mifops/gmao-core/internal/models"
	log "github.com/sirupsen/logrus"
)

// MQTTSink publishes lifecycle events to an MQTT broker at QoS 0.
// Publish failures are logged and dropped.
type MQTTSink struct {
	client mqtt.Client
}

// NewMQTTSink connects to the broker named by the MQTT_BROKER
// environment variable (e.g. "tcp://mosquitto:1883").
func NewMQTTSink() (*MQTTSink, error) {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}

	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" {
		clientID = "gmao-core"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timeout: %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}

	return &MQTTSink{client: client}, nil
}

// PublishTransition publishes a work-order transition event.
func (s *MQTTSink) PublishTransition(event models.TransitionEvent) {
	topic := fmt.Sprintf("gmao/workorders/%s/transitions", event.WorkOrderID)
	s.publish(topic, event)
}

// PublishPlanEvent publishes a maintenance-plan lifecycle event.
func (s *MQTTSink) PublishPlanEvent(event models.PlanEvent) {
	topic := fmt.Sprintf("gmao/plans/%s/events", event.PlanID)
	s.publish(topic, event)
}

func (s *MQTTSink) publish(topic string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("topic", topic).Warn("failed to encode event")
		return
	}

	// QoS 0, no wait: the transition must not block on delivery.
	token := s.client.Publish(topic, 0, false, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.WithError(err).WithField("topic", topic).Warn("failed to publish event")
		}
	}()
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
