package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"backend-workouttrack/internal/observability"
	"backend-workouttrack/internal/workout"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// sampleTopic is the subscription pattern; phones publish one JSON sample
// per message to workout/{sessionID}/samples.
const sampleTopic = "workout/+/samples"

type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// Feed forwards samples published over MQTT into the workout service, on the
// same path HTTP ingestion takes.
type Feed struct {
	client mqtt.Client
	svc    *workout.Service
}

func NewFeed(cfg Config, svc *workout.Service) (*Feed, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("mqtt connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	return &Feed{client: client, svc: svc}, nil
}

// Subscribe starts consuming the sample topic at QoS 1.
func (f *Feed) Subscribe() error {
	token := f.client.Subscribe(sampleTopic, 1, f.handleSample)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("subscribed to mqtt topic: %s", sampleTopic)
	return nil
}

func (f *Feed) handleSample(_ mqtt.Client, msg mqtt.Message) {
	sessionID := sessionIDFromTopic(msg.Topic())
	if sessionID == "" {
		log.Printf("mqtt sample on unexpected topic: %s", msg.Topic())
		return
	}

	var sample workout.Sample
	if err := json.Unmarshal(msg.Payload(), &sample); err != nil {
		log.Printf("mqtt sample decode error: %v", err)
		return
	}

	if _, err := f.svc.IngestSample(context.Background(), sessionID, sample); err != nil {
		if !errors.Is(err, workout.ErrNotLive) {
			log.Printf("mqtt sample ingest error: %v", err)
		}
		return
	}
	observability.RecordSampleIngested("mqtt")
}

func (f *Feed) Close() {
	f.client.Disconnect(250)
}

func sessionIDFromTopic(topic string) string {
	// workout/{session}/samples
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "workout" || parts[2] != "samples" {
		return ""
	}
	return parts[1]
}
