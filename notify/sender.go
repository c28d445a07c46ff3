// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/IBM/sarama"

	"github.com/danielhkuo/feedbackform/models"
)

// Sender delivers one outbox event. A nil error marks it delivered.
type Sender interface {
	Send(ctx context.Context, event models.OutboxEvent) error
}

// WebhookTimeout bounds a single webhook call.
const WebhookTimeout = 10 * time.Second

// WebhookSender POSTs the event payload as JSON to the event target.
type WebhookSender struct {
	Client *http.Client
}

func NewWebhookSender() *WebhookSender {
	return &WebhookSender{Client: &http.Client{Timeout: WebhookTimeout}}
}

func (w *WebhookSender) Send(ctx context.Context, event models.OutboxEvent) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, event.Target, bytes.NewReader([]byte(event.Payload)))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// KafkaSender publishes the payload to the event target topic, keyed by
// form id so events of one form stay ordered.
type KafkaSender struct {
	producer sarama.SyncProducer
}

func NewKafkaSender(producer sarama.SyncProducer) *KafkaSender {
	return &KafkaSender{producer: producer}
}

// NewKafkaProducer connects a synchronous producer that waits for all
// in-sync replicas.
func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

func (k *KafkaSender) Send(_ context.Context, event models.OutboxEvent) error {
	msg := &sarama.ProducerMessage{
		Topic: event.Target,
		Key:   sarama.StringEncoder(event.FormID),
		Value: sarama.StringEncoder(event.Payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(event.ID)},
		},
	}
	if _, _, err := k.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("kafka publish failed: %w", err)
	}
	return nil
}
