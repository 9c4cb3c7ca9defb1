// Package events publishes loan lifecycle events to kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/circuit_breaker"
)

var published = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "library_loan_events_published_total",
		Help: "Loan events sent to kafka, by type and result.",
	},
	[]string{"type", "result"},
)

type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

// NewPublisher returns a publisher for topic. A nil producer yields a
// publisher that drops every event.
func NewPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(100, time.Second, 0.2, 2),
		log:      log.Named("events"),
	}
}

func (p *Publisher) Publish(_ context.Context, event model.LoanEvent) error {
	if p == nil || p.producer == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal loan event")
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Asset.String()),
		Value: sarama.ByteEncoder(data),
	}
	err = p.cb.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	})
	if err != nil {
		published.WithLabelValues(string(event.Type), "error").Inc()
		return errors.Wrapf(err, "publish %s (cb %s)", event.Type, p.cb.State())
	}
	published.WithLabelValues(string(event.Type), "ok").Inc()
	p.log.Debug("loan event published",
		zap.String("type", string(event.Type)),
		zap.Stringer("loan", event.LoanID))
	return nil
}

func (p *Publisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
