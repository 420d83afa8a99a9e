package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/pkg/config"
	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
	"github.com/ovenmade/ovenmade-backend/pkg/outbox"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	fetchErr  error
}

func (f *fakeRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	events := f.events
	f.events = nil
	return events, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, cause error) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakePublisher struct {
	results []publishResult
	topics  []string
}

func (f *fakePublisher) Publish(_ context.Context, _ *gcppubsub.Message) publishResult {
	if len(f.results) == 0 {
		return fakePublishResult{}
	}
	result := f.results[0]
	f.results = f.results[1:]
	return result
}

type fakePublishResult struct {
	err error
}

func (f fakePublishResult) Get(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "server-id", nil
}

type fakePinger struct{}

func (fakePinger) Ping(context.Context) error {
	return nil
}

func (fakePinger) Publisher(string) *gcppubsub.Publisher {
	return nil
}

func mustEnvelopePayload(t *testing.T, eventID string) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: time.Now().UTC(),
		Data:       json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return payload
}

func newTestService(t *testing.T, repo *fakeRepo, pub *fakePublisher) *Service {
	t.Helper()
	cfg := &config.Config{
		PubSub: config.PubSubConfig{
			QuoteTopic:        "quote-topic",
			PaymentTopic:      "payment-topic",
			OrderTopic:        "order-topic",
			NotificationTopic: "notification-topic",
		},
	}
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher-test", Output: io.Discard})
	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         fakePinger{},
		PubSub:     fakePinger{},
		Repository: repo,
		PublisherFactory: func(topic string) publisher {
			pub.topics = append(pub.topics, topic)
			return pub
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func TestProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			{
				ID:            uuid.New(),
				EventType:     enums.EventQuoteSent,
				AggregateType: enums.AggregateQuote,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "event-one"),
			},
			{
				ID:            uuid.New(),
				EventType:     enums.EventQuoteSent,
				AggregateType: enums.AggregateQuote,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "event-two"),
			},
		},
	}
	pub := &fakePublisher{
		results: []publishResult{
			fakePublishResult{err: errors.New("transient")},
			fakePublishResult{},
		},
	}
	firstID := repo.events[0].ID
	secondID := repo.events[1].ID
	service := newTestService(t, repo, pub)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if got := len(repo.failed); got != 1 {
		t.Fatalf("unexpected number of failed rows: %d", got)
	}
	if got := len(repo.published); got != 1 {
		t.Fatalf("unexpected number of published rows: %d", got)
	}
	if repo.failed[0] != firstID {
		t.Fatalf("failed row recorded wrong ID")
	}
	if repo.published[0] != secondID {
		t.Fatalf("published row recorded wrong ID")
	}
}

func TestProcessBatchRoutesByAggregateType(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			{
				ID:            uuid.New(),
				EventType:     enums.EventPaymentRecorded,
				AggregateType: enums.AggregatePayment,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "payment"),
			},
			{
				ID:            uuid.New(),
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "order"),
			},
			{
				ID:            uuid.New(),
				EventType:     enums.EventLeadCaptured,
				AggregateType: enums.AggregateLead,
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "lead"),
			},
		},
	}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	want := []string{"payment-topic", "order-topic", "notification-topic"}
	if len(pub.topics) != len(want) {
		t.Fatalf("unexpected topic count: %v", pub.topics)
	}
	for i, topic := range want {
		if pub.topics[i] != topic {
			t.Fatalf("topic %d: want %q got %q", i, topic, pub.topics[i])
		}
	}
	if len(repo.published) != 3 {
		t.Fatalf("expected all rows published, got %d", len(repo.published))
	}
}

func TestProcessBatchMarksUnroutableEventsFailed(t *testing.T) {
	repo := &fakeRepo{
		events: []models.OutboxEvent{
			{
				ID:            uuid.New(),
				EventType:     enums.EventQuoteSent,
				AggregateType: enums.OutboxAggregateType("mystery"),
				AggregateID:   uuid.New(),
				Payload:       mustEnvelopePayload(t, "mystery"),
			},
		},
	}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if !processed {
		t.Fatalf("expected batch to report processed")
	}
	if len(repo.failed) != 1 {
		t.Fatalf("expected row marked failed, got %d", len(repo.failed))
	}
	if len(pub.topics) != 0 {
		t.Fatalf("expected no publish attempts, got %v", pub.topics)
	}
}

func TestProcessBatchReportsIdleWhenEmpty(t *testing.T) {
	repo := &fakeRepo{}
	service := newTestService(t, repo, &fakePublisher{})

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch returned error: %v", err)
	}
	if processed {
		t.Fatalf("expected idle batch")
	}
}

func TestNextBackoffCapsAtMax(t *testing.T) {
	base := 500 * time.Millisecond
	current := base
	for i := 0; i < 10; i++ {
		current = nextBackoff(current, base, maxBackoff)
	}
	if current != maxBackoff {
		t.Fatalf("expected backoff capped at %s, got %s", maxBackoff, current)
	}
}
