package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository/repositorytest"
	"github.com/clinicnexus/clinic-api/pkg/logger"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
)

var testMetrics = metrics.New("worker_test")

type fakeBroker struct {
	published map[string][]interface{}
	err       error
	calls     int
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	b.calls++
	if b.err != nil {
		return b.err
	}
	if b.published == nil {
		b.published = map[string][]interface{}{}
	}
	b.published[channel] = append(b.published[channel], message)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, to)
	return nil
}

func testProcessor(store *repositorytest.Store, broker *fakeBroker, mailer *fakeMailer) *OutboxProcessor {
	quiet := logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	return NewOutboxProcessor(&repositorytest.OutboxRepo{Store: store}, broker, mailer, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 3,
		RetentionDays: 7,
	}, quiet, testMetrics)
}

func seedEvent(store *repositorytest.Store, eventType string, payload []byte) {
	repo := &repositorytest.OutboxRepo{Store: store}
	_ = repo.CreateTx(context.Background(), nil, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	})
}

func TestProcessEventsPublishesAndCompletes(t *testing.T) {
	store := repositorytest.NewStore()
	broker := &fakeBroker{}
	mailer := &fakeMailer{}
	p := testProcessor(store, broker, mailer)

	payload := []byte(`{"patient_email":"jordan@example.com","doctor_name":"Dr. Patel","date":"2026-09-14","time":"09:30"}`)
	seedEvent(store, model.EventTypeAppointmentScheduled, payload)
	seedEvent(store, model.EventTypeReorderPlaced, []byte(`{"inventory_id":3}`))

	require.NoError(t, p.processEvents(context.Background()))

	assert.Len(t, broker.published[model.EventTypeAppointmentScheduled], 1)
	assert.Len(t, broker.published[model.EventTypeReorderPlaced], 1)
	for _, e := range store.Events {
		assert.Equal(t, model.OutboxStatusCompleted, e.Status)
	}

	// Only scheduling events produce mail.
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "jordan@example.com", mailer.sent[0])
}

func TestProcessEventsMarksFailedAfterRetries(t *testing.T) {
	store := repositorytest.NewStore()
	broker := &fakeBroker{err: errors.New("broker down")}
	mailer := &fakeMailer{}
	p := testProcessor(store, broker, mailer)

	seedEvent(store, model.EventTypeAppointmentCompleted, []byte(`{}`))

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, 3, broker.calls)
	require.Len(t, store.Events, 1)
	assert.Equal(t, model.OutboxStatusFailed, store.Events[0].Status)
	require.NotNil(t, store.Events[0].ErrorMessage)
	assert.Empty(t, mailer.sent)
}

func TestPruneDeletesOldCompletedEvents(t *testing.T) {
	store := repositorytest.NewStore()
	p := testProcessor(store, &fakeBroker{}, &fakeMailer{})

	seedEvent(store, model.EventTypeReorderPlaced, []byte(`{}`))
	store.Events[0].Status = model.OutboxStatusCompleted
	store.Events[0].CreatedAt = time.Now().AddDate(0, 0, -30)
	seedEvent(store, model.EventTypeReorderPlaced, []byte(`{}`))

	p.prune(context.Background())

	require.Len(t, store.Events, 1)
	assert.Equal(t, model.OutboxStatusPending, store.Events[0].Status)
}

func TestNewOutboxProcessorValidatesConfig(t *testing.T) {
	assert.Panics(t, func() {
		NewOutboxProcessor(nil, nil, nil, OutboxProcessorConfig{}, nil, nil)
	})
}
