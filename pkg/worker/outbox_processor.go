package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clinicnexus/clinic-api/internal/email"
	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
	"github.com/clinicnexus/clinic-api/pkg/logger"
	"github.com/clinicnexus/clinic-api/pkg/messaging"
	"github.com/clinicnexus/clinic-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetentionDays int
}

// OutboxProcessor relays committed outbox events to the broker, sends
// the email notifications tied to them, and prunes old completed rows.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	mailer  email.Sender
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	mailer email.Sender,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		mailer:  mailer,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	pruneTicker := time.NewTicker(time.Hour)
	defer pruneTicker.Stop()

	p.logger.Info("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "failed to process events")
			}
		case <-pruneTicker.C:
			p.prune(ctx)
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "error").Inc()
		return fmt.Errorf("failed to get pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "success").Inc()

	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error(err, "failed to process event",
				"event_id", event.ID.String(),
				"event_type", event.EventType)
			continue
		}
	}
	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	var err error
	for attempt := 0; attempt < p.config.RetryAttempts; attempt++ {
		if err = p.broker.Publish(ctx, event.EventType, event.Payload); err == nil {
			break
		}
	}
	if err != nil {
		p.metrics.OutboxEventsFailed.Inc()
		msg := err.Error()
		if updateErr := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusFailed, &msg); updateErr != nil {
			return updateErr
		}
		return err
	}

	p.sendEmail(event)

	p.metrics.OutboxEventsProcessed.Inc()
	p.metrics.OutboxQueueLatency.Observe(time.Since(event.CreatedAt).Seconds())
	return p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusCompleted, nil)
}

// sendEmail delivers the patient-facing confirmation for scheduling
// events. Email failure does not fail the event: the broker publish is
// the contract, mail is best effort.
func (p *OutboxProcessor) sendEmail(event *model.OutboxEvent) {
	if event.EventType != model.EventTypeAppointmentScheduled {
		return
	}

	var payload struct {
		PatientEmail string `json:"patient_email"`
		DoctorName   string `json:"doctor_name"`
		Date         string `json:"date"`
		Time         string `json:"time"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil || payload.PatientEmail == "" {
		return
	}

	body := fmt.Sprintf("Your appointment with %s is confirmed for %s at %s.",
		payload.DoctorName, payload.Date, payload.Time)
	if err := p.mailer.Send(payload.PatientEmail, "Appointment confirmation", body); err != nil {
		p.logger.Error(err, "failed to send confirmation email", "event_id", event.ID.String())
	}
}

func (p *OutboxProcessor) prune(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.repo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error(err, "failed to prune outbox")
		return
	}
	if deleted > 0 {
		p.logger.Info("pruned outbox", "deleted", deleted)
	}
}
