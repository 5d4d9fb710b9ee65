package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clinicnexus/clinic-api/internal/model"
	"github.com/clinicnexus/clinic-api/internal/repository"
)

// Notifier queues notifications inside the caller's transaction. Delivery
// happens asynchronously after commit, so a rolled-back workflow never
// announces anything.
type Notifier interface {
	NotifyTx(ctx context.Context, tx *sqlx.Tx, eventType string, payload interface{}) error
}

type Service struct {
	outbox repository.OutboxRepository
}

func NewService(outbox repository.OutboxRepository) *Service {
	return &Service{outbox: outbox}
}

func (s *Service) NotifyTx(ctx context.Context, tx *sqlx.Tx, eventType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}
	return s.outbox.CreateTx(ctx, tx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   raw,
	})
}
