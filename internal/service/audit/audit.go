package audit

import (
	"context"

	"github.com/rs/zerolog"
)

// Recorder captures workflow activity for the operational trail.
type Recorder interface {
	Record(ctx context.Context, action, entity string, entityID int64, detail string)
}

type Service struct {
	logger zerolog.Logger
}

func NewService(logger zerolog.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) Record(ctx context.Context, action, entity string, entityID int64, detail string) {
	s.logger.Info().
		Str("action", action).
		Str("entity", entity).
		Int64("entity_id", entityID).
		Str("detail", detail).
		Msg("activity")
}
