package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
)

const (
	defaultMaxBatchSize = 100
	maxEventNameLen     = 128
	maxPropsPerEvent    = 32
)

var ErrValidation = errors.New("validation error")

type Store interface {
	InsertBatch(ctx context.Context, userID *int64, events []pgrepo.EventWriteRecord) error
}

type Config struct {
	MaxBatchSize int
}

type Service struct {
	store  Store
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

type BatchEvent struct {
	Name  string
	TS    int64
	Props map[string]any
}

func NewService(store Store, logger *zap.Logger, cfg Config) *Service {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = defaultMaxBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// IngestBatch accepts client-reported events. Oversized events are dropped
// individually rather than failing the whole batch: telemetry loss is
// preferable to a client retry loop.
func (s *Service) IngestBatch(ctx context.Context, userID *int64, events []BatchEvent) (int, error) {
	if s.store == nil {
		return 0, fmt.Errorf("telemetry store is nil")
	}
	if len(events) == 0 || len(events) > s.cfg.MaxBatchSize {
		return 0, ErrValidation
	}

	now := s.now().UTC()
	rows := make([]pgrepo.EventWriteRecord, 0, len(events))
	for _, event := range events {
		name := strings.ToLower(strings.TrimSpace(event.Name))
		if name == "" || len(name) > maxEventNameLen {
			s.logger.Debug("telemetry event dropped", zap.String("reason", "bad name"))
			continue
		}
		if len(event.Props) > maxPropsPerEvent {
			s.logger.Debug("telemetry event dropped",
				zap.String("event", name),
				zap.String("reason", "too many props"),
			)
			continue
		}

		rows = append(rows, pgrepo.EventWriteRecord{
			Name:       name,
			OccurredAt: parseTS(event.TS, now),
			Props:      cloneProps(event.Props),
		})
	}

	if len(rows) == 0 {
		return 0, ErrValidation
	}

	if err := s.store.InsertBatch(ctx, userID, rows); err != nil {
		return 0, fmt.Errorf("insert events batch: %w", err)
	}

	return len(rows), nil
}

func parseTS(ts int64, fallback time.Time) time.Time {
	if ts <= 0 {
		return fallback
	}
	if ts >= 1_000_000_000_000 {
		return time.UnixMilli(ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}

func cloneProps(props map[string]any) map[string]any {
	if len(props) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(props))
	for key, value := range props {
		out[key] = value
	}
	return out
}
