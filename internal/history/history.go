// Package history keeps an optional SQLite journal of controller runs.
package history

import (
	"context"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/logger"
)

type service struct {
	repo Repository
}

// No-op implementation
type noopRecorder struct{}

func NewService(cfg Config, log logger.Logger) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("Run history disabled, using no-op recorder")
		return &noopRecorder{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &service{repo: repo}, nil
}

// Noop returns a Recorder that discards records.
func Noop() Recorder {
	return &noopRecorder{}
}

func (s *service) Record(ctx context.Context, rec *Record) error {
	errFactory := errors.New()

	if rec == nil || rec.RunID == "" {
		return errFactory.New(ErrInvalidRecord)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationCancel, ctx.Err())
	default:
	}

	return s.repo.Insert(ctx, rec)
}

func (s *service) Close() error {
	return s.repo.Close()
}

func (*noopRecorder) Record(_ context.Context, _ *Record) error {
	return nil
}

func (*noopRecorder) Close() error {
	return nil
}
