package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

type repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	// Overlapping runs share the file; wait for the writer instead of failing.
	dsn := cfg.DBPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}
	db.SetMaxOpenConns(1)

	if err := ValidateAndUpdateSchema(db, cfg.DBPath, log); err != nil {
		db.Close()
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "schema_version",
			Error: err.Error(),
		})
	}

	log.Debug().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("History repository initialized")

	return &repository{
		db:     db,
		logger: log,
	}, nil
}

func (r *repository) Insert(ctx context.Context, rec *Record) error {
	var temperature any
	if rec.TemperatureValid {
		temperature = rec.Temperature
	}

	_, err := r.db.ExecContext(ctx, insertRunSQL,
		rec.RunID,
		rec.Timestamp.Unix(),
		temperature,
		int64(rec.Threshold),
		int64(rec.Variance),
		int64(rec.Previous),
		int64(rec.Next),
		rec.Action,
		int64(boolToInt(rec.FailOpen)),
		rec.Error,
	)
	if err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Record, error) {
	errFactory := errors.New()

	rows, err := r.db.QueryContext(ctx, recentRunsSQL, limit)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec         Record
			ts          int64
			temperature sql.NullFloat64
			failOpen    int
		)
		if err := rows.Scan(
			&rec.RunID, &ts, &temperature,
			&rec.Threshold, &rec.Variance,
			&rec.Previous, &rec.Next, &rec.Action,
			&failOpen, &rec.Error,
		); err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}

		rec.Timestamp = time.Unix(ts, 0)
		rec.Temperature = temperature.Float64
		rec.TemperatureValid = temperature.Valid
		rec.FailOpen = failOpen == 1
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	return records, nil
}

func (r *repository) Close() error {
	errFactory := errors.New()

	// Checkpoint WAL so the database is a single file between runs
	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		r.logger.Debug().Err(err).Msg("Failed to checkpoint history WAL")
	}

	if err := r.db.Close(); err != nil {
		return errFactory.WithData(ErrStorageClose, struct {
			Phase string
			Error string
		}{
			Phase: "close_database",
			Error: err.Error(),
		})
	}

	return nil
}
