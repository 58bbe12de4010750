package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/bazaarhq/bazaar-backend/pkg/logger"
)

const defaultOrderRetention = 90 * 24 * time.Hour

// OrderPurgeJobParams configure the deleted-order purge job.
type OrderPurgeJobParams struct {
	Logger    *logger.Logger
	Purger    orderPurger
	Retention time.Duration
}

type orderPurger interface {
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewOrderPurgeJob permanently removes orders soft-deleted before the retention window.
func NewOrderPurgeJob(params OrderPurgeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Purger == nil {
		return nil, fmt.Errorf("order purger required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultOrderRetention
	}
	return &orderPurgeJob{
		logg:      params.Logger,
		purger:    params.Purger,
		retention: retention,
		now:       time.Now,
	}, nil
}

type orderPurgeJob struct {
	logg      *logger.Logger
	purger    orderPurger
	retention time.Duration
	now       func() time.Time
}

func (j *orderPurgeJob) Name() string { return "order-purge" }

func (j *orderPurgeJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	purged, err := j.purger.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("order purge: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":      cutoff,
		"retention":   j.retention.String(),
		"rows_purged": purged,
	})
	j.logg.Info(logCtx, "order purge complete")
	return nil
}
