package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"educenter/internal/logger"
)

// NewSweeper schedules MarkOverdue on a cron spec (standard five fields).
// The caller owns Start and Stop.
func NewSweeper(svc *Service, spec string, timeout time.Duration) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(svc.loc))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ctx = logger.ContextWithRequestID(ctx, "sweep-"+logger.NewRequestID())

		if _, err := svc.MarkOverdue(ctx); err != nil {
			logger.WithContext(ctx).Error("overdue sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid overdue sweep schedule %q: %w", spec, err)
	}
	return c, nil
}
