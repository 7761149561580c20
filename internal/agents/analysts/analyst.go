package analysts

import (
	"context"
	"time"
)

// Analyst produces one structured report from one data domain. Analysts are
// mutually independent: the orchestrator runs them concurrently and each
// writes only its own report.
type Analyst interface {
	Name() string
	Analyze(ctx context.Context, subject string, asOf time.Time) (string, error)
}
