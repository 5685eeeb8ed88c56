package report

import (
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// Job is one report to deliver.
type Job struct {
	UserID    int64
	Frequency domain.Frequency
}
