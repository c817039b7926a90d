package job

import (
	"context"

	"github.com/lexkit/lexdoc/internal/service"
)

// SummaryJob keeps stored summaries in sync with document edits.
type SummaryJob struct {
	documents    *service.DocumentService
	delaySeconds int64
}

func NewSummaryJob(documents *service.DocumentService, delaySeconds int64) *SummaryJob {
	return &SummaryJob{documents: documents, delaySeconds: delaySeconds}
}

func (j *SummaryJob) Name() string {
	return "summary_refresh"
}

func (j *SummaryJob) Run(ctx context.Context) error {
	if j.documents == nil {
		return nil
	}
	return j.documents.ProcessPendingSummaries(ctx, j.delaySeconds)
}
