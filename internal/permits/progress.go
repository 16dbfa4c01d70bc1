package permits

import (
	"math"

	"github.com/permitdesk/permitdesk/pkg/models"
)

// Progress holds the completion counters derived from a package's
// checklist. It is recomputed on every read and never stored.
type Progress struct {
	CompletedDocuments int `json:"completed_documents"`
	TotalDocuments     int `json:"total_documents"`
	ProgressPercentage int `json:"progress_percentage"`
}

// CalculateProgress derives completion counts and the rounded percentage
// from a package's documents. An empty checklist yields 0%.
func CalculateProgress(docs []models.PackageDocument) Progress {
	total := len(docs)
	completed := 0
	for _, d := range docs {
		if d.IsCompleted {
			completed++
		}
	}

	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return Progress{
		CompletedDocuments: completed,
		TotalDocuments:     total,
		ProgressPercentage: pct,
	}
}
