package permits

import (
	"fmt"

	"github.com/permitdesk/permitdesk/pkg/models"
)

// ValidStatus reports whether s is one of the known workflow statuses.
func ValidStatus(s string) bool {
	switch s {
	case models.StatusDraft, models.StatusInProgress, models.StatusReadyToSubmit, models.StatusSubmitted:
		return true
	}
	return false
}

// CanTransition reports whether a package currently in status current may
// be moved to target, given its completion counters. The caller picks the
// target; nothing transitions automatically. When the move is rejected the
// returned reason explains why, so the UI can mirror it.
func CanTransition(current, target string, completed, total int) (bool, string) {
	switch target {
	case models.StatusDraft, models.StatusInProgress:
		if current == models.StatusSubmitted {
			return false, "submitted packages cannot be reopened"
		}
		return true, ""
	case models.StatusReadyToSubmit:
		if current == models.StatusSubmitted {
			return false, "submitted packages cannot be reopened"
		}
		if total == 0 {
			return false, "package has no documents"
		}
		if completed != total {
			return false, fmt.Sprintf("documents incomplete: %d of %d completed", completed, total)
		}
		return true, ""
	case models.StatusSubmitted:
		if current != models.StatusReadyToSubmit {
			return false, "package must be ready_to_submit before submission"
		}
		return true, ""
	}
	return false, fmt.Sprintf("unknown status %q", target)
}

// SuggestedNext returns the advisory next status for the UI, or "" when
// there is nothing to suggest. It is a hint only; legality is always
// decided by CanTransition.
func SuggestedNext(current string, completed, total int) string {
	switch current {
	case models.StatusDraft:
		return models.StatusInProgress
	case models.StatusInProgress:
		if total > 0 && completed == total {
			return models.StatusReadyToSubmit
		}
	case models.StatusReadyToSubmit:
		return models.StatusSubmitted
	}
	return ""
}
