package projects

import (
	"fmt"
	"strings"
)

// Status is a lifecycle phase of a project. The set is closed: anything
// outside it is rejected at parse time, before any mutation happens.
type Status string

const (
	StatusBrainstorming Status = "BRAINSTORMING"
	StatusVisionReview  Status = "VISION_REVIEW"
	StatusRoadmapReview Status = "ROADMAP_REVIEW"
	StatusInDevelopment Status = "IN_DEVELOPMENT"
	StatusTesting       Status = "TESTING"
	StatusCompleted     Status = "COMPLETED"
	StatusOnHold        Status = "ON_HOLD"
)

// AllStatuses lists every lifecycle phase, in rough workflow order.
func AllStatuses() []Status {
	return []Status{
		StatusBrainstorming,
		StatusVisionReview,
		StatusRoadmapReview,
		StatusInDevelopment,
		StatusTesting,
		StatusCompleted,
		StatusOnHold,
	}
}

// InvalidStatusError reports a status name outside the closed set. It is a
// rejection of the request, not a system failure.
type InvalidStatusError struct {
	Candidate string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q", e.Candidate)
}

// ParseStatus matches candidate against the closed set, case-insensitively.
func ParseStatus(candidate string) (Status, error) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(candidate)))
	for _, s := range AllStatuses() {
		if normalized == s {
			return s, nil
		}
	}
	return "", &InvalidStatusError{Candidate: candidate}
}
