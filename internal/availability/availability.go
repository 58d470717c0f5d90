// Package availability derives a consultant's availability from its project
// assignments. All mutation paths (create, assign, deactivate, remove) go
// through Recompute so the derived flag can never drift from the assignment
// set; a client-supplied availability value is always overwritten.
package availability

import (
	"time"

	"github.com/opentalent/talentgraph/internal/models"
)

// Recompute sets c.Availability to true iff the consultant holds no active
// assignment. Pure in-memory update; the caller persists the result.
func Recompute(c *models.Consultant) {
	c.Availability = !hasActiveAssignment(c)
}

func hasActiveAssignment(c *models.Consultant) bool {
	for _, a := range c.Assignments {
		if a.IsActive {
			return true
		}
	}
	return false
}

// Overlaps reports whether the closed-or-open intervals [aStart, aEnd] and
// [bStart, bEnd] intersect. A nil start is unbounded past, a nil end is
// unbounded future, so an open-ended assignment overlaps every window that
// begins at or after its start.
func Overlaps(aStart, aEnd, bStart, bEnd *time.Time) bool {
	// a1 <= (b2 or +inf)
	if aStart != nil && bEnd != nil && aStart.After(*bEnd) {
		return false
	}
	// (a2 or +inf) >= b1
	if aEnd != nil && bStart != nil && aEnd.Before(*bStart) {
		return false
	}
	return true
}

// HasActiveOverlap reports whether any active assignment of c overlaps the
// query window [start, end]. Inactive assignments never occupy the window.
func HasActiveOverlap(c *models.Consultant, start, end *time.Time) bool {
	for _, a := range c.Assignments {
		if !a.IsActive {
			continue
		}
		if Overlaps(a.StartDate, a.EndDate, start, end) {
			return true
		}
	}
	return false
}
