package notify

import (
	"fmt"
	"sort"
	"time"

	"github.com/nhle/tasktrack/internal/model"
)

// Urgency buckets the time remaining until a deadline.
type Urgency int

const (
	UrgencyLater Urgency = iota
	UrgencySoon
	UrgencyUrgent
)

// Bucket boundaries, inclusive on the low side: exactly 24 hours remaining
// is urgent, exactly 3 days remaining is soon.
const (
	urgentWindow = 24 * time.Hour
	soonWindow   = 3 * 24 * time.Hour
)

func (u Urgency) String() string {
	switch u {
	case UrgencyUrgent:
		return "urgent"
	case UrgencySoon:
		return "soon"
	default:
		return "later"
	}
}

// Classify buckets a future deadline relative to now. Recomputed on every
// poll cycle; never stored.
func Classify(deadline, now time.Time) Urgency {
	remaining := deadline.Sub(now)
	switch {
	case remaining <= urgentWindow:
		return UrgencyUrgent
	case remaining <= soonWindow:
		return UrgencySoon
	default:
		return UrgencyLater
	}
}

// Reminder pairs a project with its computed urgency for display.
type Reminder struct {
	Project   model.Project
	Urgency   Urgency
	Remaining time.Duration
}

// DueLabel renders the time remaining the way the dashboard shows it.
func (r Reminder) DueLabel() string {
	hours := int(r.Remaining.Hours())
	if hours <= 24 {
		return fmt.Sprintf("Due in %d hours", hours)
	}
	days := hours / 24
	if days == 1 {
		return "Due in 1 day"
	}
	return fmt.Sprintf("Due in %d days", days)
}

// UpcomingReminders filters projects down to those eligible for reminders
// (notifications enabled, not completed, future deadline) and orders them
// by deadline ascending so the most urgent item is first.
func UpcomingReminders(projects []model.Project, now time.Time) []Reminder {
	var out []Reminder
	for _, p := range projects {
		if !p.NotificationsEnabled || p.IsCompleted || !p.HasDeadline() {
			continue
		}
		if !p.Deadline.After(now) {
			continue
		}
		out = append(out, Reminder{
			Project:   p,
			Urgency:   Classify(p.Deadline.Time, now),
			Remaining: p.Deadline.Sub(now),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Project.Deadline.Before(out[j].Project.Deadline.Time)
	})

	return out
}
