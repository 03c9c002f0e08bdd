// Package reminder selects the one appointment to surface as a banner when a
// user logs in, and tracks per-session "already reminded" markers so the same
// appointment is never shown twice in one session.
package reminder

import (
	"context"
	"time"

	"wellness-care-api/internal/model"
	"wellness-care-api/internal/wellness"
)

// Action is how the user resolved a surfaced reminder.
type Action string

const (
	ActionConfirm    Action = "confirm"
	ActionReschedule Action = "reschedule"
	ActionDismiss    Action = "dismiss"
)

func (a Action) Valid() bool {
	switch a {
	case ActionConfirm, ActionReschedule, ActionDismiss:
		return true
	}
	return false
}

type Scheduler struct {
	sessions SessionStore
	loc      *time.Location
}

func New(sessions SessionStore) *Scheduler {
	return &Scheduler{sessions: sessions, loc: time.Local}
}

// Select returns at most one appointment to remind about: the first in list
// order whose status is upcoming, whose date is strictly after now, and which
// has not been surfaced in this session. First match in list order is the
// policy, not earliest date.
func (s *Scheduler) Select(ctx context.Context, sessionID string, appts []model.Appointment, now time.Time) (*model.Appointment, error) {
	for i := range appts {
		a := appts[i]
		if a.Status.Normalize() != model.StatusUpcoming {
			continue
		}
		day, err := a.DateIn(s.loc)
		if err != nil || !day.After(now) {
			continue
		}
		seen, err := s.sessions.Reminded(ctx, sessionID, a.ID)
		if err != nil {
			return nil, err
		}
		if seen {
			continue
		}
		return &a, nil
	}
	return nil, nil
}

// EndSession drops every marker for the session; called on logout.
func (s *Scheduler) EndSession(ctx context.Context, sessionID string) error {
	return s.sessions.EndSession(ctx, sessionID)
}

// Resolve handles a confirm/reschedule/dismiss of a surfaced reminder. The
// appointment is marked reminded before the action runs, so even a failed
// confirm keeps it from surfacing again this session. For reschedule and
// dismiss the marker is the whole effect; the old record stays untouched.
func (s *Scheduler) Resolve(ctx context.Context, sessionID string, apptID int64, action Action, confirm func(context.Context) error) error {
	if !action.Valid() {
		return wellness.Invalid("action", "must be confirm, reschedule or dismiss")
	}
	if err := s.sessions.MarkReminded(ctx, sessionID, apptID); err != nil {
		return err
	}
	if action == ActionConfirm {
		return confirm(ctx)
	}
	return nil
}
