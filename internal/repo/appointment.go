// Package repo implements appointment CRUD over the record store. Every
// mutation is a read-modify-write of the whole user record, retried on
// version conflict so two rapid-fire writes serialize instead of one
// silently discarding the other.
package repo

import (
	"context"
	"errors"
	"time"

	"wellness-care-api/internal/model"
	"wellness-care-api/internal/store"
	"wellness-care-api/internal/wellness"
)

// Draft is a booking request as it leaves the scheduling flow.
type Draft struct {
	Therapies []model.Therapy `json:"therapies"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
}

type Appointments struct {
	store store.RecordStore
	now   func() time.Time
}

func New(st store.RecordStore) *Appointments {
	return &Appointments{store: st, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (r *Appointments) WithClock(now func() time.Time) *Appointments {
	r.now = now
	return r
}

// List returns the user's appointments in insertion order. A missing user
// yields an empty list, not an error: "no current user" is an empty schedule
// as far as listing is concerned.
func (r *Appointments) List(ctx context.Context, mobile string) ([]model.Appointment, error) {
	u, _, err := r.store.Get(ctx, mobile)
	if errors.Is(err, wellness.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u.Appointments, nil
}

// Create validates the draft, assigns a fresh id, sets status upcoming and
// appends the appointment to the user's record. Validation failures never
// reach the store.
func (r *Appointments) Create(ctx context.Context, mobile string, d Draft) (*model.Appointment, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}

	var created model.Appointment
	err := r.mutate(ctx, mobile, func(u *model.User) error {
		now := r.now()
		created = model.Appointment{
			ID:        nextID(u.Appointments, now),
			Therapies: d.Therapies,
			Date:      d.Date,
			Time:      d.Time,
			BookedAt:  now,
			Status:    model.StatusUpcoming,
		}
		u.Appointments = append(u.Appointments, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStatus moves an appointment to a new lifecycle state. Unknown ids
// fail with ErrNotFound; backward edges fail with ErrIllegalTransition; a
// same-state update is a no-op success, which makes repeated confirms
// idempotent.
func (r *Appointments) UpdateStatus(ctx context.Context, mobile string, id int64, to model.Status) error {
	return r.mutate(ctx, mobile, func(u *model.User) error {
		for i := range u.Appointments {
			a := &u.Appointments[i]
			if a.ID != id {
				continue
			}
			if err := model.Transition(a.Status, to); err != nil {
				return err
			}
			a.Status = to.Normalize()
			if a.Status == model.StatusCompleted {
				recordCompletion(u, a, r.now())
			}
			return nil
		}
		return wellness.ErrNotFound
	})
}

// Rate sets the center rating at the end of the booking flow. It is set
// once; later calls fail validation.
func (r *Appointments) Rate(ctx context.Context, mobile string, id int64, stars int) error {
	if stars < 1 || stars > 5 {
		return wellness.Invalid("rating", "must be between 1 and 5")
	}
	return r.mutate(ctx, mobile, func(u *model.User) error {
		for i := range u.Appointments {
			a := &u.Appointments[i]
			if a.ID != id {
				continue
			}
			if a.CenterRating != 0 {
				return wellness.Invalid("rating", "already rated")
			}
			a.CenterRating = stars
			return nil
		}
		return wellness.ErrNotFound
	})
}

func (r *Appointments) mutate(ctx context.Context, mobile string, fn func(*model.User) error) error {
	return store.Mutate(ctx, r.store, mobile, r.now, fn)
}

func validateDraft(d Draft) error {
	if len(d.Therapies) == 0 {
		return wellness.Invalid("therapies", "select at least one therapy")
	}
	seen := make(map[string]bool, len(d.Therapies))
	for i, t := range d.Therapies {
		if t.Name == "" {
			return wellness.Invalid("therapies", "therapy name required")
		}
		if seen[t.Name] {
			return wellness.Invalid("therapies", "duplicate therapy "+t.Name)
		}
		seen[t.Name] = true
		cat, ok := model.TherapyByName(t.Name)
		if !ok {
			return wellness.Invalid("therapies", "unknown therapy "+t.Name)
		}
		d.Therapies[i].DurationMinutes = cat.DurationMinutes
	}
	if d.Date == "" {
		return wellness.Invalid("date", "date required")
	}
	if _, err := time.ParseInLocation(model.DateLayout, d.Date, time.Local); err != nil {
		return wellness.Invalid("date", "expected "+model.DateLayout)
	}
	if d.Time == "" {
		return wellness.Invalid("time", "time slot required")
	}
	if !model.ValidSlot(d.Time) {
		return wellness.Invalid("time", "unknown time slot")
	}
	return nil
}

// nextID derives the id from the creation timestamp, bumped past any
// existing id so uniqueness within the record holds even when two creates
// land in the same millisecond.
func nextID(existing []model.Appointment, now time.Time) int64 {
	id := now.UnixMilli()
	for _, a := range existing {
		if a.ID >= id {
			id = a.ID + 1
		}
	}
	return id
}

func recordCompletion(u *model.User, a *model.Appointment, now time.Time) {
	u.Analytics.SessionsCompleted++
	if u.Analytics.TherapyCounts == nil {
		u.Analytics.TherapyCounts = make(map[string]int)
	}
	for _, t := range a.Therapies {
		u.Analytics.TherapyCounts[t.Name]++
	}
	u.Analytics.UpdatedAt = now
}
