package model

import (
	"time"

	"wellness-care-api/internal/wellness"
)

// User is the durable aggregate for one account: identity, profile, medical
// history, appointments and the derived analytics snapshot. The whole record
// is persisted as a single blob keyed by mobile number.
type User struct {
	Mobile       string            `json:"mobile"`
	PasswordHash string            `json:"passwordHash"`
	Name         string            `json:"name"`
	Profile      Profile           `json:"profile"`
	Medical      MedicalHistory    `json:"medical"`
	Appointments []Appointment     `json:"appointments"`
	Analytics    AnalyticsSnapshot `json:"analytics"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type Profile struct {
	Age              int    `json:"age,omitempty"`
	Gender           string `json:"gender,omitempty"`
	Email            string `json:"email,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
}

type MedicalHistory struct {
	Condition   string   `json:"condition,omitempty"`
	Allergies   []string `json:"allergies,omitempty"`
	Medications []string `json:"medications,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// AnalyticsSnapshot is derived reporting data kept alongside the record.
type AnalyticsSnapshot struct {
	SessionsCompleted int            `json:"sessionsCompleted"`
	TherapyCounts     map[string]int `json:"therapyCounts,omitempty"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// Therapy is one bookable treatment.
type Therapy struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Image           string `json:"image,omitempty"`
}

// Appointment is one booking inside a user record. ID is derived from the
// creation timestamp and is unique within the owning record; BookedAt is used
// only for sorting and never edited.
type Appointment struct {
	ID           int64     `json:"id"`
	Therapies    []Therapy `json:"therapies"`
	Date         string    `json:"date"` // calendar date, 2006-01-02
	Time         string    `json:"time"` // one of Slots()
	BookedAt     time.Time `json:"bookedAt"`
	CenterRating int       `json:"centerRating,omitempty"` // 1-5, set once
	Status       Status    `json:"status,omitempty"`
}

// DateLayout is the stored calendar-date form. Dates are parsed in a fixed
// location rather than as instants so "2025-03-01" never shifts to the
// previous day across timezones.
const DateLayout = "2006-01-02"

// DateIn parses the appointment's calendar date at start of day in loc.
func (a *Appointment) DateIn(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, a.Date, loc)
}

// Status is the appointment lifecycle state. The zero value means upcoming:
// records written before the field existed carry no status at all.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
)

// Normalize maps an absent status to upcoming.
func (s Status) Normalize() Status {
	if s == "" {
		return StatusUpcoming
	}
	return s
}

// Valid reports whether s names a known state.
func (s Status) Valid() bool {
	switch s.Normalize() {
	case StatusUpcoming, StatusConfirmed, StatusCompleted:
		return true
	}
	return false
}

// forward edges of the lifecycle; status never moves backward.
var transitions = map[Status]map[Status]bool{
	StatusUpcoming:  {StatusConfirmed: true, StatusCompleted: true},
	StatusConfirmed: {StatusCompleted: true},
	StatusCompleted: {},
}

// Transition checks the edge from one status to another. A same-state
// transition is allowed so repeated confirms stay idempotent; every backward
// edge is rejected with ErrIllegalTransition.
func Transition(from, to Status) error {
	from, to = from.Normalize(), to.Normalize()
	if !to.Valid() {
		return wellness.Invalid("status", "unknown status")
	}
	if from == to {
		return nil
	}
	if !transitions[from][to] {
		return wellness.ErrIllegalTransition
	}
	return nil
}
