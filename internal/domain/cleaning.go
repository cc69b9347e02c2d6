package domain

import "time"

// Day types classify a cleaning obligation relative to guest turnover.
// DayCheckInOut never appears in persisted rows; it is only produced by the
// merge step when a check-out and a check-in collide on the same apartment
// and date.
const (
	DayCheckIn    = "check-in"
	DayCheckOut   = "check-out"
	DayCheckInOut = "check-in-out"
	DayDaily      = "daily"
)

// Cleaning types, by intensity.
const (
	CleanRepaso        = "repaso"
	CleanRepasoSabanas = "repaso-sabanas"
	CleanCompleta      = "completa"
)

type Booking struct {
	ID        string
	Hotel     string
	Apartment string
	Pax       int
	CheckIn   time.Time
	CheckOut  time.Time
	Notes     string
}

// ScheduleRow is one persisted cleaning obligation for an apartment on a
// date, already left-joined to its booking's fields. Joined fields may be
// absent (zero values) when the booking was deleted out from under the row.
type ScheduleRow struct {
	ID           string
	BookingID    string
	Hotel        string
	Apartment    string
	Date         time.Time
	DayType      string
	CleaningType string
	IsCompleted  bool
	Pax          int
	CheckIn      *time.Time
	CheckOut     *time.Time
	Notes        string
}

// CleaningTask is the merged view row handed to the presentation layer.
// MergedIDs lists every underlying persisted row the task stands for, so a
// completion toggle can reach all of them.
type CleaningTask struct {
	ID           string
	Hotel        string
	Apartment    string
	Date         time.Time
	DayType      string
	CleaningType string
	IsCompleted  bool
	Pax          int
	CheckIn      *time.Time
	CheckOut     *time.Time
	Notes        string
	MergedIDs    []string
}
