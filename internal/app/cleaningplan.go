package app

import (
	"hostal_ops/internal/domain"
)

// BuildCleaningPlan collapses the persisted schedule rows of one date into
// the final per-apartment task list. A guest checking out and another
// checking in on the same day produce two persisted rows for the same unit;
// operationally there is a single deep clean, so those two rows are merged
// into one check-in-out task that still carries both source identifiers for
// completion toggling.
//
// Pure and deterministic: same input, same output. Never fails; rows with
// missing joined booking fields pass through with zero values.
func BuildCleaningPlan(rows []domain.ScheduleRow) []domain.CleaningTask {
	byApartment := make(map[string][]domain.ScheduleRow)
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, seen := byApartment[r.Apartment]; !seen {
			order = append(order, r.Apartment)
		}
		byApartment[r.Apartment] = append(byApartment[r.Apartment], r)
	}

	out := make([]domain.CleaningTask, 0, len(rows))
	for _, apt := range order {
		group := byApartment[apt]
		if len(group) == 1 {
			out = append(out, taskFromRow(group[0]))
			continue
		}

		checkOut, haveOut := findDayType(group, domain.DayCheckOut)
		checkIn, haveIn := findDayType(group, domain.DayCheckIn)
		if haveOut && haveIn {
			out = append(out, mergeTurnover(checkIn, checkOut))
			continue
		}

		// Anomalous combination (two dailies, duplicated rows, ...): keep
		// every row visible rather than guessing.
		for _, r := range group {
			out = append(out, taskFromRow(r))
		}
	}
	return out
}

// mergeTurnover synthesizes the single check-in-out task from a same-day
// check-out/check-in pair. Booking fields come from the checking-in guest;
// the task is complete only when both source rows are. Note order: the
// check-in note wins when both are set.
func mergeTurnover(checkIn, checkOut domain.ScheduleRow) domain.CleaningTask {
	notes := checkIn.Notes
	if notes == "" {
		notes = checkOut.Notes
	}
	return domain.CleaningTask{
		ID:           checkIn.ID,
		Hotel:        checkIn.Hotel,
		Apartment:    checkIn.Apartment,
		Date:         checkIn.Date,
		DayType:      domain.DayCheckInOut,
		CleaningType: domain.CleanCompleta,
		IsCompleted:  checkIn.IsCompleted && checkOut.IsCompleted,
		Pax:          checkIn.Pax,
		CheckIn:      checkIn.CheckIn,
		CheckOut:     checkIn.CheckOut,
		Notes:        notes,
		MergedIDs:    []string{checkIn.ID, checkOut.ID},
	}
}

func taskFromRow(r domain.ScheduleRow) domain.CleaningTask {
	return domain.CleaningTask{
		ID:           r.ID,
		Hotel:        r.Hotel,
		Apartment:    r.Apartment,
		Date:         r.Date,
		DayType:      r.DayType,
		CleaningType: r.CleaningType,
		IsCompleted:  r.IsCompleted,
		Pax:          r.Pax,
		CheckIn:      r.CheckIn,
		CheckOut:     r.CheckOut,
		Notes:        r.Notes,
		MergedIDs:    []string{r.ID},
	}
}

func findDayType(rows []domain.ScheduleRow, dayType string) (domain.ScheduleRow, bool) {
	for _, r := range rows {
		if r.DayType == dayType {
			return r, true
		}
	}
	return domain.ScheduleRow{}, false
}
