package app_test

import (
	"reflect"
	"testing"
	"time"

	"hostal_ops/internal/app"
	"hostal_ops/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func row(id, apt, dayType string, completed bool) domain.ScheduleRow {
	return domain.ScheduleRow{
		ID:           id,
		Hotel:        "centro",
		Apartment:    apt,
		Date:         day("2026-08-15"),
		DayType:      dayType,
		CleaningType: domain.CleanCompleta,
		IsCompleted:  completed,
	}
}

func TestBuildCleaningPlan_MergesTurnoverPair(t *testing.T) {
	co := row("a", "101", domain.DayCheckOut, true)
	co.Notes = "leave keys at desk"
	ci := row("b", "101", domain.DayCheckIn, false)
	ci.Pax = 3
	in := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	out := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	ci.CheckIn, ci.CheckOut = &in, &out

	got := app.BuildCleaningPlan([]domain.ScheduleRow{co, ci})
	if len(got) != 1 {
		t.Fatalf("expected 1 merged task, got %d", len(got))
	}
	m := got[0]
	if m.DayType != domain.DayCheckInOut {
		t.Errorf("day type = %s, want %s", m.DayType, domain.DayCheckInOut)
	}
	if m.CleaningType != domain.CleanCompleta {
		t.Errorf("cleaning type = %s, want completa", m.CleaningType)
	}
	if m.IsCompleted {
		t.Error("merged task complete although check-in row is not")
	}
	if !reflect.DeepEqual(m.MergedIDs, []string{"b", "a"}) {
		t.Errorf("merged ids = %v, want [b a] (check-in first)", m.MergedIDs)
	}
	// check-in row's booking fields win
	if m.Pax != 3 || m.CheckIn == nil || !m.CheckIn.Equal(in) {
		t.Errorf("booking fields not taken from check-in row: %+v", m)
	}
	// check-out note used only because the check-in note is empty
	if m.Notes != "leave keys at desk" {
		t.Errorf("notes = %q", m.Notes)
	}
}

func TestBuildCleaningPlan_NotesPreferCheckIn(t *testing.T) {
	co := row("a", "101", domain.DayCheckOut, true)
	co.Notes = "checkout note"
	ci := row("b", "101", domain.DayCheckIn, true)
	ci.Notes = "checkin note"

	got := app.BuildCleaningPlan([]domain.ScheduleRow{co, ci})
	if len(got) != 1 || got[0].Notes != "checkin note" {
		t.Fatalf("want single task with check-in note, got %+v", got)
	}
	if !got[0].IsCompleted {
		t.Error("both sources complete, merged task should be complete")
	}
}

func TestBuildCleaningPlan_CompletionAndSemantics(t *testing.T) {
	cases := []struct {
		out, in, want bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	for _, c := range cases {
		got := app.BuildCleaningPlan([]domain.ScheduleRow{
			row("a", "101", domain.DayCheckOut, c.out),
			row("b", "101", domain.DayCheckIn, c.in),
		})
		if len(got) != 1 || got[0].IsCompleted != c.want {
			t.Errorf("out=%v in=%v: merged completed = %v, want %v",
				c.out, c.in, got[0].IsCompleted, c.want)
		}
	}
}

func TestBuildCleaningPlan_SingleRowPassesThrough(t *testing.T) {
	r := row("x", "203", domain.DayDaily, false)
	r.CleaningType = domain.CleanRepaso
	got := app.BuildCleaningPlan([]domain.ScheduleRow{r})
	if len(got) != 1 {
		t.Fatalf("got %d tasks", len(got))
	}
	if got[0].DayType != domain.DayDaily || got[0].CleaningType != domain.CleanRepaso {
		t.Errorf("row altered on pass-through: %+v", got[0])
	}
	if !reflect.DeepEqual(got[0].MergedIDs, []string{"x"}) {
		t.Errorf("merged ids = %v", got[0].MergedIDs)
	}
}

func TestBuildCleaningPlan_NonMatchingGroupEmittedUnmerged(t *testing.T) {
	// Two dailies for the same unit is anomalous: no pair to merge, keep both.
	got := app.BuildCleaningPlan([]domain.ScheduleRow{
		row("a", "101", domain.DayDaily, false),
		row("b", "101", domain.DayDaily, true),
	})
	if len(got) != 2 {
		t.Fatalf("expected both rows preserved, got %d", len(got))
	}
	for _, task := range got {
		if task.DayType != domain.DayDaily {
			t.Errorf("day type changed: %+v", task)
		}
	}
}

func TestBuildCleaningPlan_OneTaskPerApartment(t *testing.T) {
	rows := []domain.ScheduleRow{
		row("a", "101", domain.DayCheckOut, false),
		row("b", "101", domain.DayCheckIn, false),
		row("c", "102", domain.DayDaily, false),
		row("d", "103", domain.DayCheckIn, false),
	}
	got := app.BuildCleaningPlan(rows)
	seen := map[string]int{}
	for _, task := range got {
		seen[task.Apartment]++
	}
	for apt, n := range seen {
		if n != 1 {
			t.Errorf("apartment %s appears %d times", apt, n)
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 apartments, got %d", len(seen))
	}
}

func TestBuildCleaningPlan_Idempotent(t *testing.T) {
	rows := []domain.ScheduleRow{
		row("a", "101", domain.DayCheckOut, true),
		row("b", "101", domain.DayCheckIn, false),
		row("c", "102", domain.DayDaily, false),
	}
	first := app.BuildCleaningPlan(rows)
	second := app.BuildCleaningPlan(rows)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("plan not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestBuildCleaningPlan_MissingJoinFieldsDefault(t *testing.T) {
	// Booking deleted under the row: joined fields absent, must not blow up.
	r := domain.ScheduleRow{ID: "orphan", Apartment: "104", DayType: domain.DayCheckOut}
	got := app.BuildCleaningPlan([]domain.ScheduleRow{r})
	if len(got) != 1 {
		t.Fatalf("got %d tasks", len(got))
	}
	if got[0].Pax != 0 || got[0].CheckIn != nil || got[0].Notes != "" {
		t.Errorf("expected zero-value booking fields: %+v", got[0])
	}
}

func TestBuildCleaningPlan_EmptyInput(t *testing.T) {
	if got := app.BuildCleaningPlan(nil); len(got) != 0 {
		t.Fatalf("expected empty plan, got %+v", got)
	}
}
