package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hostal_ops/internal/domain"
)

// PlanService owns the booking-derived cleaning schedule: generating rows
// from bookings, serving the merged daily plan, and toggling completion
// across merged identifier lists.
type PlanService struct {
	bookings domain.BookingRepository
	schedule domain.ScheduleRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewPlanService(b domain.BookingRepository, s domain.ScheduleRepository, c domain.Cache, ttl time.Duration) *PlanService {
	return &PlanService{bookings: b, schedule: s, cache: c, cacheTTL: ttl}
}

func planKey(hotel string, date time.Time) string {
	return fmt.Sprintf("plan:%s:%s", hotel, date.Format("2006-01-02"))
}

// PlanForDate returns the merged cleaning plan for one hotel and date.
func (s *PlanService) PlanForDate(ctx context.Context, hotel string, date time.Time) ([]domain.CleaningTask, error) {
	key := planKey(hotel, date)
	var cached []domain.CleaningTask
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	rows, err := s.schedule.ListScheduleRows(ctx, hotel, date)
	if err != nil {
		return nil, err
	}
	plan := BuildCleaningPlan(rows)
	_ = s.cache.Set(ctx, key, plan, int(s.cacheTTL.Seconds()))
	return plan, nil
}

// ToggleCompletion flips every underlying row of a (possibly merged) task.
// Callers pass the task's MergedIDs so a check-in-out task updates both of
// its source rows, not just the synthetic view.
func (s *PlanService) ToggleCompletion(ctx context.Context, hotel string, date time.Time, ids []string, completed bool) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.schedule.SetCompleted(ctx, ids, completed); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, planKey(hotel, date))
	return nil
}

// SaveBooking upserts a booking and immediately regenerates its schedule
// rows, so the cleaning board reflects booking edits without waiting for the
// next planner run.
func (s *PlanService) SaveBooking(ctx context.Context, b domain.Booking) error {
	if err := s.bookings.UpsertBooking(ctx, b); err != nil {
		return err
	}
	rows := GenerateRows(b, b.CheckIn, b.CheckOut)
	if len(rows) > 0 {
		if err := s.schedule.UpsertScheduleRows(ctx, rows); err != nil {
			return err
		}
	}
	s.invalidateWindow(ctx, b.Hotel, b.CheckIn, b.CheckOut)
	return nil
}

// DeleteBooking removes a booking together with its derived schedule rows.
func (s *PlanService) DeleteBooking(ctx context.Context, id string) error {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if err := s.schedule.DeleteScheduleRows(ctx, id); err != nil {
		return err
	}
	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		return err
	}
	s.invalidateWindow(ctx, b.Hotel, b.CheckIn, b.CheckOut)
	return nil
}

func (s *PlanService) ListBookings(ctx context.Context, hotel string, from, to time.Time) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx, hotel, from, to)
}

func (s *PlanService) invalidateWindow(ctx context.Context, hotel string, from, to time.Time) {
	for d := midnight(from); !d.After(midnight(to)); d = d.AddDate(0, 0, 1) {
		_ = s.cache.Del(ctx, planKey(hotel, d))
	}
}

// GenerateForRange materializes schedule rows for every booking of a hotel
// that overlaps [from, to]. Idempotent: rows are upserted on their
// (booking, date, day_type) key, so re-running after a booking edit updates
// in place. Returns the number of rows written.
func (s *PlanService) GenerateForRange(ctx context.Context, hotel string, from, to time.Time) (int, error) {
	bs, err := s.bookings.ListBookings(ctx, hotel, from, to)
	if err != nil {
		return 0, err
	}
	var rows []domain.ScheduleRow
	for _, b := range bs {
		rows = append(rows, GenerateRows(b, from, to)...)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := s.schedule.UpsertScheduleRows(ctx, rows); err != nil {
		return 0, err
	}
	// Every date in the window may have changed.
	s.invalidateWindow(ctx, hotel, from, to)
	log.Info().Str("hotel", hotel).Int("rows", len(rows)).Msg("schedule generated")
	return len(rows), nil
}

// GenerateRows derives the per-day cleaning obligations of one booking,
// clipped to [from, to]. The check-in and check-out days take a full clean;
// interior nights get a light tidy, upgraded to a linen change every third
// night of the stay.
func GenerateRows(b domain.Booking, from, to time.Time) []domain.ScheduleRow {
	start, end := midnight(b.CheckIn), midnight(b.CheckOut)
	lo, hi := midnight(from), midnight(to)
	if start.After(hi) || end.Before(lo) {
		return nil
	}

	var rows []domain.ScheduleRow
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Before(lo) || d.After(hi) {
			continue
		}
		var dayType, cleaningType string
		switch {
		case d.Equal(start):
			dayType, cleaningType = domain.DayCheckIn, domain.CleanCompleta
		case d.Equal(end):
			dayType, cleaningType = domain.DayCheckOut, domain.CleanCompleta
		default:
			dayType = domain.DayDaily
			cleaningType = domain.CleanRepaso
			if night := int(d.Sub(start).Hours() / 24); night%3 == 0 {
				cleaningType = domain.CleanRepasoSabanas
			}
		}
		ci, co := b.CheckIn, b.CheckOut
		rows = append(rows, domain.ScheduleRow{
			ID:           uuid.NewString(),
			BookingID:    b.ID,
			Hotel:        b.Hotel,
			Apartment:    b.Apartment,
			Date:         d,
			DayType:      dayType,
			CleaningType: cleaningType,
			Pax:          b.Pax,
			CheckIn:      &ci,
			CheckOut:     &co,
			Notes:        b.Notes,
		})
	}
	return rows
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
