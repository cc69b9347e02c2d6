package app_test

import (
	"context"
	"encoding/json"
	"time"

	"hostal_ops/internal/domain"
)

// ---- fakes shared across the app tests ----

func jsonOf(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func jsonInto(b []byte, dst any) error { return json.Unmarshal(b, dst) }

type fakeCache struct {
	store map[string][]byte
	sets  int
	dels  []string
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, jsonInto(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = jsonOf(v)
	c.sets++
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeBookings struct {
	list []domain.Booking
}

func (f *fakeBookings) UpsertBooking(context.Context, domain.Booking) error { return nil }
func (f *fakeBookings) DeleteBooking(context.Context, string) error         { return nil }
func (f *fakeBookings) GetBooking(context.Context, string) (domain.Booking, error) {
	return domain.Booking{}, domain.ErrNotFound
}
func (f *fakeBookings) ListBookings(context.Context, string, time.Time, time.Time) ([]domain.Booking, error) {
	return f.list, nil
}

type fakeSchedule struct {
	rows      []domain.ScheduleRow
	upserted  []domain.ScheduleRow
	completed map[string]bool
}

func (f *fakeSchedule) UpsertScheduleRows(_ context.Context, rows []domain.ScheduleRow) error {
	f.upserted = append(f.upserted, rows...)
	return nil
}
func (f *fakeSchedule) ListScheduleRows(context.Context, string, time.Time) ([]domain.ScheduleRow, error) {
	return f.rows, nil
}
func (f *fakeSchedule) SetCompleted(_ context.Context, ids []string, completed bool) error {
	if f.completed == nil {
		f.completed = map[string]bool{}
	}
	for _, id := range ids {
		f.completed[id] = completed
	}
	return nil
}
func (f *fakeSchedule) DeleteScheduleRows(context.Context, string) error { return nil }

type fakeLoans struct {
	list []domain.LoanTransaction
}

func (f *fakeLoans) UpsertLoan(_ context.Context, t domain.LoanTransaction) error {
	f.list = append(f.list, t)
	return nil
}
func (f *fakeLoans) SetLoanEstado(context.Context, string, string) error { return nil }
func (f *fakeLoans) DeleteLoan(context.Context, string) error            { return nil }
func (f *fakeLoans) ListLoans(context.Context) ([]domain.LoanTransaction, error) {
	return f.list, nil
}

type fakePermRepo struct {
	matrix domain.PermissionMatrix
	err    error
	loads  int
}

func (f *fakePermRepo) LoadPermissions(context.Context) (domain.PermissionMatrix, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.matrix, nil
}
func (f *fakePermRepo) SavePermissions(_ context.Context, m domain.PermissionMatrix) error {
	f.matrix = m
	return nil
}
