package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type BookingRepository interface {
	UpsertBooking(ctx context.Context, b Booking) error
	DeleteBooking(ctx context.Context, id string) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	// ListBookings returns bookings for a hotel whose stay overlaps [from, to].
	ListBookings(ctx context.Context, hotel string, from, to time.Time) ([]Booking, error)
}

type ScheduleRepository interface {
	// UpsertScheduleRows is idempotent per (booking_id, date, day_type).
	UpsertScheduleRows(ctx context.Context, rows []ScheduleRow) error
	ListScheduleRows(ctx context.Context, hotel string, date time.Time) ([]ScheduleRow, error)
	// SetCompleted flips every row in ids in one statement.
	SetCompleted(ctx context.Context, ids []string, completed bool) error
	DeleteScheduleRows(ctx context.Context, bookingID string) error
}

type LoanRepository interface {
	UpsertLoan(ctx context.Context, t LoanTransaction) error
	SetLoanEstado(ctx context.Context, id, estado string) error
	DeleteLoan(ctx context.Context, id string) error
	ListLoans(ctx context.Context) ([]LoanTransaction, error)
}

type StockRepository interface {
	UpsertItem(ctx context.Context, it StockItem) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, hotel string) ([]StockItem, error)
	AddMovement(ctx context.Context, m StockMovement) error
	ListMovements(ctx context.Context, itemID string) ([]StockMovement, error)
	// SumMovements returns itemID -> signed total for one hotel's items.
	SumMovements(ctx context.Context, hotel string) (map[string]float64, error)
}

type StaffRepository interface {
	UpsertEmployee(ctx context.Context, e Employee) error
	DeleteEmployee(ctx context.Context, id string) error
	ListEmployees(ctx context.Context, hotel string) ([]Employee, error)
	UpsertPayment(ctx context.Context, p ServicePayment) error
	DeletePayment(ctx context.Context, id string) error
	ListPayments(ctx context.Context, hotel string, from, to time.Time) ([]ServicePayment, error)
}

type PermissionRepository interface {
	LoadPermissions(ctx context.Context) (PermissionMatrix, error)
	SavePermissions(ctx context.Context, m PermissionMatrix) error
}

type UserRepository interface {
	UpsertUser(ctx context.Context, u UserAccount) error
	GetUser(ctx context.Context, username string) (UserAccount, error)
	ListUsers(ctx context.Context) ([]UserAccount, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
