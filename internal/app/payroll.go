package app

import (
	"context"
	"sort"
	"time"

	"hostal_ops/internal/domain"
)

type StaffService struct {
	staff domain.StaffRepository
}

func NewStaffService(r domain.StaffRepository) *StaffService {
	return &StaffService{staff: r}
}

func (s *StaffService) SaveEmployee(ctx context.Context, e domain.Employee) error {
	return s.staff.UpsertEmployee(ctx, e)
}

func (s *StaffService) DeleteEmployee(ctx context.Context, id string) error {
	return s.staff.DeleteEmployee(ctx, id)
}

func (s *StaffService) ListEmployees(ctx context.Context, hotel string) ([]domain.Employee, error) {
	return s.staff.ListEmployees(ctx, hotel)
}

func (s *StaffService) SavePayment(ctx context.Context, p domain.ServicePayment) error {
	return s.staff.UpsertPayment(ctx, p)
}

func (s *StaffService) DeletePayment(ctx context.Context, id string) error {
	return s.staff.DeletePayment(ctx, id)
}

func (s *StaffService) ListPayments(ctx context.Context, hotel string, from, to time.Time) ([]domain.ServicePayment, error) {
	return s.staff.ListPayments(ctx, hotel, from, to)
}

// PayrollSummary buckets a hotel's payments by calendar month.
func (s *StaffService) PayrollSummary(ctx context.Context, hotel string, from, to time.Time) ([]domain.MonthlySummary, error) {
	ps, err := s.staff.ListPayments(ctx, hotel, from, to)
	if err != nil {
		return nil, err
	}
	return SummarizeByMonth(ps), nil
}

// SummarizeByMonth groups payments into "2006-01" buckets with totals and
// averages, oldest month first. Pure.
func SummarizeByMonth(payments []domain.ServicePayment) []domain.MonthlySummary {
	buckets := make(map[string]*domain.MonthlySummary)
	for _, p := range payments {
		m := p.Fecha.Format("2006-01")
		b, ok := buckets[m]
		if !ok {
			b = &domain.MonthlySummary{Month: m}
			buckets[m] = b
		}
		b.Total += p.Importe
		b.Count++
	}
	out := make([]domain.MonthlySummary, 0, len(buckets))
	for _, b := range buckets {
		b.Average = b.Total / float64(b.Count)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
