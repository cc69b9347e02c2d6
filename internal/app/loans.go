package app

import (
	"context"
	"strings"
	"time"

	"hostal_ops/internal/domain"
)

const balancesKey = "loans:balances"

// LoanService fronts the loan ledger: CRUD on transactions plus the cached
// netted balances view.
type LoanService struct {
	loans    domain.LoanRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewLoanService(r domain.LoanRepository, c domain.Cache, ttl time.Duration) *LoanService {
	return &LoanService{loans: r, cache: c, cacheTTL: ttl}
}

func (s *LoanService) List(ctx context.Context) ([]domain.LoanTransaction, error) {
	return s.loans.ListLoans(ctx)
}

func (s *LoanService) Save(ctx context.Context, t domain.LoanTransaction) error {
	t.Estado = strings.ToLower(strings.TrimSpace(t.Estado))
	if t.Estado == "" {
		t.Estado = domain.EstadoPendiente
	}
	if err := s.loans.UpsertLoan(ctx, t); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, balancesKey)
	return nil
}

func (s *LoanService) SetEstado(ctx context.Context, id, estado string) error {
	if err := s.loans.SetLoanEstado(ctx, id, strings.ToLower(estado)); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, balancesKey)
	return nil
}

func (s *LoanService) Delete(ctx context.Context, id string) error {
	if err := s.loans.DeleteLoan(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, balancesKey)
	return nil
}

// Balances serves the netted creditor/debtor view, cached for the TTL.
func (s *LoanService) Balances(ctx context.Context) ([]domain.HotelBalance, error) {
	var cached []domain.HotelBalance
	if ok, _ := s.cache.Get(ctx, balancesKey, &cached); ok {
		return cached, nil
	}
	txns, err := s.loans.ListLoans(ctx)
	if err != nil {
		return nil, err
	}
	out := ComputeHotelBalances(txns)
	_ = s.cache.Set(ctx, balancesKey, out, int(s.cacheTTL.Seconds()))
	return out, nil
}
