package app

import (
	"context"
	"sort"

	"hostal_ops/internal/domain"
)

type StockService struct {
	stock domain.StockRepository
}

func NewStockService(r domain.StockRepository) *StockService {
	return &StockService{stock: r}
}

func (s *StockService) SaveItem(ctx context.Context, it domain.StockItem) error {
	return s.stock.UpsertItem(ctx, it)
}

func (s *StockService) DeleteItem(ctx context.Context, id string) error {
	return s.stock.DeleteItem(ctx, id)
}

func (s *StockService) ListItems(ctx context.Context, hotel string) ([]domain.StockItem, error) {
	return s.stock.ListItems(ctx, hotel)
}

// Record normalizes a movement so Cantidad is stored signed: salidas are
// negated, entradas forced positive, ajustes kept as given.
func (s *StockService) Record(ctx context.Context, m domain.StockMovement) error {
	switch m.Tipo {
	case domain.MovSalida:
		if m.Cantidad > 0 {
			m.Cantidad = -m.Cantidad
		}
	case domain.MovEntrada:
		if m.Cantidad < 0 {
			m.Cantidad = -m.Cantidad
		}
	}
	return s.stock.AddMovement(ctx, m)
}

func (s *StockService) Movements(ctx context.Context, itemID string) ([]domain.StockMovement, error) {
	return s.stock.ListMovements(ctx, itemID)
}

// Levels joins each item of a hotel with the signed sum of its movements,
// sorted by name. Items without movements show level zero.
func (s *StockService) Levels(ctx context.Context, hotel string) ([]domain.StockLevel, error) {
	items, err := s.stock.ListItems(ctx, hotel)
	if err != nil {
		return nil, err
	}
	sums, err := s.stock.SumMovements(ctx, hotel)
	if err != nil {
		return nil, err
	}
	out := make([]domain.StockLevel, 0, len(items))
	for _, it := range items {
		lvl := sums[it.ID]
		out = append(out, domain.StockLevel{
			Item:     it,
			Level:    lvl,
			BelowMin: lvl < it.MinLevel,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.Nombre < out[j].Item.Nombre })
	return out, nil
}
