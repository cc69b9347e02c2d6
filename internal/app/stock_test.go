package app_test

import (
	"context"
	"testing"

	"hostal_ops/internal/app"
	"hostal_ops/internal/domain"
)

type fakeStock struct {
	items     []domain.StockItem
	sums      map[string]float64
	movements []domain.StockMovement
}

func (f *fakeStock) UpsertItem(context.Context, domain.StockItem) error { return nil }
func (f *fakeStock) DeleteItem(context.Context, string) error           { return nil }
func (f *fakeStock) ListItems(context.Context, string) ([]domain.StockItem, error) {
	return f.items, nil
}
func (f *fakeStock) AddMovement(_ context.Context, m domain.StockMovement) error {
	f.movements = append(f.movements, m)
	return nil
}
func (f *fakeStock) ListMovements(context.Context, string) ([]domain.StockMovement, error) {
	return f.movements, nil
}
func (f *fakeStock) SumMovements(context.Context, string) (map[string]float64, error) {
	return f.sums, nil
}

func TestStockService_Levels(t *testing.T) {
	repo := &fakeStock{
		items: []domain.StockItem{
			{ID: "i1", Nombre: "toallas", MinLevel: 10},
			{ID: "i2", Nombre: "jabon", MinLevel: 5},
			{ID: "i3", Nombre: "sabanas", MinLevel: 0},
		},
		sums: map[string]float64{"i1": 4, "i2": 12},
	}
	svc := app.NewStockService(repo)

	levels, err := svc.Levels(context.Background(), "centro")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("expected every item present, got %d", len(levels))
	}
	// sorted by name: jabon, sabanas, toallas
	if levels[0].Item.Nombre != "jabon" || levels[0].Level != 12 || levels[0].BelowMin {
		t.Errorf("jabon wrong: %+v", levels[0])
	}
	if levels[1].Item.Nombre != "sabanas" || levels[1].Level != 0 || levels[1].BelowMin {
		t.Errorf("item without movements must read zero: %+v", levels[1])
	}
	if levels[2].Item.Nombre != "toallas" || !levels[2].BelowMin {
		t.Errorf("toallas should be flagged below minimum: %+v", levels[2])
	}
}

func TestStockService_RecordNormalizesSign(t *testing.T) {
	repo := &fakeStock{}
	svc := app.NewStockService(repo)

	_ = svc.Record(context.Background(), domain.StockMovement{ID: "m1", Tipo: domain.MovSalida, Cantidad: 5})
	_ = svc.Record(context.Background(), domain.StockMovement{ID: "m2", Tipo: domain.MovEntrada, Cantidad: -3})
	_ = svc.Record(context.Background(), domain.StockMovement{ID: "m3", Tipo: domain.MovAjuste, Cantidad: -2})

	if repo.movements[0].Cantidad != -5 {
		t.Errorf("salida must be negative: %+v", repo.movements[0])
	}
	if repo.movements[1].Cantidad != 3 {
		t.Errorf("entrada must be positive: %+v", repo.movements[1])
	}
	if repo.movements[2].Cantidad != -2 {
		t.Errorf("ajuste kept as given: %+v", repo.movements[2])
	}
}
