package domain

import "time"

// Stock movement types. Cantidad is stored signed: positive for entrada and
// upward ajuste, negative for salida.
const (
	MovEntrada = "entrada"
	MovSalida  = "salida"
	MovAjuste  = "ajuste"
)

type StockItem struct {
	ID        string
	Hotel     string
	Nombre    string
	Categoria string
	Unidad    string
	MinLevel  float64
}

type StockMovement struct {
	ID       string
	ItemID   string
	Tipo     string
	Cantidad float64
	Fecha    time.Time
	Notas    string
	Usuario  string
}

// StockLevel is the derived current level of one item (sum of movements).
type StockLevel struct {
	Item     StockItem
	Level    float64
	BelowMin bool
}
