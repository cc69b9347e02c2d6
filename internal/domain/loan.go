package domain

import "time"

// Loan transaction states. Cancelled transactions are kept for audit but
// never contribute to balances.
const (
	EstadoPendiente = "pendiente"
	EstadoPagado    = "pagado"
	EstadoCancelado = "cancelado"
)

// LoanTransaction records a directional loan/transfer between two hotels:
// HotelOrigen lent (is owed), HotelDestino borrowed (owes).
type LoanTransaction struct {
	ID           string
	HotelOrigen  string
	HotelDestino string
	Valor        float64
	Estado       string
	Concepto     string
	Fecha        time.Time
}

// CounterpartNet is a netted position against a single counterpart hotel.
type CounterpartNet struct {
	Hotel string
	Net   float64
}

// HotelBalance is a hotel's total position after pairwise netting. For any
// counterpart, the hotel appears in at most one of AcreedorDe/DeudorDe.
type HotelBalance struct {
	Hotel      string
	Acreedor   float64
	Deudor     float64
	Balance    float64
	AcreedorDe []CounterpartNet
	DeudorDe   []CounterpartNet
}
