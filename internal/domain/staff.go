package domain

import "time"

type Employee struct {
	ID             string
	Nombre         string
	Hotel          string
	Puesto         string
	SalarioMensual float64
	FechaAlta      time.Time
	Activo         bool
}

// ServicePayment is a payment for an external service or to an employee,
// attributed to one hotel. EmpleadoID is nil for non-payroll payments.
type ServicePayment struct {
	ID         string
	Hotel      string
	Concepto   string
	Importe    float64
	Fecha      time.Time
	EmpleadoID *string
	Notas      string
}

// MonthlySummary buckets payments by calendar month ("2006-01").
type MonthlySummary struct {
	Month   string
	Total   float64
	Count   int
	Average float64
}
