package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"hostal_ops/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valStrPtr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---------------------------------------------------------------------------
// Bookings
// ---------------------------------------------------------------------------

func (r *Repo) UpsertBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, upsertBookingSQL,
		b.ID, b.Hotel, b.Apartment, b.Pax, b.CheckIn, b.CheckOut, valStr(b.Notes))
	return err
}

func (r *Repo) DeleteBooking(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteBookingSQL, id)
	return err
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, getBookingSQL, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) ListBookings(ctx context.Context, hotel string, from, to time.Time) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL, hotel, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanBooking(s scanner) (domain.Booking, error) {
	var b domain.Booking
	var notes sql.NullString
	if err := s.Scan(&b.ID, &b.Hotel, &b.Apartment, &b.Pax, &b.CheckIn, &b.CheckOut, &notes); err != nil {
		return domain.Booking{}, err
	}
	b.Notes = notes.String
	return b, nil
}

// ---------------------------------------------------------------------------
// Cleaning schedule
// ---------------------------------------------------------------------------

func (r *Repo) UpsertScheduleRows(ctx context.Context, rws []domain.ScheduleRow) error {
	if len(rws) == 0 {
		return nil
	}
	values := make([]string, 0, len(rws))
	args := make([]any, 0, len(rws)*7)
	for _, row := range rws {
		values = append(values, "(?,?,?,?,?,?,?)")
		args = append(args,
			row.ID, row.BookingID, row.Hotel, row.Apartment,
			row.Date.Format("2006-01-02"), row.DayType, row.CleaningType)
	}
	sqlStr := insertScheduleRowsPrefix + strings.Join(values, ",") + insertScheduleRowsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) ListScheduleRows(ctx context.Context, hotel string, date time.Time) ([]domain.ScheduleRow, error) {
	rows, err := r.db.QueryContext(ctx, listScheduleRowsSQL, hotel, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScheduleRow
	for rows.Next() {
		var sr domain.ScheduleRow
		var pax sql.NullInt64
		var checkIn, checkOut sql.NullTime
		var notes sql.NullString
		if err := rows.Scan(
			&sr.ID, &sr.BookingID, &sr.Hotel, &sr.Apartment, &sr.Date,
			&sr.DayType, &sr.CleaningType, &sr.IsCompleted,
			&pax, &checkIn, &checkOut, &notes,
		); err != nil {
			return nil, err
		}
		// Joined booking may be gone; leave fields at their zero values.
		if pax.Valid {
			sr.Pax = int(pax.Int64)
		}
		if checkIn.Valid {
			t := checkIn.Time
			sr.CheckIn = &t
		}
		if checkOut.Valid {
			t := checkOut.Time
			sr.CheckOut = &t
		}
		sr.Notes = notes.String
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *Repo) SetCompleted(ctx context.Context, ids []string, completed bool) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, completed)
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE cleaning_schedule SET is_completed = ? WHERE id IN ("+placeholders+")",
		args...)
	return err
}

func (r *Repo) DeleteScheduleRows(ctx context.Context, bookingID string) error {
	_, err := r.db.ExecContext(ctx, deleteScheduleRowsSQL, bookingID)
	return err
}

// ---------------------------------------------------------------------------
// Loans
// ---------------------------------------------------------------------------

func (r *Repo) UpsertLoan(ctx context.Context, t domain.LoanTransaction) error {
	_, err := r.db.ExecContext(ctx, upsertLoanSQL,
		t.ID, t.HotelOrigen, t.HotelDestino, t.Valor, t.Estado,
		valStr(t.Concepto), valTime(t.Fecha))
	return err
}

func (r *Repo) SetLoanEstado(ctx context.Context, id, estado string) error {
	res, err := r.db.ExecContext(ctx, setLoanEstadoSQL, estado, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteLoan(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteLoanSQL, id)
	return err
}

func (r *Repo) ListLoans(ctx context.Context) ([]domain.LoanTransaction, error) {
	rows, err := r.db.QueryContext(ctx, listLoansSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LoanTransaction
	for rows.Next() {
		var t domain.LoanTransaction
		var concepto sql.NullString
		var fecha sql.NullTime
		if err := rows.Scan(&t.ID, &t.HotelOrigen, &t.HotelDestino, &t.Valor, &t.Estado, &concepto, &fecha); err != nil {
			return nil, err
		}
		t.Concepto = concepto.String
		t.Fecha = fecha.Time
		out = append(out, t)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Stock
// ---------------------------------------------------------------------------

func (r *Repo) UpsertItem(ctx context.Context, it domain.StockItem) error {
	_, err := r.db.ExecContext(ctx, upsertStockItemSQL,
		it.ID, it.Hotel, it.Nombre, valStr(it.Categoria), valStr(it.Unidad), it.MinLevel)
	return err
}

func (r *Repo) DeleteItem(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteStockItemSQL, id)
	return err
}

func (r *Repo) ListItems(ctx context.Context, hotel string) ([]domain.StockItem, error) {
	rows, err := r.db.QueryContext(ctx, listStockItemsSQL, hotel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StockItem
	for rows.Next() {
		var it domain.StockItem
		var categoria, unidad sql.NullString
		if err := rows.Scan(&it.ID, &it.Hotel, &it.Nombre, &categoria, &unidad, &it.MinLevel); err != nil {
			return nil, err
		}
		it.Categoria = categoria.String
		it.Unidad = unidad.String
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) AddMovement(ctx context.Context, m domain.StockMovement) error {
	_, err := r.db.ExecContext(ctx, insertStockMovementSQL,
		m.ID, m.ItemID, m.Tipo, m.Cantidad, valTime(m.Fecha), valStr(m.Notas), valStr(m.Usuario))
	return err
}

func (r *Repo) ListMovements(ctx context.Context, itemID string) ([]domain.StockMovement, error) {
	rows, err := r.db.QueryContext(ctx, listStockMovementsSQL, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		var notas, usuario sql.NullString
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Tipo, &m.Cantidad, &m.Fecha, &notas, &usuario); err != nil {
			return nil, err
		}
		m.Notas = notas.String
		m.Usuario = usuario.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) SumMovements(ctx context.Context, hotel string) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx, sumStockMovementsSQL, hotel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var itemID string
		var total float64
		if err := rows.Scan(&itemID, &total); err != nil {
			return nil, err
		}
		out[itemID] = total
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Staff & payments
// ---------------------------------------------------------------------------

func (r *Repo) UpsertEmployee(ctx context.Context, e domain.Employee) error {
	_, err := r.db.ExecContext(ctx, upsertEmployeeSQL,
		e.ID, e.Nombre, e.Hotel, valStr(e.Puesto), e.SalarioMensual, valTime(e.FechaAlta), e.Activo)
	return err
}

func (r *Repo) DeleteEmployee(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteEmployeeSQL, id)
	return err
}

func (r *Repo) ListEmployees(ctx context.Context, hotel string) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, listEmployeesSQL, hotel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		var e domain.Employee
		var puesto sql.NullString
		var alta sql.NullTime
		if err := rows.Scan(&e.ID, &e.Nombre, &e.Hotel, &puesto, &e.SalarioMensual, &alta, &e.Activo); err != nil {
			return nil, err
		}
		e.Puesto = puesto.String
		e.FechaAlta = alta.Time
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) UpsertPayment(ctx context.Context, p domain.ServicePayment) error {
	_, err := r.db.ExecContext(ctx, upsertPaymentSQL,
		p.ID, p.Hotel, p.Concepto, p.Importe, p.Fecha, valStrPtr(p.EmpleadoID), valStr(p.Notas))
	return err
}

func (r *Repo) DeletePayment(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deletePaymentSQL, id)
	return err
}

func (r *Repo) ListPayments(ctx context.Context, hotel string, from, to time.Time) ([]domain.ServicePayment, error) {
	rows, err := r.db.QueryContext(ctx, listPaymentsSQL, hotel, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ServicePayment
	for rows.Next() {
		var p domain.ServicePayment
		var empleado, notas sql.NullString
		if err := rows.Scan(&p.ID, &p.Hotel, &p.Concepto, &p.Importe, &p.Fecha, &empleado, &notas); err != nil {
			return nil, err
		}
		if empleado.Valid {
			s := empleado.String
			p.EmpleadoID = &s
		}
		p.Notas = notas.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Permissions & users
// ---------------------------------------------------------------------------

func (r *Repo) LoadPermissions(ctx context.Context) (domain.PermissionMatrix, error) {
	rows, err := r.db.QueryContext(ctx, listPermissionsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(domain.PermissionMatrix)
	for rows.Next() {
		var role, module string
		var allowed bool
		if err := rows.Scan(&role, &module, &allowed); err != nil {
			return nil, err
		}
		if m[role] == nil {
			m[role] = make(map[string]bool)
		}
		m[role][module] = allowed
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		// An unseeded table is "unavailable", not "nobody may do anything".
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// SavePermissions replaces the whole matrix in one transaction.
func (r *Repo) SavePermissions(ctx context.Context, m domain.PermissionMatrix) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deletePermissionsSQL); err != nil {
		return err
	}
	for role, mods := range m {
		for module, allowed := range mods {
			if _, err := tx.ExecContext(ctx, upsertPermissionSQL, role, module, allowed); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (r *Repo) UpsertUser(ctx context.Context, u domain.UserAccount) error {
	_, err := r.db.ExecContext(ctx, upsertUserSQL, u.Username, u.PasswordHash, u.Role, u.Active)
	return err
}

func (r *Repo) GetUser(ctx context.Context, username string) (domain.UserAccount, error) {
	row := r.db.QueryRowContext(ctx, getUserSQL, username)
	var u domain.UserAccount
	if err := row.Scan(&u.Username, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.UserAccount{}, domain.ErrNotFound
		}
		return domain.UserAccount{}, err
	}
	return u, nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := r.db.QueryContext(ctx, listUsersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserAccount
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
