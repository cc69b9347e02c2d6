package mysql

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const upsertBookingSQL = `
INSERT INTO bookings
  (id, hotel, apartment, pax, check_in, check_out, notes)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotel      = VALUES(hotel),
  apartment  = VALUES(apartment),
  pax        = VALUES(pax),
  check_in   = VALUES(check_in),
  check_out  = VALUES(check_out),
  notes      = VALUES(notes),
  updated_at = CURRENT_TIMESTAMP
`

const getBookingSQL = `
SELECT id, hotel, apartment, pax, check_in, check_out, notes
FROM bookings
WHERE id = ?
`

// Overlap test: a stay [check_in, check_out] intersects the window when it
// starts before the window ends and ends after the window starts.
const listBookingsSQL = `
SELECT id, hotel, apartment, pax, check_in, check_out, notes
FROM bookings
WHERE hotel = ? AND check_in <= ? AND check_out >= ?
ORDER BY check_in, apartment
`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

// -----------------------------------------------------------------------------
// CLEANING SCHEDULE
// -----------------------------------------------------------------------------

// Keyed on (booking_id, date, day_type) so re-generation updates in place.
// The id column keeps its original value on conflict; completion state is
// owned by the toggle path, not by regeneration.
const insertScheduleRowsPrefix = `
INSERT INTO cleaning_schedule
  (id, booking_id, hotel, apartment, date, day_type, cleaning_type)
VALUES `

const insertScheduleRowsOnDup = `
ON DUPLICATE KEY UPDATE
  hotel         = VALUES(hotel),
  apartment     = VALUES(apartment),
  cleaning_type = VALUES(cleaning_type)
`

// Rows joined to their booking; booking columns are nullable because the
// booking may have been deleted after generation.
const listScheduleRowsSQL = `
SELECT
  s.id,
  s.booking_id,
  s.hotel,
  s.apartment,
  s.date,
  s.day_type,
  s.cleaning_type,
  s.is_completed,
  b.pax,
  b.check_in,
  b.check_out,
  b.notes
FROM cleaning_schedule s
LEFT JOIN bookings b ON b.id = s.booking_id
WHERE s.hotel = ? AND s.date = ?
ORDER BY s.apartment, s.day_type
`

const deleteScheduleRowsSQL = `DELETE FROM cleaning_schedule WHERE booking_id = ?`

// -----------------------------------------------------------------------------
// LOANS
// -----------------------------------------------------------------------------

const upsertLoanSQL = `
INSERT INTO loans
  (id, hotel_origen, hotel_destino, valor, estado, concepto, fecha)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotel_origen  = VALUES(hotel_origen),
  hotel_destino = VALUES(hotel_destino),
  valor         = VALUES(valor),
  estado        = VALUES(estado),
  concepto      = VALUES(concepto),
  fecha         = VALUES(fecha)
`

const setLoanEstadoSQL = `UPDATE loans SET estado = ? WHERE id = ?`

const deleteLoanSQL = `DELETE FROM loans WHERE id = ?`

const listLoansSQL = `
SELECT id, hotel_origen, hotel_destino, valor, estado, concepto, fecha
FROM loans
ORDER BY fecha DESC, id
`

// -----------------------------------------------------------------------------
// STOCK
// -----------------------------------------------------------------------------

const upsertStockItemSQL = `
INSERT INTO stock_items
  (id, hotel, nombre, categoria, unidad, min_level)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotel     = VALUES(hotel),
  nombre    = VALUES(nombre),
  categoria = VALUES(categoria),
  unidad    = VALUES(unidad),
  min_level = VALUES(min_level)
`

const deleteStockItemSQL = `DELETE FROM stock_items WHERE id = ?`

const listStockItemsSQL = `
SELECT id, hotel, nombre, categoria, unidad, min_level
FROM stock_items
WHERE hotel = ?
ORDER BY nombre
`

const insertStockMovementSQL = `
INSERT INTO stock_movements
  (id, item_id, tipo, cantidad, fecha, notas, usuario)
VALUES
  (?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP), ?, ?)
`

const listStockMovementsSQL = `
SELECT id, item_id, tipo, cantidad, fecha, notas, usuario
FROM stock_movements
WHERE item_id = ?
ORDER BY fecha DESC, id
`

const sumStockMovementsSQL = `
SELECT m.item_id, COALESCE(SUM(m.cantidad), 0)
FROM stock_movements m
JOIN stock_items i ON i.id = m.item_id
WHERE i.hotel = ?
GROUP BY m.item_id
`

// -----------------------------------------------------------------------------
// STAFF & PAYMENTS
// -----------------------------------------------------------------------------

const upsertEmployeeSQL = `
INSERT INTO employees
  (id, nombre, hotel, puesto, salario_mensual, fecha_alta, activo)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  nombre          = VALUES(nombre),
  hotel           = VALUES(hotel),
  puesto          = VALUES(puesto),
  salario_mensual = VALUES(salario_mensual),
  fecha_alta      = VALUES(fecha_alta),
  activo          = VALUES(activo)
`

const deleteEmployeeSQL = `DELETE FROM employees WHERE id = ?`

const listEmployeesSQL = `
SELECT id, nombre, hotel, puesto, salario_mensual, fecha_alta, activo
FROM employees
WHERE hotel = ?
ORDER BY nombre
`

const upsertPaymentSQL = `
INSERT INTO service_payments
  (id, hotel, concepto, importe, fecha, empleado_id, notas)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotel       = VALUES(hotel),
  concepto    = VALUES(concepto),
  importe     = VALUES(importe),
  fecha       = VALUES(fecha),
  empleado_id = VALUES(empleado_id),
  notas       = VALUES(notas)
`

const deletePaymentSQL = `DELETE FROM service_payments WHERE id = ?`

const listPaymentsSQL = `
SELECT id, hotel, concepto, importe, fecha, empleado_id, notas
FROM service_payments
WHERE hotel = ? AND fecha >= ? AND fecha <= ?
ORDER BY fecha, id
`

// -----------------------------------------------------------------------------
// PERMISSIONS & USERS
// -----------------------------------------------------------------------------

const listPermissionsSQL = `SELECT role, module, allowed FROM permissions`

const upsertPermissionSQL = `
INSERT INTO permissions (role, module, allowed)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE allowed = VALUES(allowed)
`

const deletePermissionsSQL = `DELETE FROM permissions`

const upsertUserSQL = `
INSERT INTO users (username, password_hash, role, active)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  password_hash = VALUES(password_hash),
  role          = VALUES(role),
  active        = VALUES(active)
`

const getUserSQL = `
SELECT username, password_hash, role, active, created_at
FROM users
WHERE username = ?
`

const listUsersSQL = `
SELECT username, password_hash, role, active, created_at
FROM users
ORDER BY username
`
