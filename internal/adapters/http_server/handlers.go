package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hostal_ops/internal/adapters/auth"
	"hostal_ops/internal/adapters/observability"
	"hostal_ops/internal/app"
	"hostal_ops/internal/domain"
)

type Handlers struct {
	Auth      *auth.TokenManager
	Perms     *app.PermissionResolver
	Plan      *app.PlanService
	Loans     *app.LoanService
	Stock     *app.StockService
	Staff     *app.StaffService
	PermStore domain.PermissionRepository
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return false
	}
	return true
}

func queryDate(r *http.Request, key string) (time.Time, error) {
	return time.Parse("2006-01-02", r.URL.Query().Get(key))
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/auth/login", h.login)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(Authenticate(h.Auth))

		r.Route("/bookings", func(r chi.Router) {
			r.Use(RequireModule(h.Perms, domain.ModuleBookings))
			r.Get("/", h.listBookings)
			r.Put("/", h.saveBooking)
			r.Delete("/{id}", h.deleteBooking)
		})

		r.Route("/cleaning", func(r chi.Router) {
			r.Use(RequireModule(h.Perms, domain.ModuleCleaning))
			r.Get("/", h.cleaningPlan)
			r.Post("/toggle", h.toggleCleaning)
			r.Post("/generate", h.generateCleaning)
		})

		r.Route("/loans", func(r chi.Router) {
			r.Use(RequireModule(h.Perms, domain.ModuleLoans))
			r.Get("/", h.listLoans)
			r.Put("/", h.saveLoan)
			r.Get("/balances", h.loanBalances)
			r.Post("/{id}/estado", h.setLoanEstado)
			r.Delete("/{id}", h.deleteLoan)
		})

		r.Route("/stock", func(r chi.Router) {
			r.Use(RequireModule(h.Perms, domain.ModuleStock))
			r.Get("/", h.stockLevels)
			r.Put("/items", h.saveStockItem)
			r.Delete("/items/{id}", h.deleteStockItem)
			r.Get("/items/{id}/movements", h.listStockMovements)
			r.Post("/movements", h.recordStockMovement)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(RequireModule(h.Perms, domain.ModuleStaff))
			r.Get("/", h.listEmployees)
			r.Put("/", h.saveEmployee)
			r.Delete("/{id}", h.deleteEmployee)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(RequireModule(h.Perms, domain.ModulePayments))
			r.Get("/", h.listPayments)
			r.Put("/", h.savePayment)
			r.Delete("/{id}", h.deletePayment)
		})
		r.With(RequireModule(h.Perms, domain.ModulePayments)).
			Get("/payroll/summary", h.payrollSummary)

		r.Route("/roles", func(r chi.Router) {
			r.Use(RequireModule(h.Perms, domain.ModuleRoles))
			r.Get("/", h.getPermissions)
			r.Put("/", h.savePermissions)
			r.Post("/refresh", h.refreshPermissions)
		})
	})
}

// ---- auth ----

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	tok, actor, expires, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrThrottled):
		writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "retry later")
		return
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInactiveAccount):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
		return
	case err != nil:
		writeProblem(w, http.StatusInternalServerError, "Internal", "login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": tok,
		"role":         actor.Role,
		"expires_at":   expires.Format(time.RFC3339),
	})
}

// ---- bookings ----

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	hotel := r.URL.Query().Get("hotel")
	from, err1 := queryDate(r, "from")
	to, err2 := queryDate(r, "to")
	if hotel == "" || err1 != nil || err2 != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "hotel, from and to (YYYY-MM-DD) are required")
		return
	}
	out, err := h.Plan.ListBookings(r.Context(), hotel, from, to)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "list bookings failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) saveBooking(w http.ResponseWriter, r *http.Request) {
	var b domain.Booking
	if !decode(w, r, &b) {
		return
	}
	if b.Hotel == "" || b.Apartment == "" || b.CheckOut.Before(b.CheckIn) {
		writeProblem(w, http.StatusBadRequest, "Invalid booking", "hotel, apartment and a valid stay range are required")
		return
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if err := h.Plan.SaveBooking(r.Context(), b); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "save booking failed")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	err := h.Plan.DeleteBooking(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "booking not found")
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "delete booking failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- cleaning ----

func (h *Handlers) cleaningPlan(w http.ResponseWriter, r *http.Request) {
	hotel := r.URL.Query().Get("hotel")
	date, err := queryDate(r, "date")
	if hotel == "" || err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "hotel and date (YYYY-MM-DD) are required")
		return
	}
	start := time.Now()
	plan, err := h.Plan.PlanForDate(r.Context(), hotel, date)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "build cleaning plan failed")
		return
	}
	observability.ObserveCompute("cleaning_plan", time.Since(start))
	writeCacheable(w, r, plan)
}

func (h *Handlers) toggleCleaning(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hotel     string   `json:"hotel"`
		Date      string   `json:"date"`
		IDs       []string `json:"ids"`
		Completed bool     `json:"completed"`
	}
	if !decode(w, r, &req) {
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil || len(req.IDs) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid toggle", "date and a non-empty ids list are required")
		return
	}
	if err := h.Plan.ToggleCompletion(r.Context(), req.Hotel, date, req.IDs, req.Completed); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "toggle failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) generateCleaning(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hotel string `json:"hotel"`
		From  string `json:"from"`
		To    string `json:"to"`
	}
	if !decode(w, r, &req) {
		return
	}
	from, err1 := time.Parse("2006-01-02", req.From)
	to, err2 := time.Parse("2006-01-02", req.To)
	if req.Hotel == "" || err1 != nil || err2 != nil || to.Before(from) {
		writeProblem(w, http.StatusBadRequest, "Invalid range", "hotel and a valid from/to range are required")
		return
	}
	n, err := h.Plan.GenerateForRange(r.Context(), req.Hotel, from, to)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "generate failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"rows": n})
}

// ---- loans ----

func (h *Handlers) listLoans(w http.ResponseWriter, r *http.Request) {
	out, err := h.Loans.List(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "list loans failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) saveLoan(w http.ResponseWriter, r *http.Request) {
	var t domain.LoanTransaction
	if !decode(w, r, &t) {
		return
	}
	if t.HotelOrigen == "" || t.HotelDestino == "" || t.HotelOrigen == t.HotelDestino {
		writeProblem(w, http.StatusBadRequest, "Invalid loan", "two distinct hotels are required")
		return
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Fecha.IsZero() {
		t.Fecha = time.Now().UTC()
	}
	if err := h.Loans.Save(r.Context(), t); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "save loan failed")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) setLoanEstado(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Estado string `json:"estado"`
	}
	if !decode(w, r, &req) {
		return
	}
	switch req.Estado {
	case domain.EstadoPendiente, domain.EstadoPagado, domain.EstadoCancelado:
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid estado", "estado must be pendiente, pagado or cancelado")
		return
	}
	err := h.Loans.SetEstado(r.Context(), chi.URLParam(r, "id"), req.Estado)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "loan not found")
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "update estado failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := h.Loans.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "delete loan failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) loanBalances(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	out, err := h.Loans.Balances(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "compute balances failed")
		return
	}
	observability.ObserveCompute("balances", time.Since(start))
	writeCacheable(w, r, out)
}

// ---- stock ----

func (h *Handlers) stockLevels(w http.ResponseWriter, r *http.Request) {
	hotel := r.URL.Query().Get("hotel")
	if hotel == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "hotel is required")
		return
	}
	out, err := h.Stock.Levels(r.Context(), hotel)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "stock levels failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) saveStockItem(w http.ResponseWriter, r *http.Request) {
	var it domain.StockItem
	if !decode(w, r, &it) {
		return
	}
	if it.Hotel == "" || it.Nombre == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid item", "hotel and nombre are required")
		return
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if err := h.Stock.SaveItem(r.Context(), it); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "save item failed")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handlers) deleteStockItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Stock.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "delete item failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listStockMovements(w http.ResponseWriter, r *http.Request) {
	out, err := h.Stock.Movements(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "list movements failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) recordStockMovement(w http.ResponseWriter, r *http.Request) {
	var m domain.StockMovement
	if !decode(w, r, &m) {
		return
	}
	if m.ItemID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid movement", "item id is required")
		return
	}
	switch m.Tipo {
	case domain.MovEntrada, domain.MovSalida, domain.MovAjuste:
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid movement", "tipo must be entrada, salida or ajuste")
		return
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if actor, ok := ActorFrom(r.Context()); ok && m.Usuario == "" {
		m.Usuario = actor.Username
	}
	if err := h.Stock.Record(r.Context(), m); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "record movement failed")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ---- staff & payments ----

func (h *Handlers) listEmployees(w http.ResponseWriter, r *http.Request) {
	hotel := r.URL.Query().Get("hotel")
	if hotel == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "hotel is required")
		return
	}
	out, err := h.Staff.ListEmployees(r.Context(), hotel)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "list employees failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) saveEmployee(w http.ResponseWriter, r *http.Request) {
	var e domain.Employee
	if !decode(w, r, &e) {
		return
	}
	if e.Hotel == "" || e.Nombre == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid employee", "hotel and nombre are required")
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := h.Staff.SaveEmployee(r.Context(), e); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "save employee failed")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handlers) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Staff.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "delete employee failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listPayments(w http.ResponseWriter, r *http.Request) {
	hotel := r.URL.Query().Get("hotel")
	from, err1 := queryDate(r, "from")
	to, err2 := queryDate(r, "to")
	if hotel == "" || err1 != nil || err2 != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "hotel, from and to are required")
		return
	}
	out, err := h.Staff.ListPayments(r.Context(), hotel, from, to)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "list payments failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) savePayment(w http.ResponseWriter, r *http.Request) {
	var p domain.ServicePayment
	if !decode(w, r, &p) {
		return
	}
	if p.Hotel == "" || p.Concepto == "" || p.Fecha.IsZero() {
		writeProblem(w, http.StatusBadRequest, "Invalid payment", "hotel, concepto and fecha are required")
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := h.Staff.SavePayment(r.Context(), p); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "save payment failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) deletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.Staff.DeletePayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "delete payment failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) payrollSummary(w http.ResponseWriter, r *http.Request) {
	hotel := r.URL.Query().Get("hotel")
	from, err1 := queryDate(r, "from")
	to, err2 := queryDate(r, "to")
	if hotel == "" || err1 != nil || err2 != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "hotel, from and to are required")
		return
	}
	start := time.Now()
	out, err := h.Staff.PayrollSummary(r.Context(), hotel, from, to)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "payroll summary failed")
		return
	}
	observability.ObserveCompute("payroll", time.Since(start))
	writeCacheable(w, r, out)
}

// ---- roles ----

func (h *Handlers) getPermissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Perms.Matrix(r.Context()))
}

func (h *Handlers) savePermissions(w http.ResponseWriter, r *http.Request) {
	var m domain.PermissionMatrix
	if !decode(w, r, &m) {
		return
	}
	if len(m) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid matrix", "matrix must not be empty")
		return
	}
	if err := h.PermStore.SavePermissions(r.Context(), m); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "save permissions failed")
		return
	}
	h.Perms.Refresh(r.Context())
	writeJSON(w, http.StatusOK, h.Perms.Matrix(r.Context()))
}

func (h *Handlers) refreshPermissions(w http.ResponseWriter, r *http.Request) {
	h.Perms.Refresh(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
