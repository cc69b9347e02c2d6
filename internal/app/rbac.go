package app

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"hostal_ops/internal/domain"
)

// PermissionProvider is one tier of the resolution chain. Fetch returns a
// definitive matrix or an error meaning "this tier is unavailable"; the
// chain then moves on to the next tier.
type PermissionProvider interface {
	Name() string
	Fetch(ctx context.Context) (domain.PermissionMatrix, error)
}

// snapshotter is implemented by providers that can retain the last known
// good matrix (the warm-fallback tier).
type snapshotter interface {
	Store(m domain.PermissionMatrix) error
}

// PermissionResolver resolves role -> module access through an ordered
// provider chain (store, snapshot file, built-in defaults) and memoizes the
// winning matrix for a TTL. Refresh discards the memo; tests inject `now`
// to control staleness.
type PermissionResolver struct {
	providers []PermissionProvider
	ttl       time.Duration
	now       func() time.Time

	mu        sync.RWMutex
	matrix    domain.PermissionMatrix
	fetchedAt time.Time
}

func NewPermissionResolver(ttl time.Duration, providers ...PermissionProvider) *PermissionResolver {
	return &PermissionResolver{providers: providers, ttl: ttl, now: time.Now}
}

// SetClock overrides the resolver's time source. Test hook.
func (r *PermissionResolver) SetClock(now func() time.Time) { r.now = now }

// Allowed reports whether a role may use a module. Admin is never locked
// out, even by a broken matrix row.
func (r *PermissionResolver) Allowed(ctx context.Context, role, module string) bool {
	if role == domain.RoleAdmin {
		return true
	}
	m := r.current(ctx)
	mods, ok := m[role]
	if !ok {
		return false
	}
	return mods[module]
}

// Matrix returns a copy of the active matrix.
func (r *PermissionResolver) Matrix(ctx context.Context) domain.PermissionMatrix {
	return r.current(ctx).Clone()
}

// Refresh drops the memoized matrix and re-runs the chain.
func (r *PermissionResolver) Refresh(ctx context.Context) {
	r.mu.Lock()
	r.matrix = nil
	r.fetchedAt = time.Time{}
	r.mu.Unlock()
	r.current(ctx)
}

func (r *PermissionResolver) current(ctx context.Context) domain.PermissionMatrix {
	r.mu.RLock()
	if r.matrix != nil && r.now().Sub(r.fetchedAt) < r.ttl {
		m := r.matrix
		r.mu.RUnlock()
		return m
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.matrix != nil && r.now().Sub(r.fetchedAt) < r.ttl {
		return r.matrix
	}

	for i, p := range r.providers {
		m, err := p.Fetch(ctx)
		if err != nil {
			log.Warn().Str("provider", p.Name()).Err(err).Msg("permission tier unavailable")
			continue
		}
		r.matrix = m
		r.fetchedAt = r.now()
		// Warm the fallback tiers below the one that answered.
		for _, later := range r.providers[i+1:] {
			if s, ok := later.(snapshotter); ok {
				if serr := s.Store(m); serr != nil {
					log.Warn().Err(serr).Msg("permission snapshot write failed")
				}
			}
		}
		return r.matrix
	}

	// Every tier failed and nothing memoized: fall back to defaults but do
	// not memoize, so a recovering store is picked up on the next call.
	log.Error().Msg("all permission tiers unavailable, using defaults")
	return DefaultPermissions()
}

// StorePermissions is the primary tier, backed by the permissions table.
type StorePermissions struct{ Repo domain.PermissionRepository }

func (p StorePermissions) Name() string { return "store" }

func (p StorePermissions) Fetch(ctx context.Context) (domain.PermissionMatrix, error) {
	return p.Repo.LoadPermissions(ctx)
}

// SnapshotPermissions is the warm-fallback tier: a local JSON copy of the
// last matrix successfully fetched from the store.
type SnapshotPermissions struct{ Path string }

func (p SnapshotPermissions) Name() string { return "snapshot" }

func (p SnapshotPermissions) Fetch(_ context.Context) (domain.PermissionMatrix, error) {
	b, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, err
	}
	var m domain.PermissionMatrix
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (p SnapshotPermissions) Store(m domain.PermissionMatrix) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(p.Path, b, 0o600)
}

// DefaultsPermissions is the terminal tier; it never fails.
type DefaultsPermissions struct{}

func (DefaultsPermissions) Name() string { return "defaults" }

func (DefaultsPermissions) Fetch(_ context.Context) (domain.PermissionMatrix, error) {
	return DefaultPermissions(), nil
}

// DefaultPermissions is the hardcoded matrix used when no other tier
// answers. gestor runs the day-to-day modules; limpieza only sees the
// cleaning board.
func DefaultPermissions() domain.PermissionMatrix {
	all := func() map[string]bool {
		return map[string]bool{
			domain.ModuleBookings: true,
			domain.ModuleCleaning: true,
			domain.ModuleLoans:    true,
			domain.ModuleStock:    true,
			domain.ModuleStaff:    true,
			domain.ModulePayments: true,
			domain.ModuleRoles:    true,
		}
	}
	gestor := all()
	gestor[domain.ModuleRoles] = false
	return domain.PermissionMatrix{
		domain.RoleAdmin:  all(),
		domain.RoleGestor: gestor,
		domain.RoleLimpieza: {
			domain.ModuleCleaning: true,
		},
	}
}
