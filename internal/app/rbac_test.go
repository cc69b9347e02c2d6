package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostal_ops/internal/app"
	"hostal_ops/internal/domain"
)

func gestorOnly(module string) domain.PermissionMatrix {
	return domain.PermissionMatrix{
		domain.RoleGestor: {module: true},
	}
}

func TestResolver_FirstDefinitiveTierWins(t *testing.T) {
	repo := &fakePermRepo{matrix: gestorOnly(domain.ModuleLoans)}
	r := app.NewPermissionResolver(time.Minute,
		app.StorePermissions{Repo: repo},
		app.DefaultsPermissions{},
	)

	ctx := context.Background()
	assert.True(t, r.Allowed(ctx, domain.RoleGestor, domain.ModuleLoans))
	assert.False(t, r.Allowed(ctx, domain.RoleGestor, domain.ModuleStock),
		"store matrix must win over the permissive defaults")
}

func TestResolver_FallsBackWhenStoreUnavailable(t *testing.T) {
	repo := &fakePermRepo{err: errors.New("db down")}
	r := app.NewPermissionResolver(time.Minute,
		app.StorePermissions{Repo: repo},
		app.DefaultsPermissions{},
	)

	ctx := context.Background()
	assert.True(t, r.Allowed(ctx, domain.RoleLimpieza, domain.ModuleCleaning))
	assert.False(t, r.Allowed(ctx, domain.RoleLimpieza, domain.ModuleLoans))
}

func TestResolver_AdminNeverLockedOut(t *testing.T) {
	r := app.NewPermissionResolver(time.Minute,
		app.StorePermissions{Repo: &fakePermRepo{matrix: domain.PermissionMatrix{}}},
	)
	assert.True(t, r.Allowed(context.Background(), domain.RoleAdmin, domain.ModuleRoles))
}

func TestResolver_TTLAndRefresh(t *testing.T) {
	repo := &fakePermRepo{matrix: gestorOnly(domain.ModuleLoans)}
	r := app.NewPermissionResolver(time.Minute, app.StorePermissions{Repo: repo})

	clock := day("2026-08-15")
	r.SetClock(func() time.Time { return clock })

	ctx := context.Background()
	r.Allowed(ctx, domain.RoleGestor, domain.ModuleLoans)
	r.Allowed(ctx, domain.RoleGestor, domain.ModuleLoans)
	assert.Equal(t, 1, repo.loads, "matrix must be memoized inside the TTL")

	// Matrix changes in the store; stale memo still serves until the TTL.
	repo.matrix = gestorOnly(domain.ModuleStock)
	assert.True(t, r.Allowed(ctx, domain.RoleGestor, domain.ModuleLoans))

	clock = clock.Add(2 * time.Minute)
	assert.True(t, r.Allowed(ctx, domain.RoleGestor, domain.ModuleStock))
	assert.Equal(t, 2, repo.loads)

	// Refresh forces a fetch even inside the TTL.
	repo.matrix = gestorOnly(domain.ModuleStaff)
	r.Refresh(ctx)
	assert.True(t, r.Allowed(ctx, domain.RoleGestor, domain.ModuleStaff))
}

func TestResolver_SnapshotWarmedAndUsed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.json")
	repo := &fakePermRepo{matrix: gestorOnly(domain.ModulePayments)}
	snap := app.SnapshotPermissions{Path: path}

	r := app.NewPermissionResolver(time.Minute,
		app.StorePermissions{Repo: repo},
		snap,
		app.DefaultsPermissions{},
	)
	ctx := context.Background()
	require.True(t, r.Allowed(ctx, domain.RoleGestor, domain.ModulePayments))

	// The store answer must have been written through to the snapshot file.
	_, err := os.Stat(path)
	require.NoError(t, err, "snapshot tier not warmed")

	// Store dies; a fresh resolver must serve the snapshot, not the defaults.
	r2 := app.NewPermissionResolver(time.Minute,
		app.StorePermissions{Repo: &fakePermRepo{err: errors.New("db down")}},
		snap,
		app.DefaultsPermissions{},
	)
	assert.True(t, r2.Allowed(ctx, domain.RoleGestor, domain.ModulePayments))
	assert.False(t, r2.Allowed(ctx, domain.RoleGestor, domain.ModuleLoans))
}

func TestDefaultPermissions_Shape(t *testing.T) {
	m := app.DefaultPermissions()
	assert.True(t, m[domain.RoleAdmin][domain.ModuleRoles])
	assert.False(t, m[domain.RoleGestor][domain.ModuleRoles])
	assert.True(t, m[domain.RoleLimpieza][domain.ModuleCleaning])
	assert.False(t, m[domain.RoleLimpieza][domain.ModuleStock])
}
