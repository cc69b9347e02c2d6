package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hostal_ops/internal/adapters/auth"
	"hostal_ops/internal/domain"
)

type fakeUsers struct {
	byName map[string]domain.UserAccount
}

func (f *fakeUsers) UpsertUser(_ context.Context, u domain.UserAccount) error {
	if f.byName == nil {
		f.byName = map[string]domain.UserAccount{}
	}
	f.byName[u.Username] = u
	return nil
}

func (f *fakeUsers) GetUser(_ context.Context, username string) (domain.UserAccount, error) {
	u, ok := f.byName[username]
	if !ok {
		return domain.UserAccount{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) ListUsers(context.Context) ([]domain.UserAccount, error) { return nil, nil }

func seedUser(t *testing.T, users *fakeUsers, name, pw, role string, active bool) {
	t.Helper()
	hash, err := auth.HashPassword(pw)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	_ = users.UpsertUser(context.Background(), domain.UserAccount{
		Username: name, PasswordHash: hash, Role: role, Active: active,
	})
}

func TestLogin_RoundTrip(t *testing.T) {
	users := &fakeUsers{}
	seedUser(t, users, "marta", "s3creto", domain.RoleGestor, true)
	m := auth.New("test-secret", time.Hour, users)

	tok, actor, expires, err := m.Login(context.Background(), "marta", "s3creto")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if actor.Role != domain.RoleGestor || tok == "" || !expires.After(time.Now()) {
		t.Fatalf("unexpected login result: %+v %v", actor, expires)
	}

	parsed, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Username != "marta" || parsed.Role != domain.RoleGestor {
		t.Fatalf("claims mangled: %+v", parsed)
	}
}

func TestLogin_Failures(t *testing.T) {
	users := &fakeUsers{}
	seedUser(t, users, "marta", "s3creto", domain.RoleGestor, true)
	seedUser(t, users, "baja", "pw", domain.RoleLimpieza, false)
	m := auth.New("test-secret", time.Hour, users)
	ctx := context.Background()

	if _, _, _, err := m.Login(ctx, "marta", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("wrong password: %v", err)
	}
	if _, _, _, err := m.Login(ctx, "nadie", "pw"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("unknown user: %v", err)
	}
	if _, _, _, err := m.Login(ctx, "baja", "pw"); !errors.Is(err, auth.ErrInactiveAccount) {
		t.Errorf("inactive user: %v", err)
	}
}

func TestParse_RejectsForgedToken(t *testing.T) {
	users := &fakeUsers{}
	seedUser(t, users, "marta", "s3creto", domain.RoleGestor, true)

	signer := auth.New("secret-a", time.Hour, users)
	verifier := auth.New("secret-b", time.Hour, users)

	tok, _, _, err := signer.Login(context.Background(), "marta", "s3creto")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := verifier.Parse(tok); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestEnsureAdmin_CreatesOnce(t *testing.T) {
	users := &fakeUsers{}
	m := auth.New("test-secret", time.Hour, users)
	ctx := context.Background()

	if err := m.EnsureAdmin(ctx, "admin", "bootpw"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	u, err := users.GetUser(ctx, "admin")
	if err != nil || u.Role != domain.RoleAdmin || !u.Active {
		t.Fatalf("admin not created: %+v %v", u, err)
	}

	// second call must not overwrite the stored hash
	first := u.PasswordHash
	if err := m.EnsureAdmin(ctx, "admin", "otherpw"); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	u2, _ := users.GetUser(ctx, "admin")
	if u2.PasswordHash != first {
		t.Fatal("EnsureAdmin must be a no-op when the account exists")
	}
}
