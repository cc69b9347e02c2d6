package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"hostal_ops/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInactiveAccount    = errors.New("auth: account inactive")
	ErrThrottled          = errors.New("auth: too many login attempts")
)

type claims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

// TokenManager issues and validates HS256 access tokens backed by the users
// table. Login attempts are rate limited process-wide; credential stuffing
// against a back office with a handful of real users has no legitimate
// traffic pattern above a few attempts per second.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	users  domain.UserRepository
	rl     *rate.Limiter
}

func New(secret string, ttl time.Duration, users domain.UserRepository) *TokenManager {
	if secret == "" {
		secret = "dev-change-me"
		log.Warn().Msg("AUTH_SECRET is empty, using dev default")
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
		rl:     rate.NewLimiter(rate.Limit(5), 10),
	}
}

func (m *TokenManager) Login(ctx context.Context, username, password string) (string, domain.Actor, time.Time, error) {
	if !m.rl.Allow() {
		return "", domain.Actor{}, time.Time{}, ErrThrottled
	}
	username = strings.TrimSpace(username)

	u, err := m.users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.Actor{}, time.Time{}, ErrInvalidCredentials
		}
		return "", domain.Actor{}, time.Time{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", domain.Actor{}, time.Time{}, ErrInvalidCredentials
	}
	if !u.Active {
		return "", domain.Actor{}, time.Time{}, ErrInactiveAccount
	}

	expiresAt := time.Now().UTC().Add(m.ttl)
	tok, err := m.sign(u.Username, u.Role, expiresAt)
	if err != nil {
		return "", domain.Actor{}, time.Time{}, err
	}
	return tok, domain.Actor{Username: u.Username, Role: u.Role}, expiresAt, nil
}

func (m *TokenManager) Parse(tokenStr string) (domain.Actor, error) {
	c := &claims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, c, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Actor{}, ErrInvalidCredentials
	}
	sub, err := c.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, ErrInvalidCredentials
	}
	return domain.Actor{Username: sub, Role: c.Role}, nil
}

func (m *TokenManager) sign(username, role string, expiresAt time.Time) (string, error) {
	c := claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "hostal_ops",
		},
		Role: role,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return token.SignedString(m.secret)
}

// EnsureAdmin creates the bootstrap admin account when the users table does
// not have it yet. Called once at startup.
func (m *TokenManager) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := m.users.GetUser(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	log.Info().Str("user", username).Msg("creating bootstrap admin account")
	return m.users.UpsertUser(ctx, domain.UserAccount{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
	})
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}
