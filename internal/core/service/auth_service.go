package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
	"github.com/streamshare/subscription-manager/internal/pkg/metrics"
)

const defaultSessionTTL = 7 * 24 * time.Hour

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements the admin login gate. Sessions are signed JWTs whose
// jti must also be present in the session store, so logout revokes them.
type AuthService struct {
	sessions     ports.SessionStore
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	log          zerolog.Logger
	now          func() time.Time
}

func NewAuthService(passwordHash []byte, sessions ports.SessionStore, secret string, ttl time.Duration, log zerolog.Logger) *AuthService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		sessions:     sessions,
		passwordHash: passwordHash,
		secret:       []byte(secret),
		ttl:          ttl,
		log:          log,
		now:          time.Now,
	}
}

// HashAdminPassword returns the bcrypt hash used by NewAuthService.
func HashAdminPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("admin password is empty")
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (s *AuthService) Login(ctx context.Context, password string) (string, *domain.Session, error) {
	if password == "" || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
		metrics.AdminLoginsTotal.WithLabelValues("failure").Inc()
		s.log.Warn().Msg("admin login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Role:      domain.RoleAdmin,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Save(ctx, session.ID, s.ttl); err != nil {
		return "", nil, fmt.Errorf("login: save session: %w", err)
	}

	token, err := s.sign(session, now)
	if err != nil {
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}

	metrics.AdminLoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("session_id", session.ID).Msg("admin logged in")
	return token, session, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	// Expired tokens still carry the id worth removing.
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("session_id", claims.ID).Msg("admin logged out")
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionRequired
	}

	claims, err := s.parse(token, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || claims.ID == "" || claims.Role != domain.RoleAdmin {
		return nil, domain.ErrSessionRequired
	}

	live, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !live {
		return nil, domain.ErrSessionRequired
	}

	return &domain.Session{
		ID:        claims.ID,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *AuthService) sign(session *domain.Session, now time.Time) (string, error) {
	claims := sessionClaims{
		Role: session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) parse(token string, opts ...jwt.ParserOption) (*sessionClaims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrSessionRequired
	}
	return claims, nil
}
