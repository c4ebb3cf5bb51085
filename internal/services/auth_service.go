package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"posbackend/internal/caching"
	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService issues and verifies bearer tokens for master-database users.
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	ValidateToken(tokenString string) (*TokenClaims, error)
	Authenticate(ctx context.Context, tokenString string) (*models.Principal, error)
}

// TokenClaims is the JWT payload. UserID falls back to the subject claim
// for tokens minted by an external identity provider.
type TokenClaims struct {
	UserID   int64 `json:"userId"`
	TenantID int64 `json:"tenantId,omitempty"`
	jwt.RegisteredClaims
}

// AuthOptions configures token handling. JWKS, when set, verifies
// asymmetrically signed tokens; HMAC tokens are always checked against
// Secret.
type AuthOptions struct {
	Secret        string
	TokenTTL      time.Duration
	JWKS          jwt.Keyfunc
	LoginAttempts int
	LoginWindow   time.Duration
}

type authService struct {
	userRepo repositories.UserRepository
	cacheSvc caching.CacheService
	hasher   PasswordHasher
	opts     AuthOptions
	logger   *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, hasher PasswordHasher,
	opts AuthOptions, logger *slog.Logger) AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 12 * time.Hour
	}
	return &authService{
		userRepo: userRepo,
		cacheSvc: cacheSvc,
		hasher:   hasher,
		opts:     opts,
		logger:   logger,
	}
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, common.NewValidationError("username and password are required")
	}

	if s.opts.LoginAttempts > 0 {
		limited, err := s.cacheSvc.IsRateLimited(ctx, "login:"+strings.ToLower(username), s.opts.LoginAttempts, s.opts.LoginWindow)
		if err != nil {
			s.logger.Warn("login rate limit check failed", slog.String("error", err.Error()))
		} else if limited {
			return nil, common.ErrTooManyRequests
		}
	}

	user, err := s.userRepo.GetActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.logger.Info("login rejected", slog.String("username", username))
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}

	now := time.Now()
	expiresAt := now.Add(s.opts.TokenTTL)
	claims := TokenClaims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("login succeeded", slog.Int64("user_id", user.ID), slog.Int64("tenant_id", user.TenantID))
	return &models.TokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		TenantID:  user.TenantID,
	}, nil
}

func (s *authService) keyFor(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		if s.opts.Secret == "" {
			return nil, errors.New("hmac tokens are not accepted")
		}
		return []byte(s.opts.Secret), nil
	}
	if s.opts.JWKS != nil {
		return s.opts.JWKS(token)
	}
	return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
}

func (s *authService) ValidateToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFor, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", common.ErrUnauthorized)
	}
	if claims.UserID == 0 {
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: token carries no user id", common.ErrUnauthorized)
		}
		claims.UserID = id
	}
	return claims, nil
}

// Authenticate verifies the token and loads the active user it names. The
// tenant comes from the user row, not from the token.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.Principal, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetActiveByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: user not found or inactive", common.ErrUnauthorized)
		}
		return nil, err
	}
	return &models.Principal{UserID: user.ID, Username: user.Username, TenantID: user.TenantID}, nil
}
