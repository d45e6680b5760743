// Package auth registers users and issues bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-labs/blog-server/internal/app/domain/user"
	"github.com/inkwell-labs/blog-server/internal/app/storage"
	apperrors "github.com/inkwell-labs/blog-server/internal/errors"
	"github.com/inkwell-labs/blog-server/pkg/logger"
)

// DefaultTokenTTL matches the 24-hour expiry of issued tokens.
const DefaultTokenTTL = 24 * time.Hour

// Claims are embedded in every issued token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Session is the result of a successful login.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Service manages registration and login against the user store.
type Service struct {
	users    storage.UserStore
	secret   []byte
	tokenTTL time.Duration
	log      *logger.Logger
}

// Option customises service construction.
type Option func(*Service)

// WithTokenTTL overrides the default token lifetime. Non-positive values are
// ignored.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// New constructs an auth service. The secret signs issued tokens and must be
// stable for the process lifetime.
func New(users storage.UserStore, secret []byte, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	s := &Service{users: users, secret: secret, tokenTTL: DefaultTokenTTL, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register hashes the password and persists a new user. Duplicate usernames
// and emails are rejected with a Conflict before the write where possible;
// the store's uniqueness constraint remains the source of truth.
func (s *Service) Register(ctx context.Context, username, email, password string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return "", apperrors.Validation("username, email and password are required")
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return "", apperrors.Conflict("username already taken")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", apperrors.Internal("lookup username", err)
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return "", apperrors.Conflict("email already registered")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", apperrors.Internal("lookup email", err)
	}

	// bcrypt.DefaultCost is 10 rounds.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Internal("hash password", err)
	}

	created, err := s.users.CreateUser(ctx, user.User{Username: username, Email: email, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return "", apperrors.Conflict("username or email already taken")
		}
		return "", apperrors.Internal("create user", err)
	}

	s.log.WithField("user_id", created.ID).WithField("username", username).Info("user registered")
	return created.ID, nil
}

// Login verifies the credentials and issues a signed bearer token carrying
// the user id, valid for the configured lifetime. Unknown usernames and wrong
// passwords yield the same error.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, apperrors.InvalidCredentials()
		}
		return Session{}, apperrors.Internal("lookup user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, apperrors.InvalidCredentials()
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return Session{}, apperrors.Internal("sign token", err)
	}

	s.log.WithField("user_id", u.ID).Info("user logged in")
	return Session{Token: token, Username: u.Username}, nil
}

func (s *Service) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "blog-server",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a bearer token against the signing secret and returns
// its claims.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
