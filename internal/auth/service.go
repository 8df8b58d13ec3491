package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/compassremodeling/cms/pkg"

	log "github.com/sirupsen/logrus"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenTTL is how long an issued login token stays valid.
const TokenTTL = 8 * time.Hour

type adminsRepo interface {
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	Insert(ctx context.Context, admin *AdminUser) (string, error)
}

type Service struct {
	repo   adminsRepo
	hasher *Hasher
	codec  *TokenCodec
	// ability to inject time for unit testing token expiry claims
	NowFunc func() time.Time
}

func NewService(repo adminsRepo, hasher *Hasher, codec *TokenCodec) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		codec:   codec,
		NowFunc: time.Now,
	}
}

// Login checks the given credentials and issues a signed token with the
// admin email as subject. Unknown email and wrong password produce the same
// ErrInvalidCredentials, so valid emails cannot be enumerated.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get admin by email: %w", err)
	}

	if !s.hasher.Check(password, admin.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	exp := s.NowFunc().UTC().Add(TokenTTL).Unix()
	token, err := s.codec.Sign(Claims{
		"sub": admin.Email,
		"exp": exp,
	})
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

// EnsureDefaultAdmin seeds the default admin credential if not present yet.
// Idempotent; when two instances race on startup, the unique email index makes
// the loser's insert a no-op.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, email, password, name string) error {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrAdminNotFound) {
		return fmt.Errorf("check existing admin: %w", err)
	}

	if _, err := s.repo.Insert(ctx, &AdminUser{
		Email:        email,
		PasswordHash: s.hasher.Hash(password),
		Name:         name,
		Role:         "admin",
		Active:       true,
	}); err != nil {
		if pkg.IsUniqueViolationError(err) {
			log.Warnf("default admin %s already seeded by another instance", email)
			return nil
		}
		return fmt.Errorf("insert default admin: %w", err)
	}

	log.Printf("default admin %s seeded", email)
	return nil
}
