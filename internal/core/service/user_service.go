package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
	"github.com/accounthub/user-service/internal/core/validation"
)

// UserService implements registration, login, token verification and the
// self-update authorization rule. It is the only component allowed to
// compare a token's embedded version against the stored one.
type UserService struct {
	repo   ports.UserRepository
	codec  ports.TokenCodec
	cache  ports.VersionCache // optional, may be nil
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, codec ports.TokenCodec, cache ports.VersionCache, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, codec: codec, cache: cache, logger: logger}
}

func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if err := validation.RegisterFields(in); err != nil {
		return nil, err
	}
	if err := validation.Password(in.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        normalizeEmail(in.Email),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		Version:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	tkn, err := s.codec.Issue(created.ID, created.Version)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return &ports.AuthResult{User: created, Token: tkn}, nil
}

// Login never mutates the stored version: concurrent logins all yield
// tokens bound to the same version, and all stay valid until the next
// profile mutation. An unknown email and a wrong password are deliberately
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	tkn, err := s.codec.Issue(user.ID, user.Version)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, Token: tkn}, nil
}

// Authenticate is the gate every protected endpoint passes through. The
// token is accepted only while its embedded version equals the user's
// current stored version; any mismatch, decode failure or unknown user
// collapses to ErrUnauthenticated so that callers cannot probe which check
// failed.
func (s *UserService) Authenticate(ctx context.Context, tkn string) (*domain.User, error) {
	userID, ver, err := s.codec.Verify(tkn)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	// The cache is a monotone lower bound of the stored version: cached > ver
	// proves the token stale, but cached < ver only means the cache lags the
	// store (a Put still in flight or previously failed) and must fall
	// through to the authoritative read.
	if s.cache != nil {
		if cached, ok, cacheErr := s.cache.Get(ctx, userID); cacheErr == nil && ok && cached > ver {
			s.logger.Info().Str("user_id", userID).Int("token_ver", ver).Int("cached_ver", cached).Msg("stale token rejected")
			return nil, domain.ErrUnauthenticated
		}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, user.ID, user.Version); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("version cache put failed")
		}
	}

	if user.Version != ver {
		s.logger.Info().Str("user_id", userID).Int("token_ver", ver).Int("stored_ver", user.Version).Msg("stale token rejected")
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListAll(ctx)
}

// UpdateProfile applies a partial update to the actor's own record. The
// store bumps the version atomically, so every outstanding token for this
// user, including the one authorizing this very call, is dead the moment
// the update commits.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, targetID string, update ports.ProfileUpdate) (*domain.User, error) {
	if actorID != targetID {
		return nil, domain.ErrForbidden
	}
	if err := validation.ProfileFields(update); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProfile(ctx, targetID, update)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, updated.ID, updated.Version); err != nil {
			s.logger.Warn().Err(err).Str("user_id", updated.ID).Msg("version cache put failed")
		}
	}

	s.logger.Info().Str("user_id", updated.ID).Int("version", updated.Version).Msg("profile updated")
	return updated, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
