package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
	"github.com/accounthub/user-service/internal/core/token"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, cloneUser(u))
	}
	return users, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, update ports.ProfileUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	u.Version++
	return cloneUser(u), nil
}

type stubVersionCache struct {
	versions map[string]int
}

func newStubVersionCache() *stubVersionCache {
	return &stubVersionCache{versions: make(map[string]int)}
}

func (c *stubVersionCache) Get(_ context.Context, userID string) (int, bool, error) {
	ver, ok := c.versions[userID]
	return ver, ok, nil
}

func (c *stubVersionCache) Put(_ context.Context, userID string, version int) error {
	if cur, ok := c.versions[userID]; !ok || version > cur {
		c.versions[userID] = version
	}
	return nil
}

func newTestService(repo ports.UserRepository, cache ports.VersionCache) *UserService {
	codec := token.NewCodec([]byte("test-secret"), time.Hour)
	return NewUserService(repo, codec, cache, zerolog.Nop())
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		LastName:  "Doe",
		FirstName: "John",
		Email:     "john@example.com",
		Password:  "Passw0rd!",
	}
}

func TestUserService_Register_Success(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)

	result, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.User.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if result.User.Version != 0 {
		t.Fatalf("expected initial version 0, got %d", result.User.Version)
	}
	if result.User.PasswordHash == "Passw0rd!" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("Passw0rd!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}

	user, err := svc.Authenticate(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}
	if user.ID != result.User.ID {
		t.Fatalf("token resolved to wrong user: %s", user.ID)
	}
}

func TestUserService_Register_NormalizesEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)

	in := registerInput()
	in.Email = "John@Example.com"
	result, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.User.Email != "john@example.com" {
		t.Fatalf("expected lowercased email, got %s", result.User.Email)
	}

	in2 := registerInput()
	in2.Email = "JOHN@EXAMPLE.COM"
	if _, err := svc.Register(context.Background(), in2); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected case-insensitive conflict, got %v", err)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)

	in := registerInput()
	in.LastName = ""
	_, err := svc.Register(context.Background(), in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || err.Error() != "lastName: may not be empty" {
		t.Fatalf("expected lastName validation error, got %v", err)
	}

	in = registerInput()
	in.Password = "Abc123"
	_, err = svc.Register(context.Background(), in)
	if !errors.As(err, &ve) || err.Error() != "password: should contain special characters" {
		t.Fatalf("expected password policy error, got %v", err)
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput()); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(ctx, "john@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}

	if _, err := svc.Login(ctx, "john@example.com", "wrongPass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	// unknown email must be indistinguishable from a bad password
	if _, err := svc.Login(ctx, "ghost@example.com", "Passw0rd!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUserService_Authenticate_Invalid(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, "not-a-token"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for garbage token, got %v", err)
	}

	result, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// token for a user that no longer exists
	delete(repo.users, result.User.ID)
	if _, err := svc.Authenticate(ctx, result.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for unknown user, got %v", err)
	}
}

func TestUserService_Authenticate_Idempotent(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		user, err := svc.Authenticate(ctx, result.Token)
		if err != nil {
			t.Fatalf("authenticate attempt %d failed: %v", i, err)
		}
		if user.ID != result.User.ID {
			t.Fatalf("attempt %d resolved wrong user: %s", i, user.ID)
		}
	}
}

func TestUserService_UpdateProfile_Forbidden(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)

	_, err := svc.UpdateProfile(context.Background(), "user-1", "user-2", ports.ProfileUpdate{})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_UpdateProfile_EmptyField(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)

	empty := ""
	_, err := svc.UpdateProfile(context.Background(), "user-1", "user-1", ports.ProfileUpdate{FirstName: &empty})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || err.Error() != "firstName: may not be empty" {
		t.Fatalf("expected firstName validation error, got %v", err)
	}
}

func TestUserService_UpdateProfile_InvalidatesTokens(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first := "Jane"
	updated, err := svc.UpdateProfile(ctx, reg.User.ID, reg.User.ID, ports.ProfileUpdate{FirstName: &first})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FirstName != "Jane" {
		t.Fatalf("expected firstName applied, got %s", updated.FirstName)
	}
	if updated.Version != reg.User.Version+1 {
		t.Fatalf("expected version bump to %d, got %d", reg.User.Version+1, updated.Version)
	}

	// the token used to authorize the update is now stale
	if _, err := svc.Authenticate(ctx, reg.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected stale token rejection, got %v", err)
	}

	// a fresh login yields a working token again
	login, err := svc.Login(ctx, "john@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("re-login failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, login.Token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}
}

func TestUserService_Authenticate_CacheFastReject(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubVersionCache()
	svc := newTestService(repo, cache)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first := "Jane"
	if _, err := svc.UpdateProfile(ctx, reg.User.ID, reg.User.ID, ports.ProfileUpdate{FirstName: &first}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if cache.versions[reg.User.ID] != 1 {
		t.Fatalf("expected cache refreshed to version 1, got %d", cache.versions[reg.User.ID])
	}

	// stale token is rejected straight off the cached version
	if _, err := svc.Authenticate(ctx, reg.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected stale token rejection, got %v", err)
	}

	login, err := svc.Login(ctx, "john@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("re-login failed: %v", err)
	}
	if _, err := svc.Authenticate(ctx, login.Token); err != nil {
		t.Fatalf("fresh token rejected with warm cache: %v", err)
	}
}

// A lagging cache entry (below the stored version) must not reject a token
// issued for the current version: only cached > token proves staleness. The
// lag occurs between an update committing and its cache write landing, or
// whenever that write fails.
func TestUserService_Authenticate_CacheLagsStore(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubVersionCache()
	svc := newTestService(repo, cache)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first := "Jane"
	if _, err := svc.UpdateProfile(ctx, reg.User.ID, reg.User.ID, ports.ProfileUpdate{FirstName: &first}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	login, err := svc.Login(ctx, "john@example.com", "Passw0rd!")
	if err != nil {
		t.Fatalf("re-login failed: %v", err)
	}

	// simulate the cache write never landing: store holds 1, cache holds 0
	cache.versions[reg.User.ID] = 0

	user, err := svc.Authenticate(ctx, login.Token)
	if err != nil {
		t.Fatalf("fresh token rejected with lagging cache: %v", err)
	}
	if user.ID != reg.User.ID {
		t.Fatalf("token resolved to wrong user: %s", user.ID)
	}
	if cache.versions[reg.User.ID] != 1 {
		t.Fatalf("expected cache refreshed to 1, got %d", cache.versions[reg.User.ID])
	}
}

func TestUserService_ListUsers(t *testing.T) {
	svc := newTestService(newStubUserRepo(), nil)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		in := registerInput()
		in.Email = email
		if _, err := svc.Register(ctx, in); err != nil {
			t.Fatalf("register %s failed: %v", email, err)
		}
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
