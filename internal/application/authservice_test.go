package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/shopfront/internal/auth"
	"github.com/ericfisherdev/shopfront/internal/domain/model"
)

// --- Mock implementations for AuthService tests ---

type mockUserStore struct {
	usersByEmail map[string]*model.User
	usersByID    map[string]*model.User
	created      []model.User
	createErr    error
	lastLoginErr error
	lastLoginFor string
}

func (m *mockUserStore) Create(_ context.Context, user model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, user)
	return nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.usersByEmail[email], nil
}

func (m *mockUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	return m.usersByID[id], nil
}

func (m *mockUserStore) UpdateLastLogin(_ context.Context, id string, _ time.Time) error {
	if m.lastLoginErr != nil {
		return m.lastLoginErr
	}
	m.lastLoginFor = id
	return nil
}

type mockProfileStore struct {
	byEmail  map[string]*model.Profile
	byUserID map[string]*model.Profile
	upserted []model.Profile
}

func (m *mockProfileStore) Upsert(_ context.Context, p model.Profile) error {
	m.upserted = append(m.upserted, p)
	return nil
}

func (m *mockProfileStore) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	return m.byUserID[userID], nil
}

func (m *mockProfileStore) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	return m.byEmail[email], nil
}

type mockTracker struct {
	locked     bool
	retryAfter time.Duration
	checkErr   error
	failures   []string
	resets     []string
}

func (m *mockTracker) Check(_ context.Context, _ string) (bool, time.Duration, error) {
	if m.checkErr != nil {
		return false, 0, m.checkErr
	}
	return m.locked, m.retryAfter, nil
}

func (m *mockTracker) RecordFailure(_ context.Context, key string) error {
	m.failures = append(m.failures, key)
	return nil
}

func (m *mockTracker) Reset(_ context.Context, key string) error {
	m.resets = append(m.resets, key)
	return nil
}

type mockAuditStore struct {
	mu      sync.Mutex
	entries []model.LoginAudit
	err     error
}

func (m *mockAuditStore) Record(_ context.Context, entry model.LoginAudit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditStore) ListByEmail(_ context.Context, _ string, _ int) ([]model.LoginAudit, error) {
	return nil, nil
}

func (m *mockAuditStore) reasons() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Reason
	}
	return out
}

// --- Helpers ---

func testTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tokens, err := auth.NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)
	return tokens
}

// weakHash uses the minimum bcrypt cost; CheckPassword accepts any cost and
// the real cost would slow every test by a few hundred milliseconds.
func weakHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

type authFixture struct {
	svc      *AuthService
	users    *mockUserStore
	profiles *mockProfileStore
	tracker  *mockTracker
	audit    *AuditRecorder
	auditDB  *mockAuditStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := &mockUserStore{
		usersByEmail: map[string]*model.User{},
		usersByID:    map[string]*model.User{},
	}
	profiles := &mockProfileStore{
		byEmail:  map[string]*model.Profile{},
		byUserID: map[string]*model.Profile{},
	}
	tracker := &mockTracker{}
	auditDB := &mockAuditStore{}
	audit := NewAuditRecorder(auditDB, slog.Default())
	t.Cleanup(audit.Close)

	svc := NewAuthService(users, profiles, tracker, testTokens(t), audit, slog.Default())
	return &authFixture{svc: svc, users: users, profiles: profiles, tracker: tracker, audit: audit, auditDB: auditDB}
}

func (f *authFixture) seedUser(t *testing.T, email, password string, active bool) *model.User {
	t.Helper()
	user := &model.User{
		ID:           "u-1",
		Email:        email,
		PasswordHash: weakHash(t, password),
		Role:         model.RoleCustomer,
		IsActive:     active,
	}
	f.users.usersByEmail[email] = user
	f.users.usersByID[user.ID] = user
	return user
}

// --- Login ---

func TestAuthService_LoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "dana@example.com", "hunter2hunter2", true)

	result, err := f.svc.Login(context.Background(), LoginInput{
		Email:     "dana@example.com",
		Password:  "hunter2hunter2",
		ClientKey: "10.0.0.1",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "u-1", result.User.ID)

	assert.Equal(t, []string{"10.0.0.1"}, f.tracker.resets, "success clears the failure count")
	assert.Empty(t, f.tracker.failures)
	assert.Equal(t, "u-1", f.users.lastLoginFor)

	f.audit.Close()
	assert.Equal(t, []string{model.AuditReasonSuccess}, f.auditDB.reasons())
}

func TestAuthService_LoginNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "dana@example.com", "hunter2hunter2", true)

	result, err := f.svc.Login(context.Background(), LoginInput{
		Email:     "  Dana@Example.COM ",
		Password:  "hunter2hunter2",
		ClientKey: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", result.User.ID)
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestAuthService_LoginFailuresIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "dana@example.com", "hunter2hunter2", true)

	_, unknownErr := f.svc.Login(context.Background(), LoginInput{
		Email:     "nobody@example.com",
		Password:  "hunter2hunter2",
		ClientKey: "10.0.0.1",
	})
	_, wrongErr := f.svc.Login(context.Background(), LoginInput{
		Email:     "dana@example.com",
		Password:  "not the password",
		ClientKey: "10.0.0.1",
	})

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	// Both count against the client key.
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.1"}, f.tracker.failures)

	f.audit.Close()
	assert.Equal(t, []string{model.AuditReasonUserNotFound, model.AuditReasonInvalidPassword}, f.auditDB.reasons())
}

func TestAuthService_LoginInactiveAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "dana@example.com", "hunter2hunter2", false)

	_, err := f.svc.Login(context.Background(), LoginInput{
		Email:     "dana@example.com",
		Password:  "hunter2hunter2",
		ClientKey: "10.0.0.1",
	})
	assert.ErrorIs(t, err, ErrAccountInactive)

	// Account state is not attack signal: no failure is counted.
	assert.Empty(t, f.tracker.failures)

	f.audit.Close()
	assert.Equal(t, []string{model.AuditReasonInactive}, f.auditDB.reasons())
}

func TestAuthService_LoginRateLimited(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "dana@example.com", "hunter2hunter2", true)
	f.tracker.locked = true
	f.tracker.retryAfter = 9 * time.Minute

	_, err := f.svc.Login(context.Background(), LoginInput{
		Email:     "dana@example.com",
		Password:  "hunter2hunter2",
		ClientKey: "10.0.0.1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)

	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 9*time.Minute, rle.RetryAfter)

	f.audit.Close()
	assert.Equal(t, []string{model.AuditReasonRateLimited}, f.auditDB.reasons())
}

// A broken tracker backend fails open: the login proceeds on its merits.
func TestAuthService_LoginTrackerFailureFailsOpen(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "dana@example.com", "hunter2hunter2", true)
	f.tracker.checkErr = errors.New("backend down")

	result, err := f.svc.Login(context.Background(), LoginInput{
		Email:     "dana@example.com",
		Password:  "hunter2hunter2",
		ClientKey: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

// A failing audit store must never fail the login it describes.
func TestAuthService_LoginAuditFailureSwallowed(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "dana@example.com", "hunter2hunter2", true)
	f.auditDB.err = errors.New("audit table wedged")

	result, err := f.svc.Login(context.Background(), LoginInput{
		Email:     "dana@example.com",
		Password:  "hunter2hunter2",
		ClientKey: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestAuthService_LoginUpdateLastLoginFailureSurfaces(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "dana@example.com", "hunter2hunter2", true)
	f.users.lastLoginErr = errors.New("disk full")

	_, err := f.svc.Login(context.Background(), LoginInput{
		Email:     "dana@example.com",
		Password:  "hunter2hunter2",
		ClientKey: "10.0.0.1",
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

// --- Register ---

func TestAuthService_Register(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.Register(context.Background(), RegisterInput{
		Email:     "New@Example.com",
		Password:  "hunter2hunter2",
		FirstName: "Dana",
		LastName:  "Reyes",
		ClientKey: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "new@example.com", result.User.Email)
	assert.Equal(t, model.RoleCustomer, result.User.Role)
	assert.True(t, result.User.IsActive)

	require.Len(t, f.users.created, 1)
	created := f.users.created[0]
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "hunter2hunter2", created.PasswordHash)

	ok, err := auth.CheckPassword(created.PasswordHash, "hunter2hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, f.profiles.upserted, 1)
	assert.Equal(t, "Dana", f.profiles.upserted[0].FirstName)
	assert.Equal(t, created.ID, f.profiles.upserted[0].UserID)

	f.audit.Close()
	assert.Equal(t, []string{model.AuditReasonRegistration}, f.auditDB.reasons())
}

func TestAuthService_RegisterEmailTaken(t *testing.T) {
	f := newAuthFixture(t)
	f.users.createErr = errors.New("UNIQUE constraint failed: users.email")

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Email:    "dana@example.com",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_RegisterMergesGuestProfile(t *testing.T) {
	f := newAuthFixture(t)
	guestCreated := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	f.profiles.byEmail["dana@example.com"] = &model.Profile{
		Email:         "dana@example.com",
		LoyaltyPoints: 750,
		CreatedAt:     guestCreated,
	}

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Email:     "dana@example.com",
		Password:  "hunter2hunter2",
		FirstName: "Dana",
	})
	require.NoError(t, err)

	require.Len(t, f.profiles.upserted, 1)
	merged := f.profiles.upserted[0]
	assert.Equal(t, 750, merged.LoyaltyPoints, "guest points survive registration")
	assert.True(t, merged.CreatedAt.Equal(guestCreated))
	assert.Equal(t, "Dana", merged.FirstName)
}

// --- Me ---

func TestAuthService_Me(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "dana@example.com", "hunter2hunter2", true)
	f.profiles.byUserID[user.ID] = &model.Profile{
		UserID:        user.ID,
		Email:         user.Email,
		FirstName:     "Dana",
		LoyaltyPoints: 750,
	}

	view, err := f.svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", view.User.Email)
	assert.Equal(t, "Dana", view.Profile.FirstName)
	assert.Equal(t, "silver", view.Tier)
}

func TestAuthService_MeMissingProfile(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "dana@example.com", "hunter2hunter2", true)

	view, err := f.svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Profile)
	assert.Equal(t, user.Email, view.Profile.Email)
	assert.Equal(t, "bronze", view.Tier)
}

func TestAuthService_MeVanishedUser(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Me(context.Background(), "u-gone")
	assert.ErrorIs(t, err, ErrNotFound)
}
