package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/classforge/report-card-api/internal/models"
	appErrors "github.com/classforge/report-card-api/pkg/errors"
)

type mockUserRepo struct {
	users      map[string]*models.User
	lastLogins []string
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLogins = append(m.lastLogins, id)
	return nil
}

func newAuthFixture(t *testing.T) (*mockUserRepo, *AuthService) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "teacher@school.test", PasswordHash: string(hash), FullName: "Teacher One", Role: models.RoleTeacher, Active: true},
		"u2": {ID: "u2", Email: "student@school.test", PasswordHash: string(hash), FullName: "Student One", Role: models.RoleStudent, ProfileID: ptrString("stu-1"), Active: true},
		"u3": {ID: "u3", Email: "inactive@school.test", PasswordHash: string(hash), FullName: "Old Account", Role: models.RoleTeacher, Active: false},
	}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "report-card-api",
	})
	return repo, svc
}

func TestAuthLogin(t *testing.T) {
	repo, svc := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "teacher@school.test", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, models.RoleTeacher, res.User.Role)
	assert.Contains(t, repo.lastLogins, "u1")
}

func TestAuthLoginWrongPassword(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "teacher@school.test", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthLoginUnknownEmail(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@school.test", Password: "secret123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "inactive@school.test", Password: "secret123"})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestAuthTokenRoundTrip(t *testing.T) {
	_, svc := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@school.test", Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u2", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "stu-1", claims.ProfileID)
}

func TestAuthValidateTokenRejectsGarbage(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, 401, errStatus(t, err))
}

func TestAuthValidateTokenRejectsWrongSecret(t *testing.T) {
	_, svc := newAuthFixture(t)
	other := NewAuthService(&mockUserRepo{}, validator.New(), zap.NewNop(), AuthConfig{AccessTokenSecret: "other-secret", AccessTokenExpiry: time.Hour})

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "teacher@school.test", Password: "secret123"})
	require.NoError(t, err)

	_, err = other.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.Equal(t, 401, errStatus(t, err))
}

func TestAuthMe(t *testing.T) {
	_, svc := newAuthFixture(t)

	info, err := svc.Me(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "Student One", info.FullName)
	assert.Equal(t, "stu-1", info.ProfileID)

	_, err = svc.Me(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
