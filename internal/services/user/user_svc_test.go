package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSvc(t *testing.T) (IUserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserService(db), mock
}

func TestSignUpCreatesNewUser(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, profile_pic, created_at")).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "profile_pic", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(sqlmock.AnyArg(), "ada@example.com", "Ada", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	dto, err := svc.SignUp(context.Background(), "ada@example.com", "Ada", "")
	require.NoError(t, err)
	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "ada@example.com", dto.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignUpReturnsExistingUser(t *testing.T) {
	svc, mock := newMockSvc(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, profile_pic, created_at")).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "profile_pic", "created_at"}).
			AddRow("user-1", "ada@example.com", "Ada", "", now))

	dto, err := svc.SignUp(context.Background(), "ada@example.com", "Ada", "")
	require.NoError(t, err)
	assert.Equal(t, "user-1", dto.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotFound(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, profile_pic, created_at")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "profile_pic", "created_at"}))

	_, err := svc.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
