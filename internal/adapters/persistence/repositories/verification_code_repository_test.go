package repositories

import (
	"context"
	"testing"
	"time"

	"admingate/internal/adapters/persistence/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestConsumeMarksCodeUsed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVerificationCodeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `verification_codes`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Consume(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeAlreadyUsed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVerificationCodeRepository(db)

	// The conditional update matches no rows when used is already true.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `verification_codes`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Consume(context.Background(), 7)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestByTarget(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVerificationCodeRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "type", "target", "code", "expires_at", "used", "created_at"}).
		AddRow(3, models.VerifyTypeEmailReset, "alice@example.com", "123456", now.Add(10*time.Minute), false, now)

	mock.ExpectQuery("SELECT \\* FROM `verification_codes`").
		WillReturnRows(rows)

	code, err := repo.LatestByTarget(context.Background(), models.VerifyTypeEmailReset, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(3), code.ID)
	assert.Equal(t, "123456", code.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestByTargetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVerificationCodeRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `verification_codes`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.LatestByTarget(context.Background(), models.VerifyTypeEmailReset, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVerificationCodeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `verification_codes`").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteExpired(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
