package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestFindByUserIDQueriesByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "role", "assigned_admin_id"}).
		AddRow(3, 7, "ADMIN", nil)
	mock.ExpectQuery("SELECT (.+) FROM `profiles` WHERE user_id = ").
		WithArgs(7).
		WillReturnRows(rows)

	profile, err := repo.FindByUserID(7)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), profile.UserID)
	assert.Equal(t, models.RoleAdmin, profile.Role)
	assert.Nil(t, profile.AssignedAdminID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUserIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `profiles` WHERE user_id = ").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "role", "assigned_admin_id"}))

	_, err := repo.FindByUserID(42)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
