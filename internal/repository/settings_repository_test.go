package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadify/acadify-api/internal/models"
)

func newSettingsRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSettingsRepositoryGet(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value", "updated_by", "updated_at"}).
		AddRow(models.SettingCurrentSchoolYear, "2025-2026", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value, updated_by, updated_at FROM settings WHERE key = $1")).
		WithArgs(models.SettingCurrentSchoolYear).
		WillReturnRows(rows)

	setting, err := repo.Get(context.Background(), models.SettingCurrentSchoolYear)
	require.NoError(t, err)
	assert.Equal(t, "2025-2026", setting.Value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newSettingsRepoMock(t)
	defer cleanup()
	repo := NewSettingsRepository(db)

	mock.ExpectExec("INSERT INTO settings (.+) ON CONFLICT \\(key\\)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	setting := &models.Setting{Key: models.SettingCurrentSemester, Value: models.SemesterSecond}
	require.NoError(t, repo.Upsert(context.Background(), setting))
	assert.False(t, setting.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
