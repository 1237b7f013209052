package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadify/acadify-api/internal/models"
)

type mockSettingsRepo struct {
	settings map[string]string
	upserted map[string]string
}

func (m *mockSettingsRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	if v, ok := m.settings[key]; ok {
		return &models.Setting{Key: key, Value: v}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, setting *models.Setting) error {
	if m.upserted == nil {
		m.upserted = make(map[string]string)
	}
	m.upserted[setting.Key] = setting.Value
	return nil
}

func newTermService(repo *mockSettingsRepo, defaults models.TermContext, at time.Time) *TermService {
	svc := NewTermService(repo, defaults, zap.NewNop())
	svc.now = func() time.Time { return at }
	return svc
}

func TestCurrentTermPrefersSettings(t *testing.T) {
	repo := &mockSettingsRepo{settings: map[string]string{
		models.SettingCurrentSchoolYear: "2024-2025",
		models.SettingCurrentSemester:   models.SemesterSummer,
	}}
	svc := newTermService(repo, models.TermContext{SchoolYear: "2025-2026", Semester: models.SemesterFirst}, time.Now())

	term, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-2025", term.SchoolYear)
	assert.Equal(t, models.SemesterSummer, term.Semester)
}

func TestCurrentTermFallsBackToConfigDefaults(t *testing.T) {
	svc := newTermService(&mockSettingsRepo{}, models.TermContext{SchoolYear: "2025-2026", Semester: models.SemesterSecond}, time.Now())

	term, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-2026", term.SchoolYear)
	assert.Equal(t, models.SemesterSecond, term.Semester)
}

func TestCurrentTermDerivedFromCalendar(t *testing.T) {
	cases := []struct {
		date         string
		wantYear     string
		wantSemester string
	}{
		{"2026-07-15", "2026-2027", models.SemesterFirst},
		{"2026-10-31", "2026-2027", models.SemesterFirst},
		{"2026-11-01", "2026-2027", models.SemesterSecond},
		{"2027-02-10", "2026-2027", models.SemesterSecond},
		{"2027-04-20", "2026-2027", models.SemesterSummer},
		{"2027-05-31", "2026-2027", models.SemesterSummer},
		{"2027-06-01", "2027-2028", models.SemesterFirst},
	}
	for _, tc := range cases {
		at, err := time.Parse("2006-01-02", tc.date)
		require.NoError(t, err)
		svc := newTermService(&mockSettingsRepo{}, models.TermContext{}, at)

		term, err := svc.Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tc.wantYear, term.SchoolYear, "date %s", tc.date)
		assert.Equal(t, tc.wantSemester, term.Semester, "date %s", tc.date)
	}
}

func TestSetCurrentTermPersistsBothKeys(t *testing.T) {
	repo := &mockSettingsRepo{}
	svc := newTermService(repo, models.TermContext{}, time.Now())

	err := svc.SetCurrent(context.Background(), models.TermContext{
		SchoolYear: "2026-2027",
		Semester:   models.SemesterFirst,
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "2026-2027", repo.upserted[models.SettingCurrentSchoolYear])
	assert.Equal(t, models.SemesterFirst, repo.upserted[models.SettingCurrentSemester])
}

func TestSetCurrentTermValidatesSemester(t *testing.T) {
	svc := newTermService(&mockSettingsRepo{}, models.TermContext{}, time.Now())

	err := svc.SetCurrent(context.Background(), models.TermContext{SchoolYear: "2026-2027", Semester: "3rd Semester"}, "admin-1")
	require.Error(t, err)

	err = svc.SetCurrent(context.Background(), models.TermContext{Semester: models.SemesterFirst}, "admin-1")
	require.Error(t, err)
}
