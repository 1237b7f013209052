package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

type settingsRepo interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
}

// TermService resolves the current academic term. Resolution order: explicit
// settings rows, then configured defaults, then the calendar.
type TermService struct {
	settings settingsRepo
	defaults models.TermContext
	logger   *zap.Logger
	now      func() time.Time
}

// NewTermService constructs a TermService. The defaults come from
// configuration and may be empty.
func NewTermService(settings settingsRepo, defaults models.TermContext, logger *zap.Logger) *TermService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{settings: settings, defaults: defaults, logger: logger, now: time.Now}
}

// Current returns the school year and semester grades are being recorded in.
func (s *TermService) Current(ctx context.Context) (models.TermContext, error) {
	term := models.TermContext{
		SchoolYear: s.lookup(ctx, models.SettingCurrentSchoolYear, s.defaults.SchoolYear),
		Semester:   s.lookup(ctx, models.SettingCurrentSemester, s.defaults.Semester),
	}
	now := s.now().UTC()
	if term.SchoolYear == "" {
		term.SchoolYear = schoolYearFor(now)
	}
	if term.Semester == "" {
		term.Semester = semesterFor(now)
	}
	return term, nil
}

// SetCurrent persists an explicit current term, overriding the calendar.
func (s *TermService) SetCurrent(ctx context.Context, term models.TermContext, updatedBy string) error {
	if term.SchoolYear == "" || term.Semester == "" {
		return appErrors.Clone(appErrors.ErrValidation, "school year and semester are required")
	}
	switch term.Semester {
	case models.SemesterFirst, models.SemesterSecond, models.SemesterSummer:
	default:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown semester %q", term.Semester))
	}
	pairs := []models.Setting{
		{Key: models.SettingCurrentSchoolYear, Value: term.SchoolYear, UpdatedBy: &updatedBy},
		{Key: models.SettingCurrentSemester, Value: term.Semester, UpdatedBy: &updatedBy},
	}
	for i := range pairs {
		if err := s.settings.Upsert(ctx, &pairs[i]); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store term setting")
		}
	}
	return nil
}

func (s *TermService) lookup(ctx context.Context, key, fallback string) string {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to read term setting", zap.String("key", key), zap.Error(err))
		}
		return fallback
	}
	if setting.Value == "" {
		return fallback
	}
	return setting.Value
}

// schoolYearFor derives the school year label from a date. The school year
// turns over in June.
func schoolYearFor(t time.Time) string {
	year := t.Year()
	if t.Month() < time.June {
		year--
	}
	return fmt.Sprintf("%d-%d", year, year+1)
}

func semesterFor(t time.Time) string {
	switch {
	case t.Month() >= time.June && t.Month() <= time.October:
		return models.SemesterFirst
	case t.Month() >= time.November || t.Month() <= time.March:
		return models.SemesterSecond
	default:
		return models.SemesterSummer
	}
}
