package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/acadify/acadify-api/internal/grading"
	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

type gpaGradeRepo interface {
	ListGradedWithClass(ctx context.Context, studentID string) ([]models.GradeClassRow, error)
}

type gpaCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// GPAResult is the outcome of one GPA aggregation.
type GPAResult struct {
	StudentID  string    `json:"student_id"`
	Method     string    `json:"method"`
	GPA        *float64  `json:"gpa"`
	ClassCount int       `json:"class_count"`
	TotalUnits int       `json:"total_units"`
	SchoolYear string    `json:"school_year,omitempty"`
	Semester   string    `json:"semester,omitempty"`
	ComputedAt time.Time `json:"computed_at"`
}

// GPAService aggregates a student's final grades into a GPA under one of the
// supported averaging policies. Results are cached per student and dropped
// whenever any of the student's grade records changes.
type GPAService struct {
	grades   gpaGradeRepo
	cache    gpaCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewGPAService constructs GPAService. A nil cache disables caching.
func NewGPAService(grades gpaGradeRepo, cache gpaCache, cacheTTL time.Duration, logger *zap.Logger) *GPAService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &GPAService{grades: grades, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// SemesterGPA aggregates only grades earned in the given term.
func (s *GPAService) SemesterGPA(ctx context.Context, studentID string, term models.TermContext, method models.GPAMethod) (*GPAResult, error) {
	if term.SchoolYear == "" || term.Semester == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school year and semester are required")
	}
	return s.compute(ctx, studentID, &term, method)
}

// CumulativeGPA aggregates every graded class across all terms.
func (s *GPAService) CumulativeGPA(ctx context.Context, studentID string, method models.GPAMethod) (*GPAResult, error) {
	return s.compute(ctx, studentID, nil, method)
}

// Invalidate drops every cached GPA for the student.
func (s *GPAService) Invalidate(ctx context.Context, studentID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPattern(ctx, fmt.Sprintf("gpa:%s:*", studentID))
}

func (s *GPAService) compute(ctx context.Context, studentID string, term *models.TermContext, method models.GPAMethod) (*GPAResult, error) {
	if method == "" {
		method = models.GPAWeighted
	}
	if !method.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown gpa method %q", method))
	}

	key := cacheKey(studentID, term, method)
	if s.cache != nil {
		var cached GPAResult
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("gpa cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	rows, err := s.grades.ListGradedWithClass(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load graded classes")
	}

	result := &GPAResult{StudentID: studentID, Method: string(method), ComputedAt: time.Now().UTC()}
	if term != nil {
		result.SchoolYear = term.SchoolYear
		result.Semester = term.Semester
	}

	sum := 0.0
	weight := 0.0
	for _, row := range rows {
		if term != nil && (row.SchoolYear != term.SchoolYear || row.Semester != term.Semester) {
			continue
		}
		if method == models.GPAMajorOnly && !row.IsMajorSubject {
			continue
		}
		result.ClassCount++
		result.TotalUnits += row.Units
		switch method {
		case models.GPAWeighted:
			sum += row.FinalGrade * float64(row.Units)
			weight += float64(row.Units)
		default:
			sum += row.FinalGrade
			weight++
		}
	}
	if weight > 0 {
		gpa := grading.Round2(sum / weight)
		result.GPA = &gpa
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			s.logger.Warn("gpa cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

func cacheKey(studentID string, term *models.TermContext, method models.GPAMethod) string {
	if term == nil {
		return fmt.Sprintf("gpa:%s:cumulative:%s", studentID, method)
	}
	return fmt.Sprintf("gpa:%s:%s:%s:%s", studentID, term.SchoolYear, term.Semester, method)
}
