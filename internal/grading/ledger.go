package grading

import (
	"fmt"
	"strings"
	"time"

	"github.com/acadify/acadify-api/internal/models"
	appErrors "github.com/acadify/acadify-api/pkg/errors"
)

// ItemUpdate carries a partial update for one score item; nil fields are left
// untouched.
type ItemUpdate struct {
	Score *float64
	Max   *float64
	Label *string
	Date  *string
}

// AddItem validates and appends a score item to the named component's list.
// A legacy scalar entry for the component is discarded, never merged: once a
// teacher starts itemized entry the pre-averaged value is superseded.
func AddItem(scores models.ComponentScores, component string, score, max float64, label, date string) (models.ScoreItem, error) {
	if err := validateItem(score, max, label); err != nil {
		return models.ScoreItem{}, err
	}
	if date == "" {
		date = time.Now().UTC().Format(models.ItemDateLayout)
	}
	item := models.ScoreItem{Score: &score, Max: &max, Label: strings.TrimSpace(label), Date: date}

	entry, ok := scores[component]
	if !ok || entry.IsLegacy() {
		entry = models.ItemScores()
	}
	entry.Items = append(entry.Items, item)
	scores[component] = entry
	return item, nil
}

// UpdateItem applies a partial update to the item at the given position.
// Validation runs against the resulting item before anything is stored.
func UpdateItem(scores models.ComponentScores, component string, index int, upd ItemUpdate) (models.ScoreItem, error) {
	items, err := itemsOrNotFound(scores, component)
	if err != nil {
		return models.ScoreItem{}, err
	}
	if index < 0 || index >= len(items) {
		return models.ScoreItem{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no item at index %d in component %q", index, component))
	}

	next := items[index]
	if upd.Score != nil {
		next.Score = upd.Score
	}
	if upd.Max != nil {
		next.Max = upd.Max
	}
	if upd.Label != nil {
		next.Label = strings.TrimSpace(*upd.Label)
	}
	if upd.Date != nil {
		next.Date = *upd.Date
	}
	if next.Score == nil || next.Max == nil {
		return models.ScoreItem{}, appErrors.Clone(appErrors.ErrValidation, "score and max score are required")
	}
	if err := validateItem(*next.Score, *next.Max, next.Label); err != nil {
		return models.ScoreItem{}, err
	}

	items[index] = next
	return next, nil
}

// DeleteItem removes the item at the given position. Remaining indices shift
// down by one; callers must re-fetch before further index-based operations.
func DeleteItem(scores models.ComponentScores, component string, index int) error {
	items, err := itemsOrNotFound(scores, component)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no item at index %d in component %q", index, component))
	}
	entry := scores[component]
	entry.Items = append(items[:index], items[index+1:]...)
	scores[component] = entry
	return nil
}

// Items returns the component's current item list. Absent components and
// legacy scalar entries both yield an empty list.
func Items(scores models.ComponentScores, component string) []models.ScoreItem {
	entry, ok := scores[component]
	if !ok || entry.IsLegacy() || entry.Items == nil {
		return []models.ScoreItem{}
	}
	return entry.Items
}

// Summarize aggregates a component's item list. The average is the mean of
// per-item percentages, so every item counts equally regardless of its max
// points. Returns nil when the component has no valid items.
func Summarize(scores models.ComponentScores, component string) *models.ComponentSummary {
	items := Items(scores, component)
	summary := models.ComponentSummary{Items: items}
	pctSum := 0.0
	for _, item := range items {
		if !item.Valid() {
			continue
		}
		summary.ItemCount++
		summary.TotalPoints += *item.Score
		summary.TotalMax += *item.Max
		pctSum += item.Percentage()
	}
	if summary.ItemCount == 0 {
		return nil
	}
	summary.AveragePercentage = Round2(pctSum / float64(summary.ItemCount))
	return &summary
}

func itemsOrNotFound(scores models.ComponentScores, component string) ([]models.ScoreItem, error) {
	entry, ok := scores[component]
	if !ok || entry.IsLegacy() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("component %q has no score items", component))
	}
	return entry.Items, nil
}

func validateItem(score, max float64, label string) error {
	if max <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "max score must be greater than zero")
	}
	if score < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "score cannot be negative")
	}
	if score > max {
		return appErrors.Clone(appErrors.ErrValidation, "score cannot exceed max score")
	}
	if strings.TrimSpace(label) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "item label is required")
	}
	return nil
}
