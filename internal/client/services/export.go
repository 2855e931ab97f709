package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/logging"
)

// ErrExportDisabled is returned when no upload destination is configured.
var ErrExportDisabled = errors.New("diary export is not configured")

// WeekMealsFetcher is implemented by *client.NutritionClient.
type WeekMealsFetcher interface {
	WeekMeals(ctx context.Context, userID int64, start models.Date) (*models.MealList, error)
}

// Uploader stores one object. *export.S3Uploader implements it.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

// DiaryExport is the uploaded document.
type DiaryExport struct {
	UserID     int64            `json:"userId"`
	StartDate  models.Date      `json:"startDate"`
	EndDate    models.Date      `json:"endDate"`
	ExportedAt time.Time        `json:"exportedAt"`
	Totals     models.Nutrition `json:"totals"`
	Meals      []models.Meal    `json:"meals"`
}

type ExportService struct {
	meals    WeekMealsFetcher
	uploader Uploader
	log      logging.Logger
	now      func() time.Time
}

// NewExportService returns a service that uploads to uploader. A nil
// uploader yields a service whose ExportWeek returns ErrExportDisabled.
func NewExportService(meals WeekMealsFetcher, uploader Uploader, log logging.Logger) *ExportService {
	if log == nil {
		log = logging.Nop()
	}
	return &ExportService{meals: meals, uploader: uploader, log: log.With("component", "export"), now: time.Now}
}

// ExportKey is the object key of userID's week starting at start.
func ExportKey(userID int64, start models.Date) string {
	return fmt.Sprintf("users/%d/diary/%s.json", userID, start)
}

// ExportWeek uploads seven days of meals starting at start and returns the
// object key.
func (e *ExportService) ExportWeek(ctx context.Context, userID int64, start models.Date) (string, error) {
	if e.uploader == nil {
		return "", ErrExportDisabled
	}
	if start.IsZero() {
		return "", errors.New("export start date is required")
	}

	list, err := e.meals.WeekMeals(ctx, userID, start)
	if err != nil {
		return "", err
	}

	meals := list.Meals
	if meals == nil {
		meals = []models.Meal{}
	}
	doc := DiaryExport{
		UserID:     userID,
		StartDate:  start,
		EndDate:    start.AddDays(6),
		ExportedAt: e.now().UTC(),
		Totals:     list.Totals(),
		Meals:      meals,
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}

	key := ExportKey(userID, start)
	if err := e.uploader.Upload(ctx, key, body, "application/json"); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	e.log.Info(ctx, "diary exported", "key", key, "meals", len(meals))
	return key, nil
}
