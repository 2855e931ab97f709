package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MealType is the closed set of diary slots.
type MealType string

const (
	Breakfast MealType = "BREAKFAST"
	Lunch     MealType = "LUNCH"
	Dinner    MealType = "DINNER"
	Snack     MealType = "SNACK"
	Other     MealType = "OTHER"
)

// MealTypes lists every meal type in display order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack, Other}

// ParseMealType accepts any letter case.
func ParseMealType(s string) (MealType, error) {
	m := MealType(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("invalid meal type %q, valid options: BREAKFAST, LUNCH, DINNER, SNACK, OTHER", s)
	}
	return m, nil
}

func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner, Snack, Other:
		return true
	}
	return false
}

// Title is the human form, e.g. "Breakfast".
func (m MealType) Title() string {
	// a Caser keeps state, so one per call
	return cases.Title(language.English).String(strings.ToLower(string(m)))
}

// Nutrition holds per-entry (consumed) or per-100g values.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	Unit     string  `json:"unit,omitempty"`
}

// MealFood is the food reference embedded in meal list items.
type MealFood struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand,omitempty"`
}

// Meal is one logged diary entry as returned by the meal list endpoints.
type Meal struct {
	ID            int64     `json:"id"`
	EntryDate     Date      `json:"entryDate"`
	MealType      MealType  `json:"mealType"`
	QuantityGrams float64   `json:"quantityGrams"`
	LoggedAt      Timestamp `json:"loggedAt"`
	Notes         string    `json:"notes,omitempty"`
	Food          MealFood  `json:"food"`
	Nutrition     Nutrition `json:"nutrition"`
}

// MealList is the body of the meal list endpoints. Depending on the
// endpoint the server sends either an envelope carrying "meals" or a bare
// array; both decode into MealList.
type MealList struct {
	Message   string   `json:"message,omitempty"`
	Date      Date     `json:"date"`
	StartDate Date     `json:"startDate"`
	EndDate   Date     `json:"endDate"`
	MealType  MealType `json:"mealType,omitempty"`
	UserID    int64    `json:"userId"`
	Meals     []Meal   `json:"meals"`
}

func (l *MealList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		*l = MealList{}
		return json.Unmarshal(trimmed, &l.Meals)
	}

	type plain MealList
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*l = MealList(p)
	return nil
}

// Totals sums the consumed nutrition over all meals.
func (l MealList) Totals() Nutrition {
	var n Nutrition
	for _, m := range l.Meals {
		n.Calories += m.Nutrition.Calories
		n.Protein += m.Nutrition.Protein
		n.Carbs += m.Nutrition.Carbs
		n.Fat += m.Nutrition.Fat
		n.Fiber += m.Nutrition.Fiber
		n.Sugar += m.Nutrition.Sugar
		n.Sodium += m.Nutrition.Sodium
	}
	return n
}

// LogMealRequest is the body of POST /api/meals/log.
type LogMealRequest struct {
	UserID        int64    `json:"userId" validate:"gt=0"`
	FoodID        int64    `json:"foodId" validate:"gt=0"`
	QuantityGrams float64  `json:"quantityGrams" validate:"gt=0"`
	MealType      MealType `json:"mealType" validate:"mealtype"`
	Date          *Date    `json:"date,omitempty"`
	Notes         string   `json:"notes,omitempty" validate:"max=500"`
}

// LoggedEntry is the persisted diary entry echoed back by the log endpoint,
// including the nutrition computed for the logged quantity.
type LoggedEntry struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	FoodID        int64     `json:"foodId"`
	EntryDate     Date      `json:"entryDate"`
	MealType      MealType  `json:"mealType"`
	QuantityGrams float64   `json:"quantityGrams"`
	Notes         string    `json:"notes,omitempty"`
	LoggedAt      Timestamp `json:"loggedAt"`
	Nutrition     Nutrition `json:"nutrition"`
}

type LogMealResponse struct {
	Message string      `json:"message"`
	Entry   LoggedEntry `json:"entry"`
}

type DeleteMealResponse struct {
	Message string `json:"message"`
	EntryID int64  `json:"entryId"`
}

// NutritionSummary is the daily aggregate. The server wraps it as
// {"message": ..., "summary": {...}}; a bare object is accepted too.
type NutritionSummary struct {
	Date          Date             `json:"date"`
	UserID        int64            `json:"userId,omitempty"`
	TotalCalories float64          `json:"totalCalories"`
	TotalProtein  float64          `json:"totalProtein"`
	TotalCarbs    float64          `json:"totalCarbs"`
	TotalFat      float64          `json:"totalFat"`
	TotalFiber    float64          `json:"totalFiber,omitempty"`
	TotalSugar    float64          `json:"totalSugar,omitempty"`
	TotalSodium   float64          `json:"totalSodium,omitempty"`
	MealBreakdown map[string]int64 `json:"mealBreakdown,omitempty"`
}

func (s *NutritionSummary) UnmarshalJSON(b []byte) error {
	type plain NutritionSummary

	var wrapped struct {
		Summary *plain `json:"summary"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	if wrapped.Summary != nil {
		*s = NutritionSummary(*wrapped.Summary)
		return nil
	}

	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = NutritionSummary(p)
	return nil
}
