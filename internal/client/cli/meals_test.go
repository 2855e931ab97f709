package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/getfit/internal/client/models"
	"github.com/dmitrijs2005/getfit/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_UsesSelectedDateAndMeal(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.app.dates.Previous()
	require.NoError(t, h.app.mealTypes.Set(models.Lunch))

	require.NoError(t, h.app.Log(context.Background(), []string{"2", "40", "with", "milk"}))

	assert.Contains(t, h.out.String(), "Logged entry 1: 40 g to Lunch on 2024-03-03, 156 kcal")

	list, err := h.app.nutrition.MealsByDate(context.Background(), h.user.ID, testToday.AddDays(-1))
	require.NoError(t, err)
	require.Len(t, list.Meals, 1)
	assert.Equal(t, models.Lunch, list.Meals[0].MealType)
	assert.Equal(t, "with milk", list.Meals[0].Notes)
}

func TestLog_BadArguments(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	assert.ErrorContains(t, h.app.Log(ctx, []string{"2"}), "usage: log")
	assert.ErrorContains(t, h.app.Log(ctx, []string{"x", "50"}), `food id "x" is not a number`)
	assert.ErrorContains(t, h.app.Log(ctx, []string{"2", "lots"}), `quantity "lots" is not a number`)

	err := h.app.Log(ctx, []string{"2", "-5"})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, h.nutrition.Entries(h.user.ID))
}

func TestMeals_TodayAndOtherDay(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.logMeal(t, 1, 200, models.Breakfast, testToday)
	h.logMeal(t, 2, 40, models.Breakfast, testToday.AddDays(-2))

	require.NoError(t, h.app.Meals(context.Background(), nil))
	out := h.out.String()
	assert.Contains(t, out, "Today:")
	assert.Contains(t, out, "Apple")
	assert.NotContains(t, out, "Rolled oats")
	assert.Contains(t, out, "Total: 104 kcal")

	h.out.Reset()
	h.app.dates.Set(testToday.AddDays(-2))
	require.NoError(t, h.app.Meals(context.Background(), nil))
	out = h.out.String()
	assert.Contains(t, out, "Sat, Mar 2:")
	assert.Contains(t, out, "Rolled oats")

	h.out.Reset()
	h.app.dates.Set(testToday.AddDays(-1))
	require.NoError(t, h.app.Meals(context.Background(), nil))
	assert.Contains(t, h.out.String(), "no meals logged")
}

func TestMealsByType(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.logMeal(t, 1, 100, models.Snack, testToday)
	h.logMeal(t, 2, 50, models.Breakfast, testToday)

	require.NoError(t, h.app.MealsByType(context.Background(), []string{"snack"}))
	out := h.out.String()
	assert.Contains(t, out, "Today, Snack:")
	assert.Contains(t, out, "Apple")
	assert.NotContains(t, out, "Rolled oats")

	err := h.app.MealsByType(context.Background(), []string{"brunch"})
	assert.ErrorContains(t, err, `invalid meal type "brunch"`)
}

func TestWeek(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.logMeal(t, 2, 100, models.Breakfast, testToday)
	h.logMeal(t, 2, 100, models.Dinner, testToday.AddDays(-3))
	h.logMeal(t, 2, 100, models.Dinner, testToday.AddDays(-10))

	require.NoError(t, h.app.Week(context.Background(), nil))

	out := h.out.String()
	assert.Contains(t, out, "2024-02-27")
	assert.Contains(t, out, "2024-03-04")
	assert.NotContains(t, out, "2024-02-23")
	assert.Regexp(t, `Total\s+2\s+778`, out)

	err := h.app.Week(context.Background(), []string{"next-monday"})
	assert.ErrorContains(t, err, "use YYYY-MM-DD")
}

func TestSummary_AgainstGoals(t *testing.T) {
	h := newHarness(t)
	h.user.DailyCalories = models.Ptr(1800)
	h.login(t)
	h.logMeal(t, 2, 100, models.Breakfast, testToday)
	h.logMeal(t, 1, 100, models.Snack, testToday)

	require.NoError(t, h.app.Summary(context.Background(), nil))

	out := h.out.String()
	assert.Regexp(t, `Calories:\s+441 of 1800`, out)
	assert.Contains(t, out, "Breakfast entries:")
	assert.Contains(t, out, "Snack entries:")
	assert.NotContains(t, out, "Dinner entries:")
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.logMeal(t, 1, 100, models.Snack, testToday)

	require.NoError(t, h.app.Delete(context.Background(), []string{"1"}))
	assert.Contains(t, h.out.String(), "Deleted entry 1")
	assert.Zero(t, h.nutrition.Entries(h.user.ID))

	err := h.app.Delete(context.Background(), []string{"1"})
	assert.ErrorIs(t, err, common.ErrBackend)
	assert.EqualError(t, err, "Meal entry not found")

	assert.ErrorContains(t, h.app.Delete(context.Background(), nil), "usage: delete")
}

func TestSearchAndFood(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	require.NoError(t, h.app.Search(ctx, []string{"apple"}))
	assert.Contains(t, h.out.String(), "#1")
	assert.Contains(t, h.out.String(), "52 kcal/100 g")

	h.out.Reset()
	require.NoError(t, h.app.Search(ctx, []string{"kiwi"}))
	assert.Contains(t, h.out.String(), `Nothing found for "kiwi"`)

	err := h.app.Search(ctx, []string{"a"})
	assert.ErrorIs(t, err, common.ErrValidation)

	h.out.Reset()
	require.NoError(t, h.app.Food(ctx, []string{"2"}))
	out := h.out.String()
	assert.Contains(t, out, "#2 Rolled oats (Acme)")
	assert.Regexp(t, `Protein\s+16\.9 g`, out)
}

func TestBarcode(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	require.NoError(t, h.app.Barcode(ctx, []string{"4001"}))
	assert.Contains(t, h.out.String(), "#1 Apple")

	err := h.app.Barcode(ctx, []string{"0000"})
	assert.ErrorIs(t, err, common.ErrBackend)
	assert.EqualError(t, err, "Product not found")
}
