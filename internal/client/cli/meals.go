package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/getfit/internal/client/models"
)

// Meals lists the diary of the selected date.
func (a *App) Meals(ctx context.Context, _ []string) error {
	return a.withUser(ctx, func(ctx context.Context, userID int64) error {
		var (
			list *models.MealList
			err  error
		)
		if a.dates.IsToday() {
			list, err = a.nutrition.TodayMeals(ctx, userID)
		} else {
			list, err = a.nutrition.MealsByDate(ctx, userID, a.dates.Selected())
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(a.out, "%s:\n", a.dates.Display())
		return printMeals(a.out, list, true)
	})
}

// MealsByType lists one meal type on the selected date. Without an argument
// the selected meal type is used.
func (a *App) MealsByType(ctx context.Context, args []string) error {
	mt := a.mealTypes.Selected()
	if len(args) > 0 {
		var err error
		if mt, err = models.ParseMealType(args[0]); err != nil {
			return err
		}
	}

	return a.withUser(ctx, func(ctx context.Context, userID int64) error {
		list, err := a.nutrition.MealsByType(ctx, userID, mt, a.dates.Selected())
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s, %s:\n", a.dates.Display(), mt.Title())
		return printMeals(a.out, list, false)
	})
}

// Week lists seven days starting at the given date, or the week ending on
// the selected date.
func (a *App) Week(ctx context.Context, args []string) error {
	start, err := weekStart(args, a.dates.Selected())
	if err != nil {
		return err
	}

	return a.withUser(ctx, func(ctx context.Context, userID int64) error {
		list, err := a.nutrition.WeekMeals(ctx, userID, start)
		if err != nil {
			return err
		}

		byDay := make(map[string][]models.Meal)
		for _, m := range list.Meals {
			byDay[m.EntryDate.String()] = append(byDay[m.EntryDate.String()], m)
		}

		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "Date\tEntries\tkcal\tProtein\tCarbs\tFat\t")
		for i := range 7 {
			d := start.AddDays(i)
			day := models.MealList{Meals: byDay[d.String()]}
			n := day.Totals()
			fmt.Fprintf(w, "%s\t%d\t%.0f\t%.1f\t%.1f\t%.1f\t\n", d, len(day.Meals), n.Calories, n.Protein, n.Carbs, n.Fat)
		}
		n := list.Totals()
		fmt.Fprintf(w, "Total\t%d\t%.0f\t%.1f\t%.1f\t%.1f\t\n", len(list.Meals), n.Calories, n.Protein, n.Carbs, n.Fat)
		return w.Flush()
	})
}

// Summary prints the day totals of the selected date against the user's
// daily goals.
func (a *App) Summary(ctx context.Context, _ []string) error {
	return a.withUser(ctx, func(ctx context.Context, userID int64) error {
		var (
			sum *models.NutritionSummary
			err error
		)
		if a.dates.IsToday() {
			sum, err = a.nutrition.TodaySummary(ctx, userID)
		} else {
			sum, err = a.nutrition.SummaryByDate(ctx, userID, a.dates.Selected())
		}
		if err != nil {
			return err
		}

		var goals models.User
		if u := a.session.Snapshot().User; u != nil {
			goals = *u
		}

		fmt.Fprintf(a.out, "%s:\n", a.dates.Display())
		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Calories:\t%.0f%s\n", sum.TotalCalories, ofGoal(intGoal(goals.DailyCalories)))
		fmt.Fprintf(w, "Protein, g:\t%.1f%s\n", sum.TotalProtein, ofGoal(goals.DailyProtein))
		fmt.Fprintf(w, "Carbs, g:\t%.1f%s\n", sum.TotalCarbs, ofGoal(goals.DailyCarbs))
		fmt.Fprintf(w, "Fat, g:\t%.1f%s\n", sum.TotalFat, ofGoal(goals.DailyFat))
		for _, mt := range models.MealTypes {
			if n, ok := sum.MealBreakdown[string(mt)]; ok {
				fmt.Fprintf(w, "%s entries:\t%d\n", mt.Title(), n)
			}
		}
		return w.Flush()
	})
}

// Log adds grams of a food to the selected date and meal type.
func (a *App) Log(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: log <food id> <grams> [notes]")
	}
	foodID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("food id %q is not a number", args[0])
	}
	grams, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("quantity %q is not a number", args[1])
	}

	date := a.dates.Selected()
	return a.withUser(ctx, func(ctx context.Context, userID int64) error {
		res, err := a.nutrition.LogMeal(ctx, models.LogMealRequest{
			UserID:        userID,
			FoodID:        foodID,
			QuantityGrams: grams,
			MealType:      a.mealTypes.Selected(),
			Date:          &date,
			Notes:         strings.Join(args[2:], " "),
		})
		if err != nil {
			return err
		}

		e := res.Entry
		fmt.Fprintf(a.out, "Logged entry %d: %g g to %s on %s, %.0f kcal\n",
			e.ID, e.QuantityGrams, e.MealType.Title(), e.EntryDate, e.Nutrition.Calories)
		return nil
	})
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <entry id>")
	}
	entryID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("entry id %q is not a number", args[0])
	}

	return a.withUser(ctx, func(ctx context.Context, userID int64) error {
		if _, err := a.nutrition.DeleteMeal(ctx, userID, entryID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted entry %d\n", entryID)
		return nil
	})
}

func printMeals(out io.Writer, list *models.MealList, withType bool) error {
	if len(list.Meals) == 0 {
		fmt.Fprintln(out, "  no meals logged")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, m := range list.Meals {
		if withType {
			fmt.Fprintf(w, "  #%d\t%s\t%s\t%g g\t%.0f kcal\t%s\n", m.ID, m.MealType.Title(), m.Food.Name, m.QuantityGrams, m.Nutrition.Calories, m.Notes)
		} else {
			fmt.Fprintf(w, "  #%d\t%s\t%g g\t%.0f kcal\t%s\n", m.ID, m.Food.Name, m.QuantityGrams, m.Nutrition.Calories, m.Notes)
		}
	}
	n := list.Totals()
	fmt.Fprintf(w, "  Total: %.0f kcal, protein %.1f g, carbs %.1f g, fat %.1f g\n", n.Calories, n.Protein, n.Carbs, n.Fat)
	return w.Flush()
}

// weekStart parses an explicit start date, defaulting to six days before
// selected so the week ends on it.
func weekStart(args []string, selected models.Date) (models.Date, error) {
	if len(args) == 0 {
		return selected.AddDays(-6), nil
	}
	return models.ParseDate(args[0])
}

func intGoal(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func ofGoal(goal *float64) string {
	if goal == nil {
		return ""
	}
	return fmt.Sprintf(" of %g", *goal)
}
