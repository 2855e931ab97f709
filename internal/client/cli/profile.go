package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/getfit/internal/client/models"
)

// Profile prints the stored profile as the server has it now, followed by
// the fitness summary.
func (a *App) Profile(ctx context.Context, _ []string) error {
	return a.withUser(ctx, func(ctx context.Context, userID int64) error {
		u, err := a.users.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		fs, err := a.users.FitnessSummary(ctx, userID)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		row(w, "Username", u.Username)
		row(w, "Email", u.Email)
		row(w, "Date of birth", u.DateOfBirth)
		row(w, "Age", fs.Age)
		row(w, "Height, cm", u.HeightCm)
		row(w, "Weight, kg", fs.CurrentWeight)
		row(w, "Target weight, kg", fs.TargetWeight)
		row(w, "To go, kg", fs.WeightDifference)
		row(w, "BMI", fs.BMI)
		row(w, "BMI category", fs.BMICategory)
		row(w, "Goal", fs.FitnessGoal)
		row(w, "Activity", fs.ActivityLevel)
		row(w, "Daily calories", fs.DailyCalories)
		row(w, "Daily protein, g", fs.DailyProtein)
		row(w, "Daily carbs, g", fs.DailyCarbs)
		row(w, "Daily fat, g", fs.DailyFat)
		row(w, "Daily water, glasses", fs.DailyWater)
		row(w, "Weekly workouts", fs.WeeklyWorkouts)
		return w.Flush()
	})
}

// Goals edits the daily targets. Each prompt offers the current value, or
// a recommendation computed from the profile when none is set. The change
// is saved on the server and then merged into the session user.
func (a *App) Goals(ctx context.Context, _ []string) error {
	user := a.session.Snapshot().User
	if user == nil {
		return errNotLoggedIn
	}

	rec := models.RecommendGoals(*user, a.dates.Today())
	pick := func(cur, def *float64) float64 {
		if cur != nil {
			return *cur
		}
		return *def
	}
	pickInt := func(cur, def *int) int {
		if cur != nil {
			return *cur
		}
		return *def
	}

	calories, err := a.ask.intDefault("Daily calories", pickInt(user.DailyCalories, rec.DailyCalories))
	if err != nil {
		return err
	}
	protein, err := a.ask.floatDefault("Daily protein, g", pick(user.DailyProtein, rec.DailyProtein))
	if err != nil {
		return err
	}
	carbs, err := a.ask.floatDefault("Daily carbs, g", pick(user.DailyCarbs, rec.DailyCarbs))
	if err != nil {
		return err
	}
	fat, err := a.ask.floatDefault("Daily fat, g", pick(user.DailyFat, rec.DailyFat))
	if err != nil {
		return err
	}
	water, err := a.ask.floatDefault("Daily water, glasses", pick(user.DailyWater, rec.DailyWater))
	if err != nil {
		return err
	}
	workouts, err := a.ask.intDefault("Weekly workouts", pickInt(user.WeeklyWorkouts, rec.WeeklyWorkouts))
	if err != nil {
		return err
	}

	patch := models.UserPatch{
		DailyCalories:  &calories,
		DailyProtein:   &protein,
		DailyCarbs:     &carbs,
		DailyFat:       &fat,
		DailyWater:     &water,
		WeeklyWorkouts: &workouts,
	}

	err = a.withUser(ctx, func(ctx context.Context, userID int64) error {
		_, err := a.users.UpdateProfile(ctx, userID, patch)
		return err
	})
	if err != nil {
		return err
	}
	if err := a.session.UpdateUser(ctx, patch); err != nil {
		return fmt.Errorf("goals saved on the server but not locally: %w", err)
	}

	fmt.Fprintln(a.out, "Goals updated")
	return nil
}

// row prints label and v, or "-" when v is a nil pointer or empty string.
func row(w io.Writer, label string, v any) {
	fmt.Fprintf(w, "%s:\t%s\n", label, display(v))
}

func display(v any) string {
	switch x := v.(type) {
	case *int:
		if x != nil {
			return fmt.Sprint(*x)
		}
	case *float64:
		if x != nil {
			return fmt.Sprintf("%.1f", *x)
		}
	case *models.Date:
		if x != nil {
			return x.String()
		}
	case string:
		if x != "" {
			return x
		}
	default:
		return fmt.Sprint(v)
	}
	return "-"
}
