package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/getfit/internal/client/models"
)

// Date shows the selected date or moves it.
func (a *App) Date(_ context.Context, args []string) error {
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "prev", "p", "-":
			a.dates.Previous()
		case "next", "n", "+":
			a.dates.Next()
		case "today", "t":
			a.dates.Today()
		default:
			d, err := models.ParseDate(args[0])
			if err != nil {
				return err
			}
			a.dates.Set(d)
		}
	}
	fmt.Fprintf(a.out, "Date: %s (%s)\n", a.dates.Display(), a.dates.Selected())
	return nil
}

// Meal shows or changes the meal type used by log and type.
func (a *App) Meal(_ context.Context, args []string) error {
	if len(args) > 0 {
		mt, err := models.ParseMealType(args[0])
		if err != nil {
			return err
		}
		if err := a.mealTypes.Set(mt); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.out, "Meal:", a.mealTypes.Selected().Title())
	return nil
}
