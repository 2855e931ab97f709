package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/getfit/internal/client/client"
	"github.com/dmitrijs2005/getfit/internal/client/models"
)

func (a *App) Search(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")

	return a.withUser(ctx, func(ctx context.Context, _ int64) error {
		res, err := a.nutrition.SearchFoods(ctx, query, client.DefaultSearchLimit)
		if err != nil {
			return err
		}
		if len(res.Foods) == 0 {
			fmt.Fprintf(a.out, "Nothing found for %q\n", query)
			return nil
		}

		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		for _, f := range res.Foods {
			kcal := "-"
			if f.Nutrition != nil {
				kcal = fmt.Sprintf("%.0f kcal/100 g", f.Nutrition.Calories)
			}
			fmt.Fprintf(w, "  #%d\t%s\t%s\t%s\n", f.ID, f.Name, f.Brand, kcal)
		}
		fmt.Fprintf(w, "  %d of %d results\n", len(res.Foods), res.TotalResults)
		return w.Flush()
	})
}

func (a *App) Barcode(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: barcode <code>")
	}

	return a.withUser(ctx, func(ctx context.Context, _ int64) error {
		res, err := a.nutrition.FoodByBarcode(ctx, args[0])
		if err != nil {
			return err
		}
		if !res.Found || res.Food == nil {
			fmt.Fprintf(a.out, "No product with barcode %s\n", args[0])
			return nil
		}

		f := res.Food
		fmt.Fprintf(a.out, "#%d %s", f.ID, f.Name)
		if f.Brand != "" {
			fmt.Fprintf(a.out, " (%s)", f.Brand)
		}
		fmt.Fprintln(a.out)
		if f.Nutrition != nil {
			return printNutrition(a.out, *f.Nutrition)
		}
		return nil
	})
}

func (a *App) Food(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: food <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("food id %q is not a number", args[0])
	}

	return a.withUser(ctx, func(ctx context.Context, _ int64) error {
		f, err := a.nutrition.FoodDetail(ctx, id)
		if err != nil {
			return err
		}

		fmt.Fprintf(a.out, "#%d %s", f.ID, f.Name)
		if f.Brand != "" {
			fmt.Fprintf(a.out, " (%s)", f.Brand)
		}
		fmt.Fprintln(a.out)
		if f.Barcode != "" {
			fmt.Fprintln(a.out, "Barcode:", f.Barcode)
		}
		if !f.HasNutrition || f.Nutrition == nil {
			fmt.Fprintln(a.out, "No nutrition data")
			return nil
		}
		return printNutrition(a.out, *f.Nutrition)
	})
}

// printNutrition prints per-100 g values.
func printNutrition(out io.Writer, n models.Nutrition) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Per 100 g:")
	fmt.Fprintf(w, "  Calories\t%.0f kcal\n", n.Calories)
	fmt.Fprintf(w, "  Protein\t%.1f g\n", n.Protein)
	fmt.Fprintf(w, "  Carbs\t%.1f g\n", n.Carbs)
	fmt.Fprintf(w, "  Fat\t%.1f g\n", n.Fat)
	fmt.Fprintf(w, "  Fiber\t%.1f g\n", n.Fiber)
	fmt.Fprintf(w, "  Sugar\t%.1f g\n", n.Sugar)
	fmt.Fprintf(w, "  Sodium\t%.1f mg\n", n.Sodium)
	return w.Flush()
}
