package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/getfit/internal/client/services"
)

// Export uploads a week of meals, by default the week ending on the
// selected date.
func (a *App) Export(ctx context.Context, args []string) error {
	if a.exporter == nil {
		return services.ErrExportDisabled
	}
	start, err := weekStart(args, a.dates.Selected())
	if err != nil {
		return err
	}

	return a.withUser(ctx, func(ctx context.Context, userID int64) error {
		key, err := a.exporter.ExportWeek(ctx, userID, start)
		if errors.Is(err, services.ErrExportDisabled) {
			return fmt.Errorf("%w, set GETFIT_S3_BUCKET to enable it", err)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Exported %s..%s as %s\n", start, start.AddDays(6), key)
		return nil
	})
}
