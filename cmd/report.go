package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"collector/config"
	"collector/models"
)

// RunReport executes one plan-report query and prints the page as JSON
func RunReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	year := fs.Int("year", 0, "plan year (0 = current source default)")
	month := fs.Int("month", 0, "plan month 1-12 (0 = all)")
	collector := fs.Int64("collector", 0, "collector id (0 = all)")
	date := fs.String("date", "", "window cap, YYYY-MM-DD")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filters := models.ReportFilters{}
	if *year > 0 {
		filters.Years = []int{*year}
	}
	if *month >= 1 && *month <= 12 {
		m := time.Month(*month)
		filters.Month = &m
	}
	if *collector > 0 {
		filters.CollectorID = collector
	}
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("invalid -date %q: %w", *date, err)
		}
		filters.Date = &parsed
	}

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Reports.GetPlanReport(ctx, filters, models.PageRequest{
		Page:     *page,
		PageSize: config.Get().ReportPageSize,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
