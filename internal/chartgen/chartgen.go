// Package chartgen renders the dashboard charts to PNG using go-analyze/charts.
// Dataset order and values always follow the analytics API response exactly.
package chartgen

import (
	"fmt"

	"github.com/go-analyze/charts"

	"github.com/invoxai/invoice-console/internal/models"
)

// VendorBar creates a bar chart of spend per vendor.
// Returns PNG image as bytes.
func VendorBar(rows []models.VendorSpend) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no vendor data to chart")
	}

	values := make([]float64, len(rows))
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = vendorLabel(row.VendorName)
		values[i] = row.TotalSpent.InexactFloat64()
	}

	p, err := charts.BarRender(
		[][]float64{values},
		charts.TitleOptionFunc(charts.TitleOption{
			Text: "Top Vendors by Spend",
		}),
		charts.XAxisLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render vendor chart: %w", err)
	}
	return buf, nil
}

// CategoryPie creates a pie chart of spend per category.
// Returns PNG image as bytes.
func CategoryPie(rows []models.CategorySpend) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no category data to chart")
	}

	values := make([]float64, len(rows))
	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = categoryLabel(row.UserCategory)
		values[i] = row.TotalSpent.InexactFloat64()
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: "Spend by Category",
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create category chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render category chart: %w", err)
	}
	return buf, nil
}

// MonthlyLine creates a line chart of the monthly spending trend.
// Returns PNG image as bytes.
func MonthlyLine(rows []models.MonthlySpend) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no monthly data to chart")
	}

	values := make([]float64, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = row.MonthYear
		values[i] = row.MonthlyTotal.InexactFloat64()
	}

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleOptionFunc(charts.TitleOption{
			Text: "Monthly Spending Trend",
		}),
		charts.XAxisLabelsOptionFunc(labels),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create monthly chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render monthly chart: %w", err)
	}
	return buf, nil
}

func vendorLabel(name string) string {
	if name == "" {
		return "N/A"
	}
	return name
}

func categoryLabel(name string) string {
	if name == "" {
		return "Uncategorized"
	}
	return name
}
