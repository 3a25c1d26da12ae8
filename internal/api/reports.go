package api

import (
	"context"

	"github.com/invoxai/invoice-console/internal/models"
)

type monthlyReportRequest struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	VendorName string `json:"vendor_name,omitempty"`
	Category   string `json:"category,omitempty"`
}

type reportResponse struct {
	ReportMarkdown string `json:"report_markdown"`
	Message        string `json:"message"`
	Error          string `json:"error"`
	Details        string `json:"details"`
}

// GenerateMonthlyReport requests a markdown expense report for one month,
// optionally filtered by vendor and/or category.
func (c *Client) GenerateMonthlyReport(ctx context.Context, year, month int, vendor, category string) (*models.Report, error) {
	req := monthlyReportRequest{
		Year:       year,
		Month:      month,
		VendorName: vendor,
		Category:   category,
	}
	return c.generateReport(ctx, "/reports/generate/monthly-expense", req)
}

// GenerateComprehensiveReport requests the all-invoices overview report.
func (c *Client) GenerateComprehensiveReport(ctx context.Context) (*models.Report, error) {
	return c.generateReport(ctx, "/reports/generate/comprehensive-overview", struct{}{})
}

// generateReport shares the contract of both report endpoints: the backend
// may report generation failures inside a 2xx body.
func (c *Client) generateReport(ctx context.Context, path string, body any) (*models.Report, error) {
	var resp reportResponse
	if err := c.post(ctx, path, body, &resp); err != nil {
		return nil, err
	}
	if resp.ReportMarkdown != "" {
		return &models.Report{Markdown: resp.ReportMarkdown, Message: resp.Message}, nil
	}
	if resp.Error != "" {
		return nil, &Error{Kind: KindServer, Message: resp.Error, Details: resp.Details}
	}
	return nil, malformedError("report response missing report_markdown")
}
