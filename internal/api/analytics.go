package api

import (
	"context"
	"fmt"

	"github.com/invoxai/invoice-console/internal/models"
)

// Summary fetches the dashboard headline totals.
func (c *Client) Summary(ctx context.Context) (models.AnalyticsSummary, error) {
	var summary models.AnalyticsSummary
	if err := c.get(ctx, "/analytics/summary", &summary); err != nil {
		return models.AnalyticsSummary{}, err
	}
	return summary, nil
}

// ExpensesByVendor fetches the top-N vendors by spend, in backend order.
func (c *Client) ExpensesByVendor(ctx context.Context, limit int) ([]models.VendorSpend, error) {
	var rows []models.VendorSpend
	if err := c.get(ctx, fmt.Sprintf("/analytics/expenses-by-vendor?limit=%d", limit), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ExpensesByCategory fetches the top-N categories by spend, in backend order.
func (c *Client) ExpensesByCategory(ctx context.Context, limit int) ([]models.CategorySpend, error) {
	var rows []models.CategorySpend
	if err := c.get(ctx, fmt.Sprintf("/analytics/expenses-by-category?limit=%d", limit), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlySpend fetches the monthly spend series, in backend order.
func (c *Client) MonthlySpend(ctx context.Context) ([]models.MonthlySpend, error) {
	var rows []models.MonthlySpend
	if err := c.get(ctx, "/analytics/monthly-spend", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

type aiInsightResponse struct {
	AIInsightSummary string `json:"ai_insight_summary"`
	Error            string `json:"error"`
	Details          string `json:"details"`
}

// AIInsight fetches the AI-generated narrative for the dashboard. The
// backend reports its own failures inside a 2xx body; those are normalized
// into errors here so the panel renders them like any other failure.
func (c *Client) AIInsight(ctx context.Context) (string, error) {
	var resp aiInsightResponse
	if err := c.get(ctx, "/analytics/openai-summary", &resp); err != nil {
		return "", err
	}
	if resp.AIInsightSummary != "" {
		return resp.AIInsightSummary, nil
	}
	if resp.Error != "" {
		return "", &Error{Kind: KindServer, Message: resp.Error, Details: resp.Details}
	}
	return "", &Error{Kind: KindMalformed, Message: "AI insights response structure was unexpected."}
}
