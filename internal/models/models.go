// Package models defines the records mirrored from the invoice backend.
// The backend is the sole source of truth; nothing here is persisted locally
// and every value is provisional until the next successful fetch.
package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Invoice lifecycle statuses as reported by the backend.
const (
	StatusUploaded           = "uploaded"
	StatusProcessingTextract = "processing_textract"
	StatusProcessed          = "processed"
	StatusError              = "error"
)

// PredefinedCategories is the suggestion set offered when categorizing an
// invoice. Free-text categories are also accepted.
var PredefinedCategories = []string{
	"Software", "Hardware", "Cloud Services", "Office Supplies",
	"Travel", "Marketing", "Consulting", "Utilities", "Legal", "Other",
}

// CurrencySymbols maps ISO currency codes to display symbols.
var CurrencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"SGD": "S$",
	"AUD": "A$",
	"CAD": "C$",
	"INR": "₹",
	"CHF": "CHF ",
}

// Invoice is one uploaded document and its extracted financial fields.
// Monetary fields are nullable: extraction may not have produced them yet.
type Invoice struct {
	ID                    int64            `json:"id"`
	OriginalFilename      string           `json:"original_filename"`
	Status                string           `json:"status"`
	VendorName            string           `json:"vendor_name"`
	InvoiceIDNumber       string           `json:"invoice_id_number"`
	InvoiceDate           string           `json:"invoice_date"`
	DueDate               string           `json:"due_date"`
	TotalAmount           *decimal.Decimal `json:"total_amount"`
	Subtotal              *decimal.Decimal `json:"subtotal"`
	Tax                   *decimal.Decimal `json:"tax"`
	Currency              string           `json:"currency"`
	UserCategory          *string          `json:"user_category"`
	LineItems             []LineItem       `json:"line_items"`
	ParsedData            json.RawMessage  `json:"parsed_data"`
	S3BucketName          string           `json:"s3_bucket_name"`
	S3Key                 string           `json:"s3_key"`
	TextractJobID         string           `json:"textract_job_id"`
	ErrorMessage          string           `json:"error_message"`
	UploadTimestamp       string           `json:"upload_timestamp"`
	LastModifiedTimestamp string           `json:"last_modified_timestamp"`
}

// CanReprocess reports whether the reprocess action may be offered:
// only while the Textract job is still pending and its id is known.
func (inv Invoice) CanReprocess() bool {
	return inv.Status == StatusProcessingTextract && inv.TextractJobID != ""
}

// CategoryOrEmpty returns the category as a plain string, "" when unset.
func (inv Invoice) CategoryOrEmpty() string {
	if inv.UserCategory == nil {
		return ""
	}
	return *inv.UserCategory
}

// LineItem is one extracted invoice line.
type LineItem struct {
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Amount      *decimal.Decimal `json:"amount"`
	ProductCode string           `json:"product_code"`
}

// UploadResult is the backend's response to a successful upload.
type UploadResult struct {
	InvoiceID     int64  `json:"invoice_id"`
	CurrentStatus string `json:"current_status"`
	Message       string `json:"message"`
}

// AnalyticsSummary holds the dashboard headline totals.
type AnalyticsSummary struct {
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalInvoices int64           `json:"total_invoices"`
}

// Average returns total spend divided by invoice count, zero when the
// count is zero so the dashboard never renders NaN.
func (s AnalyticsSummary) Average() decimal.Decimal {
	if s.TotalInvoices == 0 {
		return decimal.Zero
	}
	return s.TotalSpent.Div(decimal.NewFromInt(s.TotalInvoices)).Round(2)
}

// VendorSpend is one row of the top-vendors analytics series.
type VendorSpend struct {
	VendorName string          `json:"vendor_name"`
	TotalSpent decimal.Decimal `json:"total_spent_for_vendor"`
}

// CategorySpend is one row of the top-categories analytics series.
type CategorySpend struct {
	UserCategory string          `json:"user_category"`
	TotalSpent   decimal.Decimal `json:"total_spent_for_category"`
}

// MonthlySpend is one point of the monthly spend series.
type MonthlySpend struct {
	MonthYear    string          `json:"month_year"`
	MonthlyTotal decimal.Decimal `json:"monthly_total"`
}

// Report is the transient result of one report-generation request.
// It is never stored; a new request replaces it entirely.
type Report struct {
	Markdown string `json:"report_markdown"`
	Message  string `json:"message"`
}
