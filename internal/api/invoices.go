package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/invoxai/invoice-console/internal/models"
)

// ListInvoices fetches all invoice summaries. An empty backend list is a
// valid result, distinct from an error.
func (c *Client) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := c.get(ctx, "/invoices/", &invoices); err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	return invoices, nil
}

// GetInvoice fetches one full invoice record. An unknown id yields a
// KindNotFound error.
func (c *Client) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := c.get(ctx, fmt.Sprintf("/invoices/%d", id), &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

type updateCategoryRequest struct {
	UserCategory *string `json:"user_category"`
}

type updateInvoiceResponse struct {
	Invoice *models.Invoice `json:"invoice"`
}

// UpdateInvoiceCategory sets or, with nil, clears an invoice's category
// and returns the server-confirmed record.
func (c *Client) UpdateInvoiceCategory(ctx context.Context, id int64, category *string) (*models.Invoice, error) {
	var resp updateInvoiceResponse
	err := c.put(ctx, fmt.Sprintf("/invoices/%d", id), updateCategoryRequest{UserCategory: category}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Invoice == nil {
		return nil, malformedError("update response missing invoice")
	}
	return resp.Invoice, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// TriggerReprocessing asks the backend to re-fetch the Textract result for
// an invoice stuck in processing. Callers gate this on CanReprocess.
func (c *Client) TriggerReprocessing(ctx context.Context, id int64) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, fmt.Sprintf("/invoices/%d/process-textract-result", id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DeleteInvoice removes an invoice. The caller is responsible for having
// obtained explicit user confirmation first.
func (c *Client) DeleteInvoice(ctx context.Context, id int64) (string, error) {
	var resp messageResponse
	if err := c.delete(ctx, fmt.Sprintf("/invoices/%d", id), &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

type viewURLResponse struct {
	ViewURL string `json:"view_url"`
}

// RequestViewURL fetches a short-lived signed URL for previewing the stored
// file. Use a ViewURLCache to avoid re-requesting within a session.
func (c *Client) RequestViewURL(ctx context.Context, id int64) (string, error) {
	var resp viewURLResponse
	if err := c.get(ctx, fmt.Sprintf("/invoices/%d/view-url", id), &resp); err != nil {
		return "", err
	}
	if resp.ViewURL == "" {
		return "", malformedError("view-url response missing view_url")
	}
	return resp.ViewURL, nil
}

// UploadInvoice streams a file to the backend as multipart form field
// "file". progress, when non-nil, receives the running percentage of bytes
// sent out of size.
func (c *Client) UploadInvoice(
	ctx context.Context,
	filename string,
	size int64,
	file io.Reader,
	progress func(percent int),
) (*models.UploadResult, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		src := io.Reader(file)
		if progress != nil && size > 0 {
			src = &progressReader{reader: file, total: size, report: progress}
		}
		if _, err := io.Copy(part, src); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoices/upload", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var result models.UploadResult
	if err := jsonDecode(resp.Body, &result); err != nil {
		return nil, err
	}
	if progress != nil {
		progress(100)
	}
	return &result, nil
}

// progressReader reports the percentage of total read so far.
type progressReader struct {
	reader io.Reader
	total  int64
	read   int64
	report func(percent int)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.read += int64(n)
		pct := int(r.read * 100 / r.total)
		if pct > 100 {
			pct = 100
		}
		r.report(pct)
	}
	return n, err
}
