package sheets

import (
	"context"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/HiDoYa/finance-pipeline/internal/errs"
)

// Service is the narrow surface of the spreadsheet backend the sync
// engine uses: one method per remote operation. The interface exists
// so the engine can be exercised against a fake in tests.
type Service interface {
	// GetSpreadsheet fetches the full spreadsheet resource, including
	// the list of all sheets and their IDs.
	GetSpreadsheet(ctx context.Context) (*sheetsapi.Spreadsheet, error)

	// BatchUpdate submits a heterogeneous list of mutations in one call.
	BatchUpdate(ctx context.Context, req *sheetsapi.BatchUpdateSpreadsheetRequest) (*sheetsapi.BatchUpdateSpreadsheetResponse, error)

	// GetValues reads a value range in A1 notation.
	GetValues(ctx context.Context, readRange string) (*sheetsapi.ValueRange, error)

	// UpdateValues writes a value range in A1 notation.
	UpdateValues(ctx context.Context, writeRange string, values *sheetsapi.ValueRange) error
}

// Client implements Service against one Google spreadsheet.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

var _ Service = (*Client)(nil)

// NewClient builds an authenticated Sheets client from a service
// account key. keyJSON is the raw key file contents, already validated
// by config.LoadServiceAccountKey.
func NewClient(ctx context.Context, keyJSON []byte, spreadsheetID string) (*Client, error) {
	const op = "sheets.NewClient"

	jwtConfig, err := google.JWTConfigFromJSON(keyJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, errs.E(errs.KindConfig, op, err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	if err != nil {
		return nil, errs.E(errs.KindNotAuthenticated, op, err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (c *Client) GetSpreadsheet(ctx context.Context) (*sheetsapi.Spreadsheet, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, errs.E(errs.KindBackend, "sheets.GetSpreadsheet", err)
	}
	return resp, nil
}

func (c *Client) BatchUpdate(ctx context.Context, req *sheetsapi.BatchUpdateSpreadsheetRequest) (*sheetsapi.BatchUpdateSpreadsheetResponse, error) {
	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return nil, errs.E(errs.KindBackend, "sheets.BatchUpdate", err)
	}
	return resp, nil
}

func (c *Client) GetValues(ctx context.Context, readRange string) (*sheetsapi.ValueRange, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, errs.E(errs.KindBackend, "sheets.GetValues", err)
	}
	return resp, nil
}

func (c *Client) UpdateValues(ctx context.Context, writeRange string, values *sheetsapi.ValueRange) error {
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return errs.E(errs.KindBackend, "sheets.UpdateValues", err)
	}
	return nil
}
