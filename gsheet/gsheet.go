// Package gsheet mirrors intake rows to a Google spreadsheet, one tab per
// opening plus a generic Sheet1 fallback.
package gsheet

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"google.golang.org/api/sheets/v4"

	"github.com/recruitkit/recruitkit/config"
	"github.com/recruitkit/recruitkit/googleauth"
	"github.com/recruitkit/recruitkit/model"
)

// Columns preceding the per-question suffix in every schema-aligned row.
var metaHeaders = []string{"Timestamp", "OpeningId", "OpeningTitle", "Source", "ResumeLink"}

var reIllegalTabChars = regexp.MustCompile(`[\\/?*\[\]:]`)

const maxTabTitleLen = 90

// SanitizeTabTitle strips the characters Sheets rejects in tab names and
// truncates to the legal length. An empty result becomes "sheet".
func SanitizeTabTitle(title string) string {
	title = reIllegalTabChars.ReplaceAllLiteralString(title, "")
	if len(title) > maxTabTitleLen {
		title = title[:maxTabTitleLen]
	}
	if title == "" {
		title = "sheet"
	}
	return title
}

// HeaderRow is the fixed header for a schema-aligned tab: the metadata
// columns followed by one column per question, labeled by the question's
// label or its id when the label is empty.
func HeaderRow(schema []model.Question) []string {
	headers := append([]string{}, metaHeaders...)
	for _, q := range schema {
		label := q.Label
		if label == "" {
			label = q.ID
		}
		headers = append(headers, label)
	}
	return headers
}

// Client is a process-wide Sheets client, built lazily on first use.
type Client struct {
	cfg config.GoogleConfig

	once    sync.Once
	svc     *sheets.Service
	initErr error
}

func NewClient(cfg config.GoogleConfig) *Client {
	return &Client{cfg: cfg}
}

func (c *Client) service(ctx context.Context) (*sheets.Service, error) {
	c.once.Do(func() {
		opts, err := googleauth.Options(context.Background(), c.cfg, sheets.SpreadsheetsScope)
		if err != nil {
			c.initErr = err
			return
		}
		c.svc, c.initErr = sheets.NewService(context.Background(), opts...)
	})
	return c.svc, c.initErr
}

// EnsureTabWithHeaders adds the tab when missing and overwrites its header
// row at A1 with the schema-derived headers. Idempotent: repeated calls with
// the same schema rewrite the same header.
func (c *Client) EnsureTabWithHeaders(ctx context.Context, spreadsheetID, tabTitle string, schema []model.Question) ([]string, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, fmt.Errorf("gsheet: init: %w", err)
	}

	tabTitle = SanitizeTabTitle(tabTitle)

	meta, err := svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gsheet: get metadata: %w", err)
	}

	exists := false
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == tabTitle {
			exists = true
			break
		}
	}
	if !exists {
		_, err = svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: tabTitle},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("gsheet: add sheet: %w", err)
		}
	}

	headers := HeaderRow(schema)
	_, err = svc.Spreadsheets.Values.Update(spreadsheetID, tabRange(tabTitle), &sheets.ValueRange{
		Values: [][]any{toAnyRow(headers)},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gsheet: write headers: %w", err)
	}

	return headers, nil
}

// AppendRow appends one row anchored at the tab's A1, inserting a row so
// existing data is preserved and the values start in column A.
func (c *Client) AppendRow(ctx context.Context, spreadsheetID, tabTitle string, values []string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return fmt.Errorf("gsheet: init: %w", err)
	}

	_, err = svc.Spreadsheets.Values.Append(spreadsheetID, tabRange(SanitizeTabTitle(tabTitle)), &sheets.ValueRange{
		Values: [][]any{toAnyRow(values)},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsheet: append: %w", err)
	}
	return nil
}

// AppendGeneric appends to the conventional Sheet1 range. Used when the
// opening has no schema or the schema-aligned path failed.
func (c *Client) AppendGeneric(ctx context.Context, spreadsheetID string, values []string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return fmt.Errorf("gsheet: init: %w", err)
	}

	_, err = svc.Spreadsheets.Values.Append(spreadsheetID, "Sheet1!A:Z", &sheets.ValueRange{
		Values: [][]any{toAnyRow(values)},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsheet: append generic: %w", err)
	}
	return nil
}

func tabRange(tabTitle string) string {
	return fmt.Sprintf("'%s'!A1", tabTitle)
}

func toAnyRow(values []string) []any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
