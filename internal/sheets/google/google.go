// Package google mirrors transactions into a Google Sheet, one row per
// transaction with the ID in column A.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budgetpace/internal/core"
	ports "budgetpace/internal/sheets"
)

var _ ports.TransactionMirror = (*Client)(nil)

// Config selects the spreadsheet and the service account used to reach it.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// sheetAPI is the slice of the Sheets API the mirror needs.
type sheetAPI interface {
	column(ctx context.Context, rng string) ([]string, error)
	update(ctx context.Context, rng string, row []any) error
	appendRow(ctx context.Context, rng string, row []any) error
	deleteRow(ctx context.Context, sheet string, rowIndex int) error
}

type Client struct {
	api   sheetAPI
	sheet string

	// mu serializes row lookups and writes so row indexes stay valid.
	mu           sync.Mutex
	headerLoaded bool
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(cfg.SheetName) == "" {
		return nil, errors.New("missing sheet name")
	}

	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope),
		goption.WithHTTPClient(newHTTPClientWithPooling()))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets mirror ready",
		"component", "sheets",
		"sheet", cfg.SheetName)

	return &Client{api: &serviceAPI{svc: svc, spreadsheetID: cfg.SpreadsheetID}, sheet: cfg.SheetName}, nil
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		return []byte(cfg.ServiceAccountJSON), nil
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials")
}

// newHTTPClientWithPooling keeps connections to the Sheets API warm between
// events.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: 60 * time.Second}
}

// Upsert overwrites the row holding t.ID or appends a new one.
func (c *Client) Upsert(ctx context.Context, t core.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids, err := c.ids(ctx)
	if err != nil {
		return err
	}
	row := toValues(ports.Row(t))

	if i := indexOf(ids, t.ID); i >= 0 {
		rng := fmt.Sprintf("%s!A%d:%s%d", c.sheet, i+1, lastColumn(), i+1)
		if err := c.api.update(ctx, rng, row); err != nil {
			return fmt.Errorf("update row %d: %w", i+1, err)
		}
		return nil
	}
	if err := c.api.appendRow(ctx, fmt.Sprintf("%s!A:%s", c.sheet, lastColumn()), row); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// Remove deletes the row holding id, if any.
func (c *Client) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids, err := c.ids(ctx)
	if err != nil {
		return err
	}
	i := indexOf(ids, id)
	if i < 1 { // missing, or the header
		return nil
	}
	if err := c.api.deleteRow(ctx, c.sheet, i); err != nil {
		return fmt.Errorf("delete row %d: %w", i+1, err)
	}
	return nil
}

// ids reads column A, writing the header first on an empty sheet.
func (c *Client) ids(ctx context.Context) ([]string, error) {
	ids, err := c.api.column(ctx, fmt.Sprintf("%s!A:A", c.sheet))
	if err != nil {
		return nil, fmt.Errorf("read ids from %s: %w", c.sheet, err)
	}
	if len(ids) == 0 && !c.headerLoaded {
		rng := fmt.Sprintf("%s!A1:%s1", c.sheet, lastColumn())
		if err := c.api.update(ctx, rng, toValues(ports.Header)); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		ids = []string{ports.Header[0]}
	}
	c.headerLoaded = true
	return ids, nil
}

func lastColumn() string {
	return string(rune('A' + len(ports.Header) - 1))
}

func toValues(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.TrimSpace(v) == target {
			return i
		}
	}
	return -1
}

// serviceAPI adapts *gsheet.Service to sheetAPI.
type serviceAPI struct {
	svc           *gsheet.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

func (s *serviceAPI) column(ctx context.Context, rng string) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			out[i] = fmt.Sprint(row[0])
		}
	}
	return out, nil
}

func (s *serviceAPI) update(ctx context.Context, rng string, row []any) error {
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (s *serviceAPI) appendRow(ctx context.Context, rng string, row []any) error {
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

func (s *serviceAPI) deleteRow(ctx context.Context, sheet string, rowIndex int) error {
	sheetID, err := s.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		DeleteDimension: &gsheet.DeleteDimensionRequest{Range: &gsheet.DimensionRange{
			SheetId:    sheetID,
			Dimension:  "ROWS",
			StartIndex: int64(rowIndex),
			EndIndex:   int64(rowIndex + 1),
		}},
	}}}
	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	return err
}

// sheetID resolves and caches the numeric id of a tab by title.
func (s *serviceAPI) sheetID(ctx context.Context, title string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.sheetIDs[title]; ok {
		return id, nil
	}
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	if s.sheetIDs == nil {
		s.sheetIDs = make(map[string]int64)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	id, ok := s.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("sheet %q not found", title)
	}
	return id, nil
}
