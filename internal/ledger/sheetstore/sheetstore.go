// Package sheetstore backs the ledger with a remote spreadsheet service
// speaking the Sheets v4 values API. The service is rate limited, so every
// call is expected to fail transiently now and then; retry is owned by the
// callers (Connector / Ledger), not here.
package sheetstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"papertrader/internal/api"
)

const defaultBaseURL = "https://sheets.googleapis.com"

type Store struct {
	client        *api.Client
	spreadsheetID string
	sheetRange    string
}

type Params struct {
	BaseURL       string
	SpreadsheetID string
	SheetRange    string // e.g. "Sheet1"
	AccessToken   string
	Timeout       time.Duration
}

func New(p Params) *Store {
	if p.BaseURL == "" {
		p.BaseURL = defaultBaseURL
	}
	if p.SheetRange == "" {
		p.SheetRange = "Sheet1"
	}
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}

	client := api.NewClient(
		api.WithBaseURL(p.BaseURL),
		api.WithTimeout(p.Timeout),
		api.WithHeader("Authorization", "Bearer "+p.AccessToken),
		api.WithLogging(true),
	)

	return &Store{
		client:        client,
		spreadsheetID: p.SpreadsheetID,
		sheetRange:    p.SheetRange,
	}
}

// valueRange mirrors the Sheets values payload. Cells come back as strings
// or JSON numbers depending on the sheet formatting.
type valueRange struct {
	Values [][]any `json:"values"`
}

// Open verifies the spreadsheet is reachable and we are authorized.
func (s *Store) Open(ctx context.Context) error {
	url := fmt.Sprintf("/v4/spreadsheets/%s?fields=spreadsheetId", s.spreadsheetID)
	if _, err := s.client.GET(ctx, url); err != nil {
		return fmt.Errorf("sheet open: %w", err)
	}
	return nil
}

func (s *Store) ReadAll(ctx context.Context) ([][]string, error) {
	url := fmt.Sprintf("/v4/spreadsheets/%s/values/%s", s.spreadsheetID, s.sheetRange)
	resp, err := s.client.GET(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("sheet read: %w", err)
	}

	var vr valueRange
	if err := resp.ParseJSON(&vr); err != nil {
		return nil, fmt.Errorf("sheet read: %w", err)
	}

	rows := make([][]string, 0, len(vr.Values))
	for _, raw := range vr.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = cellString(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) Append(ctx context.Context, row []string) error {
	url := fmt.Sprintf("/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS",
		s.spreadsheetID, s.sheetRange)

	body := map[string]any{"values": [][]string{row}}
	if _, err := s.client.POST(ctx, url, body); err != nil {
		return fmt.Errorf("sheet append: %w", err)
	}
	return nil
}

// cellString renders a sheet cell without falling into float exponent
// notation, which would corrupt numeric columns on the next replay.
func cellString(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
