package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ForexPulse/internal/model"
)

// SheetsSink appends each alert record as one row to a Google Sheet via the
// values:append REST endpoint.
type SheetsSink struct {
	SpreadsheetID string
	Range         string
	Token         string // OAuth bearer token for the service account
	Client        *http.Client
	BaseURL       string
}

// NewSheetsSink creates the spreadsheet sink. Range defaults to Sheet1.
func NewSheetsSink(spreadsheetID, sheetRange, token string) *SheetsSink {
	if sheetRange == "" {
		sheetRange = "Sheet1"
	}
	return &SheetsSink{
		SpreadsheetID: spreadsheetID,
		Range:         sheetRange,
		Token:         token,
		Client:        &http.Client{Timeout: 30 * time.Second},
		BaseURL:       "https://sheets.googleapis.com",
	}
}

func (s *SheetsSink) Name() string { return "sheets" }

// Deliver appends the record's ordered fields as one row.
func (s *SheetsSink) Deliver(ctx context.Context, rec *model.AlertRecord) error {
	fields := rec.Fields()
	row := make([]interface{}, len(fields))
	for i, f := range fields {
		row[i] = f
	}
	payload := map[string]interface{}{
		"values": [][]interface{}{row},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED",
		s.BaseURL, url.PathEscape(s.SpreadsheetID), url.PathEscape(s.Range))
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheets API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
