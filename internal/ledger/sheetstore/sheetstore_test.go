package sheetstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestStore(handler http.HandlerFunc) (*Store, *httptest.Server) {
	srv := httptest.NewServer(handler)
	s := New(Params{
		BaseURL:       srv.URL,
		SpreadsheetID: "sheet-123",
		AccessToken:   "token-abc",
	})
	return s, srv
}

func TestOpenSendsAuthorization(t *testing.T) {
	var gotPath, gotAuth string
	s, srv := newTestStore(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"spreadsheetId":"sheet-123"}`)
	})
	defer srv.Close()

	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if gotPath != "/v4/spreadsheets/sheet-123" {
		t.Errorf("Unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("Unexpected auth header %q", gotAuth)
	}
}

func TestOpenUnauthorizedFails(t *testing.T) {
	s, srv := newTestStore(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":401}}`, http.StatusUnauthorized)
	})
	defer srv.Close()

	if err := s.Open(context.Background()); err == nil {
		t.Fatal("Expected an error for 401")
	}
}

func TestReadAllCoercesCellTypes(t *testing.T) {
	s, srv := newTestStore(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/spreadsheets/sheet-123/values/Sheet1" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		// The sheet returns numeric cells as JSON numbers; big balances must
		// not come back in exponent notation.
		fmt.Fprint(w, `{"values":[
			["timestamp","type","ticker","name","price","qty","amount","balance_after"],
			["2026-03-02 10:30:00","BUY",5930,"Samsung Electronics",70000,10,700000,9300000]
		]}`)
	})
	defer srv.Close()

	rows, err := s.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	got := rows[1]
	if got[2] != "5930" {
		t.Errorf("Expected numeric ticker as plain string, got %q", got[2])
	}
	if got[7] != "9300000" {
		t.Errorf("Expected plain decimal balance, got %q", got[7])
	}
}

func TestReadAllEmptySheet(t *testing.T) {
	s, srv := newTestStore(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"range":"Sheet1!A1:H1"}`) // no values key at all
	})
	defer srv.Close()

	rows, err := s.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}

func TestAppendPostsRawRow(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody struct {
		Values [][]string `json:"values"`
	}
	s, srv := newTestStore(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Bad append body: %v", err)
		}
		fmt.Fprint(w, `{"updates":{"updatedRows":1}}`)
	})
	defer srv.Close()

	row := []string{"2026-03-02 10:30:00", "BUY", "005930", "Samsung Electronics", "70000", "10", "700000", "9300000"}
	if err := s.Append(context.Background(), row); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if gotPath != "/v4/spreadsheets/sheet-123/values/Sheet1:append" {
		t.Errorf("Unexpected path %q", gotPath)
	}
	if gotQuery != "valueInputOption=RAW&insertDataOption=INSERT_ROWS" {
		t.Errorf("Unexpected query %q", gotQuery)
	}
	if len(gotBody.Values) != 1 || gotBody.Values[0][2] != "005930" {
		t.Errorf("Unexpected append payload: %+v", gotBody.Values)
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"abc", "abc"},
		{float64(9_300_000), "9300000"},
		{float64(70000.5), "70000.5"},
		{true, "true"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := cellString(tt.in); got != tt.want {
			t.Errorf("cellString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
