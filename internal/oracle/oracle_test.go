package oracle

import (
	"testing"
	"time"
)

func TestResolveSymbol(t *testing.T) {
	tests := []struct {
		ticker string
		want   string
	}{
		{"005930", "005930.KS"},
		{"000660", "000660.KS"},
		{"AAPL", "AAPL"},
		{"BRK.B", "BRK.B"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ResolveSymbol(tt.ticker); got != tt.want {
			t.Errorf("ResolveSymbol(%q) = %q, want %q", tt.ticker, got, tt.want)
		}
	}
}

func TestNameCacheHitAndExpiry(t *testing.T) {
	c := newNameCache(20 * time.Millisecond)

	if _, ok := c.get("005930.KS"); ok {
		t.Error("Expected miss on empty cache")
	}

	c.set("005930.KS", "Samsung Electronics")
	name, ok := c.get("005930.KS")
	if !ok || name != "Samsung Electronics" {
		t.Errorf("Expected cached name, got %q ok=%v", name, ok)
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.get("005930.KS"); ok {
		t.Error("Expected expiry after TTL")
	}
}
