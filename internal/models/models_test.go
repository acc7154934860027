package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPercentChange_UnmarshalStringAndNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"-12.50"`, "-12.5"},
		{`-7.25`, "-7.25"},
		{`"-3.1%"`, "-3.1"},
		{`null`, "0"},
		{`""`, "0"},
	}
	for _, tt := range tests {
		var p PercentChange
		if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if got := p.String(); got != tt.want {
			t.Errorf("unmarshal %s = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPercentChange_InvalidInputIsZero(t *testing.T) {
	for _, in := range []string{`"abc"`, `"N/A"`, `"%"`} {
		p := NewPercentChange("-3")
		if err := json.Unmarshal([]byte(in), &p); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if !p.IsZero() {
			t.Errorf("unmarshal %s = %s, want 0", in, p.String())
		}
	}
}

func TestBigCapLoser_MalformedRowKeepsList(t *testing.T) {
	raw := `[{"symbol":"XYZ","percent_change":"-12.50"},{"symbol":"ABC","percent_change":"N/A"}]`
	var rows []BigCapLoser
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		t.Fatalf("expected list to decode, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].PercentChange.StringFixed(2) != "-12.50" || !rows[1].PercentChange.IsZero() {
		t.Errorf("unexpected changes %s, %s", rows[0].PercentChange, rows[1].PercentChange)
	}
}

func TestPercentChange_MarshalKeepsTwoDecimals(t *testing.T) {
	b, err := json.Marshal(NewPercentChange("-12.5"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"-12.50"` {
		t.Errorf("expected \"-12.50\", got %s", b)
	}
}

func TestBigCapLoser_DecodesBackendShape(t *testing.T) {
	raw := `{"symbol":"XYZ","percent_change":"-12.50","market_cap_formatted":"$5.2B",
		"recommendation":{"symbol":"XYZ","action":"buy","normalized_score":0.72}}`
	var l BigCapLoser
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatal(err)
	}
	if l.Symbol != "XYZ" || l.MarketCapFormatted != "$5.2B" {
		t.Errorf("unexpected loser: %+v", l)
	}
	if l.PercentChange.StringFixed(2) != "-12.50" {
		t.Errorf("expected -12.50, got %s", l.PercentChange.StringFixed(2))
	}
	if l.Recommendation == nil || l.Recommendation.NormalizedScore != 0.72 {
		t.Errorf("expected embedded recommendation, got %+v", l.Recommendation)
	}
}

func TestTimestamp_Layouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2026-03-02T14:30:00Z"`, time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)},
		{`"2026-03-02T14:30:00"`, time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)},
		{`"2026-03-02 14:30:00"`, time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)},
		{`"2026-03-02"`, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{`1772461800`, time.Unix(1772461800, 0).UTC()},
	}
	for _, tt := range tests {
		var ts Timestamp
		if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if !ts.Equal(tt.want) {
			t.Errorf("unmarshal %s = %v, want %v", tt.in, ts.Time, tt.want)
		}
	}
}

func TestTimestamp_NullAndEmpty(t *testing.T) {
	for _, in := range []string{`null`, `""`} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(in), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if !ts.IsZero() {
			t.Errorf("expected zero time for %s", in)
		}
	}
	b, _ := json.Marshal(Timestamp{})
	if string(b) != "null" {
		t.Errorf("expected null, got %s", b)
	}
}

func TestTimestamp_Garbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected error for unrecognised layout")
	}
}

func TestNormalizeAction(t *testing.T) {
	tests := map[string]Action{
		"buy":   ActionBuy,
		" SELL": ActionSell,
		"Hold":  ActionHold,
		"":      "",
		"short": "",
	}
	for in, want := range tests {
		if got := NormalizeAction(in); got != want {
			t.Errorf("NormalizeAction(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeConnectorState(t *testing.T) {
	if got := NormalizeConnectorState("connected"); got != ConnectorConnected {
		t.Errorf("expected connected, got %s", got)
	}
	if got := NormalizeConnectorState("degraded"); got != ConnectorUnknown {
		t.Errorf("expected unknown, got %s", got)
	}
}
