package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/peter-kozarec/barsim/pkg/ledger"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

func Test_WriteCurve(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	curve := &ledger.Curve{
		Symbols: []string{"ABC"},
		Rows: []ledger.Row{
			{
				TimeStamp:  t0,
				Values:     map[string]fixed.Point{"ABC": fixed.Zero},
				Cash:       fixed.FromInt64(1000, 0),
				Commission: fixed.Zero,
				TotalValue: fixed.FromInt64(1000, 0),
				Return:     fixed.Zero,
				Equity:     fixed.One,
				Drawdown:   fixed.Zero,
			},
			{
				TimeStamp:  t0.AddDate(0, 0, 1),
				Values:     map[string]fixed.Point{"ABC": fixed.FromInt64(12, 0)},
				Cash:       fixed.FromInt64(988, 0),
				Commission: fixed.Zero,
				TotalValue: fixed.FromInt64(1000, 0),
				Return:     fixed.Zero,
				Equity:     fixed.One,
				Drawdown:   fixed.Zero,
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteCurve(&buf, curve); err != nil {
		t.Fatalf("WriteCurve failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}

	header := records[0]
	want := []string{"timestamp", "ABC", "cash", "commission", "total_value", "returns", "equity_curve", "drawdown"}
	if len(header) != len(want) {
		t.Fatalf("header length: got %d, want %d", len(header), len(want))
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d]: got %q, want %q", i, header[i], want[i])
		}
	}

	if records[1][0] != "2024-01-01T00:00:00Z" {
		t.Errorf("timestamp: got %q", records[1][0])
	}
	if records[2][1] != "12" {
		t.Errorf("holding value: got %q", records[2][1])
	}
	if records[1][2] != "1000" {
		t.Errorf("cash: got %q", records[1][2])
	}
}

func Test_WriteCurveEmpty(t *testing.T) {
	curve := &ledger.Curve{Symbols: []string{"ABC"}}

	var buf bytes.Buffer
	if err := WriteCurve(&buf, curve); err != nil {
		t.Fatalf("WriteCurve failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d records", len(records))
	}
}
