package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/peter-kozarec/barsim/pkg/ledger"
)

// WriteCurve renders the equity curve as csv, one row per calendar step.
// Columns are the timestamp, per-symbol holding values in stream order, then
// cash, commission, total value, step return, equity and drawdown.
func WriteCurve(w io.Writer, curve *ledger.Curve) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(curve.Symbols)+7)
	header = append(header, "timestamp")
	header = append(header, curve.Symbols...)
	header = append(header, "cash", "commission", "total_value", "returns", "equity_curve", "drawdown")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %w", err)
	}

	record := make([]string, 0, len(header))
	for _, row := range curve.Rows {
		record = record[:0]
		record = append(record, row.TimeStamp.UTC().Format(time.RFC3339))
		for _, symbol := range curve.Symbols {
			record = append(record, row.Values[symbol].String())
		}
		record = append(record,
			row.Cash.String(),
			row.Commission.String(),
			row.TotalValue.String(),
			row.Return.String(),
			row.Equity.String(),
			row.Drawdown.String())
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("unable to write row at %s: %w", row.TimeStamp, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCurveFile writes the curve to path, creating or truncating it.
func WriteCurveFile(path string, curve *ledger.Curve) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return WriteCurve(f, curve)
}
