package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/peter-kozarec/barsim/pkg/common"
	"github.com/peter-kozarec/barsim/pkg/utility"
	"github.com/peter-kozarec/barsim/pkg/utility/fixed"
)

const readerComponentName = "data.duckdb.reader"

// Reader loads per-symbol OHLCV history from a duckdb database. Each symbol
// lives in its own <symbol>_bars table with columns
// (ts TIMESTAMP, open, high, low, close, volume DOUBLE), ordered or not;
// rows are read back sorted by ts.
type Reader struct {
	dataSourceName string
	db             *sql.DB
}

func NewReader(dataSourceName string) *Reader {
	return &Reader{
		dataSourceName: dataSourceName,
	}
}

func (r *Reader) Connect() error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open duckdb source %q: %w", r.dataSourceName, err)
	}
	r.db = db
	return nil
}

func (r *Reader) Close() {
	_ = r.db.Close()
}

func (r *Reader) LoadBars(ctx context.Context, symbol string) ([]common.Bar, error) {

	query := fmt.Sprintf(
		`SELECT ts, open, high, low, close, volume FROM %s_bars ORDER BY ts`,
		strings.ToLower(symbol))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying bars for %q: %w", symbol, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var bars []common.Bar
	for rows.Next() {
		var (
			ts                             time.Time
			open, high, low, close, volume float64
		)
		if err := rows.Scan(&ts, &open, &high, &low, &close, &volume); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		bars = append(bars, common.Bar{
			Source:      readerComponentName,
			Symbol:      symbol,
			ExecutionId: utility.GetExecutionID(),
			TraceID:     utility.CreateTraceID(),
			TimeStamp:   ts,
			Open:        fixed.FromFloat64(open),
			High:        fixed.FromFloat64(high),
			Low:         fixed.FromFloat64(low),
			Close:       fixed.FromFloat64(close),
			Volume:      fixed.FromFloat64(volume),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning rows: %w", err)
	}

	return bars, nil
}
