package ledger

import (
	"context"
	"fmt"

	"trade-ledger-bot/internal/logger"
	"trade-ledger-bot/internal/types"
)

// maxLedgerRows bounds how far down the sheet reads go. Wide enough for any
// realistic personal ledger.
const maxLedgerRows = 2000

// Transport is the raw sheet I/O the client is built on. Implementations
// translate their own failures into the sentinel errors of this package.
type Transport interface {
	// Grid reports the current row and column counts of the named sheet.
	Grid(ctx context.Context, sheetName string) (rows, cols int, err error)
	// Resize grows the named sheet to the given row and column counts.
	Resize(ctx context.Context, sheetName string, rows, cols int) error
	// Read returns the cell values of an A1 range, row-major.
	Read(ctx context.Context, rangeA1 string) ([][]string, error)
	// Write stores values at an A1 range, letting the backing store
	// interpret typed values (dates, numbers) from their string form.
	Write(ctx context.Context, rangeA1 string, values [][]string) error
}

// Client orchestrates row mapping, slot finding and capacity growth against
// the backing store.
type Client struct {
	tp     Transport
	schema Schema
}

func NewClient(tp Transport, schema Schema) *Client {
	return &Client{tp: tp, schema: schema}
}

// AppendTrade writes one trade into the first reusable blank row, growing
// the sheet when needed. The header row is re-read on every call so column
// reordering between calls is survivable. The read-scan-write sequence is
// not locked; see FindTargetRow.
func (c *Client) AppendTrade(ctx context.Context, trade types.TradeRecord) (err error) {
	op := logger.StartOperation(ctx, "ledger.AppendTrade")
	ctx = op.GetContext()
	defer func() {
		if err != nil {
			op.EndWithError(err)
		} else {
			op.End()
		}
	}()

	idx, err := c.headerIndex(ctx)
	if err != nil {
		return err
	}

	row, err := BuildRow(trade, idx, c.schema)
	if err != nil {
		return fmt.Errorf("map trade to row: %w", err)
	}

	existing, err := c.tp.Read(ctx, c.dataRange())
	if err != nil {
		return fmt.Errorf("read ledger rows: %w", err)
	}

	target := FindTargetRow(existing, c.schema.FirstDataRow)

	if err := c.ensureCapacity(ctx, target, len(row)); err != nil {
		return err
	}

	writeRange := fmt.Sprintf("%s!A%d", c.schema.SheetName, target)
	if err := c.tp.Write(ctx, writeRange, [][]string{row}); err != nil {
		return fmt.Errorf("write trade row: %w", err)
	}

	logger.Info(ctx, "Trade appended to ledger",
		"sheet", c.schema.SheetName,
		"row", target,
		"symbol", trade.Symbol,
		"side", trade.Side,
	)
	return nil
}

// ReadAllTrades returns every data row projected into a map keyed by header
// text, with missing cells defaulted to empty string. Row order matches the
// sheet, oldest trades first under append-only usage.
func (c *Client) ReadAllTrades(ctx context.Context) (out []map[string]string, err error) {
	op := logger.StartOperation(ctx, "ledger.ReadAllTrades")
	ctx = op.GetContext()
	defer func() {
		if err != nil {
			op.EndWithError(err)
		} else {
			op.End()
		}
	}()

	idx, err := c.headerIndex(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := c.tp.Read(ctx, c.dataRange())
	if err != nil {
		return nil, fmt.Errorf("read ledger rows: %w", err)
	}

	out = make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(idx))
		for header, col := range idx {
			if col < len(row) {
				rec[header] = row[col]
			} else {
				rec[header] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// headerIndex reads the live header row and inverts it. Deliberately
// recomputed per operation, never cached across calls.
func (c *Client) headerIndex(ctx context.Context) (HeaderIndex, error) {
	headerRange := fmt.Sprintf("%s!%d:%d", c.schema.SheetName, c.schema.HeaderRow, c.schema.HeaderRow)
	rows, err := c.tp.Read(ctx, headerRange)
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	return BuildHeaderIndex(header), nil
}

func (c *Client) dataRange() string {
	return fmt.Sprintf("%s!A%d:ZZ%d", c.schema.SheetName, c.schema.FirstDataRow, maxLedgerRows)
}
