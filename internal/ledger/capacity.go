package ledger

import "context"

// growthBuffer is the extra row headroom added on resize so consecutive
// appends do not each trigger their own grow request.
const growthBuffer = 10

// ensureCapacity makes sure the sheet can hold at least minRows rows and
// minCols columns. When both minimums are already met this is a no-op with
// no write traffic; otherwise exactly one resize request is issued.
func (c *Client) ensureCapacity(ctx context.Context, minRows, minCols int) error {
	rows, cols, err := c.tp.Grid(ctx, c.schema.SheetName)
	if err != nil {
		return err
	}
	if rows >= minRows && cols >= minCols {
		return nil
	}

	newRows := rows
	if minRows+growthBuffer > newRows {
		newRows = minRows + growthBuffer
	}
	newCols := cols
	if minCols > newCols {
		newCols = minCols
	}
	return c.tp.Resize(ctx, c.schema.SheetName, newRows, newCols)
}
