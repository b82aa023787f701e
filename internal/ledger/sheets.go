package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsTransport implements Transport against the Google Sheets API.
// Credentials come from Application Default Credentials, so setting
// GOOGLE_APPLICATION_CREDENTIALS to a service-account key file is enough.
type SheetsTransport struct {
	svc           *sheets.Service
	spreadsheetID string
}

var _ Transport = (*SheetsTransport)(nil)

func NewSheetsTransport(ctx context.Context, spreadsheetID string) (*SheetsTransport, error) {
	svc, err := sheets.NewService(ctx, option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsTransport{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (t *SheetsTransport) Grid(ctx context.Context, sheetName string) (int, int, error) {
	props, err := t.sheetProps(ctx, sheetName)
	if err != nil {
		return 0, 0, err
	}
	if props.GridProperties == nil {
		return 0, 0, nil
	}
	return int(props.GridProperties.RowCount), int(props.GridProperties.ColumnCount), nil
}

func (t *SheetsTransport) Resize(ctx context.Context, sheetName string, rows, cols int) error {
	props, err := t.sheetProps(ctx, sheetName)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: props.SheetId,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
				Fields: "gridProperties(rowCount,columnCount)",
			},
		}},
	}
	if _, err := t.svc.Spreadsheets.BatchUpdate(t.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return t.wrapErr("resize sheet", err)
	}
	return nil
}

func (t *SheetsTransport) Read(ctx context.Context, rangeA1 string) ([][]string, error) {
	resp, err := t.svc.Spreadsheets.Values.Get(t.spreadsheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return nil, t.wrapErr("read range "+rangeA1, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if cell == nil {
				continue
			}
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (t *SheetsTransport) Write(ctx context.Context, rangeA1 string, values [][]string) error {
	vr := &sheets.ValueRange{Values: make([][]interface{}, len(values))}
	for i, row := range values {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		vr.Values[i] = cells
	}
	// USER_ENTERED lets the sheet re-type dates and numbers from their
	// string form, matching what a human typing the row would get.
	_, err := t.svc.Spreadsheets.Values.Update(t.spreadsheetID, rangeA1, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return t.wrapErr("write range "+rangeA1, err)
	}
	return nil
}

// sheetProps finds the named sheet in the spreadsheet metadata.
func (t *SheetsTransport) sheetProps(ctx context.Context, sheetName string) (*sheets.SheetProperties, error) {
	ss, err := t.svc.Spreadsheets.Get(t.spreadsheetID).
		Fields("sheets(properties(sheetId,title,gridProperties(rowCount,columnCount)))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, t.wrapErr("load spreadsheet metadata", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == sheetName {
			return sh.Properties, nil
		}
	}
	return nil, fmt.Errorf("%w: no sheet titled %q in spreadsheet %s", ErrSheetNotFound, sheetName, t.spreadsheetID)
}

// wrapErr translates Google API failures into the package taxonomy, always
// naming the spreadsheet and what to do about it.
func (t *SheetsTransport) wrapErr(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s on spreadsheet %s: %v (share the spreadsheet with the service account email)",
				ErrPermissionDenied, op, t.spreadsheetID, gerr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s: spreadsheet %s was not found (check SPREADSHEET_ID)",
				ErrBackingStore, op, t.spreadsheetID)
		}
	}
	return fmt.Errorf("%w: %s on spreadsheet %s: %v", ErrBackingStore, op, t.spreadsheetID, err)
}
