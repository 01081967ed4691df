package sheets

import (
	"time"

	"cloud.google.com/go/civil"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/HiDoYa/finance-pipeline/internal/domain"
)

// Destination sheet layout. The Category column holds the SWITCH
// formula deriving a display group from the Sub Category column.
var headerRow = []string{"Date", "Description", "Sub Category", "Category", "Amount"}

const (
	columnCount       = int64(5)
	subcategoryColumn = int64(2) // "Sub Category"
	categoryColumn    = int64(3) // "Category" (formula)
	categoryColWidth  = int64(160)
	sheetRowCount     = int64(2000)
)

// sheetsEpoch is day zero of the spreadsheet serial date system.
var sheetsEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func dateSerial(d civil.Date) float64 {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Sub(sheetsEpoch).Hours() / 24
}

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }

// headerRequest appends the bold header row to a just-created sheet.
func headerRequest(sheetID int64) *sheetsapi.Request {
	cells := make([]*sheetsapi.CellData, len(headerRow))
	for i, name := range headerRow {
		cells[i] = &sheetsapi.CellData{
			UserEnteredValue:  &sheetsapi.ExtendedValue{StringValue: strp(name)},
			UserEnteredFormat: &sheetsapi.CellFormat{TextFormat: &sheetsapi.TextFormat{Bold: true}},
		}
	}
	return &sheetsapi.Request{
		AppendCells: &sheetsapi.AppendCellsRequest{
			SheetId: sheetID,
			Rows:    []*sheetsapi.RowData{{Values: cells}},
			Fields:  "userEnteredValue,userEnteredFormat",
		},
	}
}

func freezeHeaderRequest(sheetID int64) *sheetsapi.Request {
	return &sheetsapi.Request{
		UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
			Properties: &sheetsapi.SheetProperties{
				SheetId:        sheetID,
				GridProperties: &sheetsapi.GridProperties{FrozenRowCount: 1},
			},
			Fields: "gridProperties.frozenRowCount",
		},
	}
}

func gridSizeRequest(sheetID int64) *sheetsapi.Request {
	return &sheetsapi.Request{
		UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
			Properties: &sheetsapi.SheetProperties{
				SheetId: sheetID,
				GridProperties: &sheetsapi.GridProperties{
					RowCount:    sheetRowCount,
					ColumnCount: columnCount,
				},
			},
			Fields: "gridProperties(rowCount,columnCount)",
		},
	}
}

// appendRowRequest appends one transaction row: date-typed cell,
// description, raw subcategory, the display-group formula, and a
// currency-typed amount.
func appendRowRequest(sheetID int64, t domain.Transaction, formula string) *sheetsapi.Request {
	amount, _ := t.Amount.Float64()
	values := []*sheetsapi.CellData{
		{
			UserEnteredValue:  &sheetsapi.ExtendedValue{NumberValue: f64p(dateSerial(t.Date))},
			UserEnteredFormat: &sheetsapi.CellFormat{NumberFormat: &sheetsapi.NumberFormat{Type: "DATE", Pattern: "m/d/yyyy"}},
		},
		{UserEnteredValue: &sheetsapi.ExtendedValue{StringValue: strp(t.Description)}},
		{UserEnteredValue: &sheetsapi.ExtendedValue{StringValue: strp(t.Category)}},
		{UserEnteredValue: &sheetsapi.ExtendedValue{FormulaValue: strp(formula)}},
		{
			UserEnteredValue:  &sheetsapi.ExtendedValue{NumberValue: f64p(amount)},
			UserEnteredFormat: &sheetsapi.CellFormat{NumberFormat: &sheetsapi.NumberFormat{Type: "CURRENCY", Pattern: "$#,##0.00"}},
		},
	}
	return &sheetsapi.Request{
		AppendCells: &sheetsapi.AppendCellsRequest{
			SheetId: sheetID,
			Rows:    []*sheetsapi.RowData{{Values: values}},
			Fields:  "userEnteredValue,userEnteredFormat",
		},
	}
}

// validationRequest restricts the subcategory column to a drop-down of
// the known subcategory names. Strict is off so hand-entered values
// are warned about, not rejected.
func validationRequest(sheetID int64, subcategories []string) *sheetsapi.Request {
	values := make([]*sheetsapi.ConditionValue, len(subcategories))
	for i, sub := range subcategories {
		values[i] = &sheetsapi.ConditionValue{UserEnteredValue: sub}
	}
	return &sheetsapi.Request{
		SetDataValidation: &sheetsapi.SetDataValidationRequest{
			Range: &sheetsapi.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    1,
				StartColumnIndex: subcategoryColumn,
				EndColumnIndex:   subcategoryColumn + 1,
			},
			Rule: &sheetsapi.DataValidationRule{
				Condition:    &sheetsapi.BooleanCondition{Type: "ONE_OF_LIST", Values: values},
				ShowCustomUi: true,
			},
		},
	}
}

func autoResizeRequest(sheetID int64) *sheetsapi.Request {
	return &sheetsapi.Request{
		AutoResizeDimensions: &sheetsapi.AutoResizeDimensionsRequest{
			Dimensions: &sheetsapi.DimensionRange{
				SheetId:   sheetID,
				Dimension: "COLUMNS",
				EndIndex:  columnCount,
			},
		},
	}
}

// categoryWidthRequest pins the formula column's width; auto-resize
// would size it to the formula text instead of the displayed group.
func categoryWidthRequest(sheetID int64) *sheetsapi.Request {
	return &sheetsapi.Request{
		UpdateDimensionProperties: &sheetsapi.UpdateDimensionPropertiesRequest{
			Range: &sheetsapi.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: categoryColumn,
				EndIndex:   categoryColumn + 1,
			},
			Properties: &sheetsapi.DimensionProperties{PixelSize: categoryColWidth},
			Fields:     "pixelSize",
		},
	}
}
