// Package render turns an extraction result into the styled quotation
// workbook handed to the sales team. All currency conversion lives here;
// the engine only ever reports what the document said.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/quoteparse/quote-extractor/internal/engine"
)

// usdToAED is the fixed conversion rate applied in the rendered sheet.
const usdToAED = 3.6725

const (
	sheetName = "Quotation"

	headerRow    = 16 // merged with headerRow+1
	firstDataRow = 18
)

var columnTitles = []string{
	"Sl", "SKU", "Product Description", "Quantity", "Start Date", "End Date",
	"Unit Price in AED", "Cost (USD)", "Total Price in AED",
	"Partner Discount", "Partner Price in AED",
}

// Column letters for the quotation table. The table starts at B so the
// sheet keeps a margin column, matching the house layout.
var columns = []string{"B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}

// Labels rendered into the metadata block, in display order. Absent header
// fields leave their value cell empty.
var metadataLabels = []string{
	"Customer Name",
	"Reseller Name",
	"Bid Number",
	"PA Agreement Number",
	"PA Site Number",
	"IBM Opportunity Number",
	"Select Territory",
	"Government Entity (GOE)",
	"Maximum End User Price (MEP)",
}

// itemRow is one rendered table row, collapsed from a record or a
// multi-period group.
type itemRow struct {
	sku         string
	description string
	quantity    int
	start       string
	end         string
	unitUSD     float64
	totalUSD    float64
	needsReview bool
}

// BuildWorkbook renders the result into a new workbook. terms is the raw
// text of the document's final page; empty terms omit the section.
func BuildWorkbook(res *engine.Result, terms string) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheetName)

	if err := writeBranding(f); err != nil {
		return nil, err
	}
	if err := writeMetadata(f, res.Header); err != nil {
		return nil, err
	}
	if err := writeTableHeader(f); err != nil {
		return nil, err
	}

	rows := collapseItems(res)
	lastRow, err := writeRows(f, rows)
	if err != nil {
		return nil, err
	}
	if err := writeTerms(f, terms, lastRow+2); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteFile renders the result and saves the workbook at path.
func WriteFile(res *engine.Result, terms, path string) error {
	f, err := BuildWorkbook(res, terms)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// collapseItems reduces the result to one table row per logical item.
// Grouped layouts collapse each multi-period run into a single row whose
// total spans every period; ungrouped layouts map records one to one.
func collapseItems(res *engine.Result) []itemRow {
	if len(res.Groups) > 0 {
		rows := make([]itemRow, 0, len(res.Groups))
		for i := range res.Groups {
			g := &res.Groups[i]
			first := &g.Records[0]
			last := &g.Records[len(g.Records)-1]
			rows = append(rows, itemRow{
				sku:         g.Identifier,
				description: first.Description,
				quantity:    first.Quantity,
				start:       periodStart(first),
				end:         periodEnd(last),
				unitUSD:     first.UnitPrice(),
				totalUSD:    g.TotalValue(),
				needsReview: first.NeedsReview,
			})
		}
		return rows
	}

	rows := make([]itemRow, 0, len(res.Records))
	for i := range res.Records {
		rec := &res.Records[i]
		rows = append(rows, itemRow{
			sku:         rec.Identifier,
			description: rec.Description,
			quantity:    rec.Quantity,
			start:       periodStart(rec),
			end:         periodEnd(rec),
			unitUSD:     rec.UnitPrice(),
			totalUSD:    rec.Total(),
			needsReview: rec.NeedsReview,
		})
	}
	return rows
}

func periodStart(rec *engine.ExtractedRecord) string {
	if !rec.StartDate.IsZero() {
		return rec.StartDate.Format("02-Jan-2006")
	}
	if !rec.Months.IsZero() {
		return fmt.Sprintf("Month %d", rec.Months.Start)
	}
	return ""
}

func periodEnd(rec *engine.ExtractedRecord) string {
	if !rec.EndDate.IsZero() {
		return rec.EndDate.Format("02-Jan-2006")
	}
	if !rec.Months.IsZero() {
		return fmt.Sprintf("Month %d", rec.Months.End)
	}
	return ""
}

func writeBranding(f *excelize.File) error {
	if err := f.MergeCell(sheetName, "B2", "L2"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, "B2", "QUOTATION"); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "B2", "L2", style); err != nil {
		return err
	}
	return f.SetCellValue(sheetName, "J3",
		fmt.Sprintf("Date: %s", time.Now().Format("02-Jan-2006")))
}

// writeMetadata fills the two label columns under the branding block.
func writeMetadata(f *excelize.File, header engine.HeaderInfo) error {
	row := 5
	for _, label := range metadataLabels {
		if err := f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), label); err != nil {
			return err
		}
		if v, ok := header[label]; ok {
			if err := f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), v); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

func writeTableHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return err
	}
	for i, title := range columnTitles {
		top := fmt.Sprintf("%s%d", columns[i], headerRow)
		bottom := fmt.Sprintf("%s%d", columns[i], headerRow+1)
		if err := f.MergeCell(sheetName, top, bottom); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, top, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, top, bottom, style); err != nil {
			return err
		}
	}
	return nil
}

// writeRows emits the item rows and returns the last row written. Unit and
// partner prices are formulas so the sheet stays live when sales adjusts
// the USD cost by hand.
func writeRows(f *excelize.File, rows []itemRow) (int, error) {
	aedStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(`"AED" #,##0.00`)})
	if err != nil {
		return 0, err
	}
	usdStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(`"USD" #,##0.00`)})
	if err != nil {
		return 0, err
	}

	row := firstDataRow
	for i, item := range rows {
		desc := item.description
		if item.needsReview {
			desc = strings.TrimSpace(desc + " (REVIEW)")
		}
		values := map[string]interface{}{
			"B": i + 1,
			"C": item.sku,
			"D": desc,
			"E": item.quantity,
			"F": item.start,
			"G": item.end,
			"I": item.unitUSD,
			"J": item.totalUSD * usdToAED,
		}
		for col, v := range values {
			if err := f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), v); err != nil {
				return 0, err
			}
		}

		formulas := map[string]string{
			"H": fmt.Sprintf("I%d*%v", row, usdToAED),
			"K": fmt.Sprintf("ROUNDUP(H%d*0.99,2)", row),
			"L": fmt.Sprintf("K%d*E%d", row, row),
		}
		for col, formula := range formulas {
			if err := f.SetCellFormula(sheetName, fmt.Sprintf("%s%d", col, row), formula); err != nil {
				return 0, err
			}
		}

		for _, col := range []string{"H", "J", "K", "L"} {
			cell := fmt.Sprintf("%s%d", col, row)
			if err := f.SetCellStyle(sheetName, cell, cell, aedStyle); err != nil {
				return 0, err
			}
		}
		cell := fmt.Sprintf("I%d", row)
		if err := f.SetCellStyle(sheetName, cell, cell, usdStyle); err != nil {
			return 0, err
		}
		row++
	}
	return row - 1, nil
}

// writeTerms renders the terms and conditions harvested from the last PDF
// page, one line per row.
func writeTerms(f *excelize.File, terms string, startRow int) error {
	terms = strings.TrimSpace(terms)
	if terms == "" {
		return nil
	}

	title := fmt.Sprintf("B%d", startRow)
	if err := f.SetCellValue(sheetName, title, "Terms & Conditions"); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, title, title, style); err != nil {
		return err
	}

	row := startRow + 1
	for _, line := range strings.Split(terms, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line); err != nil {
			return err
		}
		row++
	}
	return nil
}

func ptr(s string) *string { return &s }
