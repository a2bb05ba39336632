package history

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Predictions"

// exportHeaders: fixed columns followed by one column per feature.
var exportHeaders = []string{"ID", "Created At", "Model Version", "Label", "Probability"}

// WriteXLSX writes records as a single-sheet workbook. featureNames label the
// feature columns; when shorter than a record's vector the extra columns are unnamed.
func WriteXLSX(w io.Writer, records []Record, featureNames []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, 0, len(exportHeaders)+len(featureNames))
	for _, h := range exportHeaders {
		header = append(header, h)
	}
	for _, name := range featureNames {
		header = append(header, name)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		row := []interface{}{
			rec.ID,
			rec.CreatedAt.UTC().Format(time.RFC3339),
			rec.ModelVersion,
			rec.Label,
		}
		if rec.Probability != nil {
			row = append(row, *rec.Probability)
		} else {
			row = append(row, "")
		}
		for _, v := range rec.Features {
			row = append(row, v)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
