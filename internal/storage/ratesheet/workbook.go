package ratesheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"rate_desk/internal/domain"
)

// readWorkbook returns the rows of the first sheet of an Excel workbook.
func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataUnavailable, path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", domain.ErrDataUnavailable, sheet, err)
	}
	return rows, nil
}
