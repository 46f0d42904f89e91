package output

import (
	"fmt"
	"hours/internal/timeutil"

	"github.com/xuri/excelize/v2"
)

var reportHeaders = []string{"Date", "Project", "Task", "Duration", "Amount"}

var reportColumnWidths = []float64{12, 20, 20, 12, 15}

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, report Report) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if report.SheetName != "" && report.SheetName != sheet {
		if err := file.SetSheetName(sheet, report.SheetName); err != nil {
			return fmt.Errorf("rename excel sheet to %q: %w", report.SheetName, err)
		}
		sheet = report.SheetName
	}

	styles := newExcelStyles(file)
	bold, err := styles.get("", true)
	if err != nil {
		return err
	}
	hoursStyle, err := styles.get("0.00", false)
	if err != nil {
		return err
	}

	for col, header := range reportHeaders {
		if err := setExcelCell(file, sheet, col+1, 1, header, bold); err != nil {
			return err
		}
		colName, _ := excelize.ColumnNumberToName(col + 1)
		if err := file.SetColWidth(sheet, colName, colName, reportColumnWidths[col]); err != nil {
			return fmt.Errorf("set excel column width %s: %w", colName, err)
		}
	}

	for i, entry := range report.Entries {
		row := i + 2
		moneyStyle, err := styles.get(moneyNumFmt(entry.Client.Currency), false)
		if err != nil {
			return err
		}

		cells := []struct {
			value any
			style int
		}{
			{timeutil.FormatDay(entry.Day), 0},
			{entry.Project, 0},
			{entry.Task, 0},
			{entry.Hours, hoursStyle},
			{entry.Amount().Round(2).InexactFloat64(), moneyStyle},
		}
		for col, cell := range cells {
			if err := setExcelCell(file, sheet, col+1, row, cell.value, cell.style); err != nil {
				return err
			}
		}
	}

	if err := writeExcelTotals(file, sheet, styles, report); err != nil {
		return err
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

// writeExcelTotals leaves one blank row after the data and writes live SUM
// formulas over the data ranges.
func writeExcelTotals(file *excelize.File, sheet string, styles *excelStyles, report Report) error {
	lastDataRow := len(report.Entries) + 1
	totalRow := lastDataRow + 2
	summary := Summarize(report.Entries)

	bold, err := styles.get("", true)
	if err != nil {
		return err
	}
	boldHours, err := styles.get("0.00", true)
	if err != nil {
		return err
	}

	if err := setExcelCell(file, sheet, 3, totalRow, "Total", bold); err != nil {
		return err
	}

	if len(report.Entries) == 0 {
		if err := setExcelCell(file, sheet, 4, totalRow, 0.0, boldHours); err != nil {
			return err
		}
		return setExcelCell(file, sheet, 5, totalRow, summary.FormatAmount(), bold)
	}

	if err := setExcelFormula(file, sheet, 4, totalRow, fmt.Sprintf("SUM(D2:D%d)", lastDataRow), boldHours); err != nil {
		return err
	}
	if !summary.AmountKnown() {
		return setExcelCell(file, sheet, 5, totalRow, summary.FormatAmount(), bold)
	}

	boldMoney, err := styles.get(moneyNumFmt(summary.Currency), true)
	if err != nil {
		return err
	}
	return setExcelFormula(file, sheet, 5, totalRow, fmt.Sprintf("SUM(E2:E%d)", lastDataRow), boldMoney)
}

func moneyNumFmt(currency string) string {
	return fmt.Sprintf(`"%s"#,##0.00`, CurrencySymbol(currency))
}

type excelStyleKey struct {
	numFmt string
	bold   bool
}

// excelStyles creates each number-format/weight combination once per workbook.
type excelStyles struct {
	file *excelize.File
	ids  map[excelStyleKey]int
}

func newExcelStyles(file *excelize.File) *excelStyles {
	return &excelStyles{file: file, ids: make(map[excelStyleKey]int)}
}

func (s *excelStyles) get(numFmt string, bold bool) (int, error) {
	key := excelStyleKey{numFmt: numFmt, bold: bold}
	if id, ok := s.ids[key]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if bold {
		style.Font = &excelize.Font{Bold: true}
	}
	if numFmt != "" {
		custom := numFmt
		style.CustomNumFmt = &custom
	}

	id, err := s.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create excel style %q: %w", numFmt, err)
	}
	s.ids[key] = id
	return id, nil
}

func setExcelCell(file *excelize.File, sheet string, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("excel cell name: %w", err)
	}
	if err := file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set excel value %s: %w", cell, err)
	}
	return applyExcelStyle(file, sheet, cell, style)
}

func setExcelFormula(file *excelize.File, sheet string, col, row int, formula string, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("excel cell name: %w", err)
	}
	if err := file.SetCellFormula(sheet, cell, formula); err != nil {
		return fmt.Errorf("set excel formula %s: %w", cell, err)
	}
	return applyExcelStyle(file, sheet, cell, style)
}

func applyExcelStyle(file *excelize.File, sheet, cell string, style int) error {
	if style == 0 {
		return nil
	}
	if err := file.SetCellStyle(sheet, cell, cell, style); err != nil {
		return fmt.Errorf("set excel style %s: %w", cell, err)
	}
	return nil
}
