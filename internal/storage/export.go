package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Students"

// ExportAllStudentsToExcel writes every stored record into a spreadsheet
// under <dir>/reports and returns the file path.
func (s *FileStorage) ExportAllStudentsToExcel(ctx context.Context) (string, error) {
	records, err := s.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch students: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"User ID", "First Name", "Last Name", "Grade", "Major",
		"Province", "City", "Phone", "Payment Status",
		"Registered At", "Last Updated",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(exportSheet, "A1", endCell, style)

	for row, record := range records {
		data := []interface{}{
			record.UserID,
			record.FirstName,
			record.LastName,
			record.Grade,
			record.Major,
			record.Province,
			record.City,
			record.Phone,
			string(record.PaymentStatus),
			record.RegisteredAt.Format("2006-01-02 15:04"),
			record.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(exportSheet, cell, value)
		}
	}

	f.SetActiveSheet(index)

	reportsDir := filepath.Join(s.dir, "reports")
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(reportsDir, fmt.Sprintf("students_%s.xlsx", s.now().Format("20060102")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return path, nil
}
