package services

import (
	"fmt"
	"time"

	"compsite/models"

	"github.com/xuri/excelize/v2"
)

// ExportSheet is the name of the worksheet holding the competitions
const ExportSheet = "Competitions"

var exportHeaders = []string{
	"ID", "Slug", "Title", "Description", "Image", "Start", "End",
	"Status", "Puzzle type", "Puzzle question", "Published", "Created", "Updated",
}

// ExportCompetitions writes the competitions to a workbook, one row per competition
func ExportCompetitions(competitions []models.PublicCompetition) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeCompetitions(f, ExportSheet, competitions); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// writeCompetitions fills the sheet with a header row and one row per competition
func writeCompetitions(f *excelize.File, sheet string, competitions []models.PublicCompetition) error {
	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, c := range competitions {
		row := []interface{}{
			c.ID,
			c.Slug,
			c.Title,
			c.Description,
			c.ImageReference,
			c.StartAt.Format(time.RFC3339),
			c.EndAt.Format(time.RFC3339),
			c.Status,
			derefOrEmpty(c.PuzzleType),
			derefOrEmpty(c.PuzzleQuestion),
			c.Published,
			c.CreatedAt.Format(time.RFC3339),
			c.UpdatedAt.Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
