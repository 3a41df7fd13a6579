package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	roomsSheet    = "Rooms"
	rejectedSheet = "Rejected"
)

var (
	roomsHeader    = []any{"Room", "Capacity", "Stairs", "Hazards", "Used Volume", "Remaining Volume", "Boxes"}
	rejectedHeader = []any{"Box", "Volume", "Hazards", "Reason"}
)

func writeXLSX(w io.Writer, rep Report) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", roomsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(rejectedSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	roomRows := make([][]any, len(rep.Rooms))
	for i, room := range rep.Rooms {
		roomRows[i] = []any{
			room.Name,
			room.Capacity,
			room.Stairs,
			room.Hazards.String(),
			room.UsedVolume,
			room.Remaining,
			strings.Join(room.Boxes, ", "),
		}
	}
	if err := writeSheet(f, roomsSheet, roomsHeader, roomRows, headerStyle); err != nil {
		return err
	}

	rejectedRows := make([][]any, len(rep.Rejected))
	for i, box := range rep.Rejected {
		rejectedRows[i] = []any{box.Name, box.Volume, box.Hazards.String(), string(box.Reason)}
	}
	if err := writeSheet(f, rejectedSheet, rejectedHeader, rejectedRows, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("set %s header style: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
