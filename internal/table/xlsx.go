package table

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WriteXLSX writes t to a single-sheet workbook at path.
func WriteXLSX(path, sheetName string, t *Table, index bool) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "xlsx: add sheet %s", sheetName)
	}

	header := sheet.AddRow()
	if index {
		header.AddCell().SetString("")
	}
	for _, c := range t.columns {
		header.AddCell().SetString(c)
	}

	for i, row := range t.rows {
		r := sheet.AddRow()
		if index {
			r.AddCell().SetInt(i)
		}
		for _, v := range row {
			cell := r.AddCell()
			switch v.Kind() {
			case KindInt:
				n, _ := v.AsInt()
				cell.SetInt64(n)
			case KindFloat:
				n, _ := v.AsFloat()
				cell.SetFloat(n)
			default:
				cell.SetString(v.Text())
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "xlsx: save file")
	}
	return nil
}

// ReadXLSX reads the first sheet of a workbook written by WriteXLSX.
func ReadXLSX(path string, index bool) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("xlsx: missing header row")
	}

	var records [][]string
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if index && len(cells) > 0 {
			cells = cells[1:]
		}
		records = append(records, cells)
	}
	return FromStrings(records[0], records[1:])
}
