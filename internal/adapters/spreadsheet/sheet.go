package spreadsheet

import (
	"strconv"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	headerColor   = "4F81BD"
	attendedColor = "C0504D"
	// percentFormat is excelize's built-in "0.00%".
	percentFormat   = 10
	maxSheetNameLen = 31
	dateTimeLayout  = "02/01/2006 15:04"
)

// sheet writes into one worksheet and keeps the first error, so a block of writes is checked once.
type sheet struct {
	f    *excelize.File
	name string
	err  error
}

func (s *sheet) set(cell string, value any) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellValue(s.name, cell, value)
}

func (s *sheet) row(cell string, values []any) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetSheetRow(s.name, cell, &values)
}

func (s *sheet) merge(from, to string, value any, style int) {
	if s.err != nil {
		return
	}
	if s.err = s.f.MergeCell(s.name, from, to); s.err != nil {
		return
	}
	s.set(from, value)
	s.style(from, to, style)
}

func (s *sheet) style(from, to string, style int) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellStyle(s.name, from, to, style)
}

func (s *sheet) width(from, to string, w float64) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetColWidth(s.name, from, to, w)
}

// table writes header at headerRow followed by rows, styles the header and fits column widths to the content.
func (s *sheet) table(headerRow int, header []string, rows [][]any, headerStyle int) {
	widths := make([]int, len(header))
	values := make([]any, len(header))
	for i, h := range header {
		values[i] = h
		widths[i] = utf8.RuneCountInString(h) + 2
	}
	s.row(cell(1, headerRow), values)
	s.style(cell(1, headerRow), cell(len(header), headerRow), headerStyle)
	for i, r := range rows {
		s.row(cell(1, headerRow+1+i), r)
		for j, v := range r {
			if j < len(widths) {
				widths[j] = max(widths[j], displayLen(v))
			}
		}
	}
	for i, w := range widths {
		col := column(i + 1)
		s.width(col, col, float64(w))
	}
}

func displayLen(v any) int {
	switch x := v.(type) {
	case string:
		return utf8.RuneCountInString(x)
	case int64:
		return len(strconv.FormatInt(x, 10))
	case int:
		return len(strconv.Itoa(x))
	default:
		return 0
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func column(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

type styles struct {
	header   int
	title    int
	bigTitle int
	subtitle int
	cell     int
	percent  int
}

func newStyles(f *excelize.File) (*styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	var st styles
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
			Border:    border,
			Alignment: center,
		}},
		{&st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}, Alignment: center}},
		{&st.bigTitle, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}, Alignment: center}},
		{&st.subtitle, &excelize.Style{Font: &excelize.Font{Italic: true}, Alignment: center}},
		{&st.cell, &excelize.Style{Border: border, Alignment: center}},
		{&st.percent, &excelize.Style{Border: border, Alignment: center, NumFmt: percentFormat}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, err
		}
		*d.dst = id
	}
	return &st, nil
}
