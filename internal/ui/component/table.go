package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/pnl-dashboard/internal/ui/style"
)

// TableColumn represents a column configuration
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// TableRow represents a row of data. Cells holds per-column overrides of Style.
type TableRow struct {
	Data  []string
	Style lipgloss.Style
	Cells map[int]lipgloss.Style
}

// Table represents a data table component
type Table struct {
	columns     []TableColumn
	rows        []TableRow
	width       int
	selectedRow int

	headerStyle      lipgloss.Style
	rowStyle         lipgloss.Style
	selectedRowStyle lipgloss.Style
	borderStyle      lipgloss.Style

	showBorder  bool
	showHeaders bool
	selectable  bool
	zebra       bool
}

// NewTable creates a new table component
func NewTable() *Table {
	palette := style.DefaultPalette()

	return &Table{
		headerStyle:      style.TableHeaderStyle,
		rowStyle:         style.TableRowStyle,
		selectedRowStyle: style.TableRowSelectedStyle,

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		showBorder:  true,
		showHeaders: true,
	}
}

// SetColumns sets the table columns
func (t *Table) SetColumns(columns []TableColumn) *Table {
	t.columns = columns
	return t
}

// AddColumn adds a column to the table
func (t *Table) AddColumn(header string, width int, align lipgloss.Position) *Table {
	t.columns = append(t.columns, TableColumn{Header: header, Width: width, Align: align})
	return t
}

// SetRows replaces all rows. Cell styles are reset.
func (t *Table) SetRows(rows [][]string) *Table {
	t.rows = make([]TableRow, len(rows))
	for i, data := range rows {
		t.rows[i] = TableRow{Data: data, Style: t.rowStyle}
	}
	if t.selectedRow >= len(t.rows) {
		t.selectedRow = 0
	}
	return t
}

// AddRow adds a row to the table
func (t *Table) AddRow(data []string) *Table {
	t.rows = append(t.rows, TableRow{Data: data, Style: t.rowStyle})
	return t
}

// RowStyle returns the base style rows are rendered with.
func (t *Table) RowStyle() lipgloss.Style {
	return t.rowStyle
}

// SetRowStyle sets a custom style for a specific row
func (t *Table) SetRowStyle(rowIndex int, s lipgloss.Style) *Table {
	if rowIndex >= 0 && rowIndex < len(t.rows) {
		t.rows[rowIndex].Style = s
	}
	return t
}

// SetCellStyle overrides the style of a single cell.
func (t *Table) SetCellStyle(rowIndex, colIndex int, s lipgloss.Style) *Table {
	if rowIndex < 0 || rowIndex >= len(t.rows) || colIndex < 0 {
		return t
	}
	if t.rows[rowIndex].Cells == nil {
		t.rows[rowIndex].Cells = make(map[int]lipgloss.Style)
	}
	t.rows[rowIndex].Cells[colIndex] = s
	return t
}

// SetWidth sets the total table width used to size auto-width columns.
func (t *Table) SetWidth(width int) *Table {
	t.width = width
	return t
}

// SetSelectedRow sets the currently selected row
func (t *Table) SetSelectedRow(index int) *Table {
	if index >= 0 && index < len(t.rows) {
		t.selectedRow = index
	}
	return t
}

// GetSelectedRow returns the currently selected row index
func (t *Table) GetSelectedRow() int {
	return t.selectedRow
}

// MoveUp moves selection up
func (t *Table) MoveUp() *Table {
	if t.selectable && t.selectedRow > 0 {
		t.selectedRow--
	}
	return t
}

// MoveDown moves selection down
func (t *Table) MoveDown() *Table {
	if t.selectable && t.selectedRow < len(t.rows)-1 {
		t.selectedRow++
	}
	return t
}

// SetSelectable enables/disables row selection
func (t *Table) SetSelectable(selectable bool) *Table {
	t.selectable = selectable
	return t
}

// SetShowBorder enables/disables table border
func (t *Table) SetShowBorder(show bool) *Table {
	t.showBorder = show
	return t
}

// SetShowHeaders enables/disables column headers
func (t *Table) SetShowHeaders(show bool) *Table {
	t.showHeaders = show
	return t
}

// SetZebra enables/disables alternating row colors
func (t *Table) SetZebra(zebra bool) *Table {
	t.zebra = zebra
	return t
}

// View renders the table
func (t *Table) View() string {
	if len(t.columns) == 0 {
		return "No columns defined"
	}

	widths := t.columnWidths()
	var content strings.Builder

	if t.showHeaders {
		for i, col := range t.columns {
			content.WriteString(renderCell(col.Header, widths[i], col.Align, t.headerStyle))
			if i < len(t.columns)-1 {
				content.WriteString("│")
			}
		}
		content.WriteString("\n")

		for i := range t.columns {
			content.WriteString(strings.Repeat("─", widths[i]))
			if i < len(t.columns)-1 {
				content.WriteString("┼")
			}
		}
		content.WriteString("\n")
	}

	palette := style.DefaultPalette()
	for rowIndex, row := range t.rows {
		rowStyle := row.Style
		selected := t.selectable && rowIndex == t.selectedRow
		if selected {
			rowStyle = t.selectedRowStyle
		} else if t.zebra && rowIndex%2 == 1 {
			rowStyle = rowStyle.Background(palette.BackgroundAlt)
		}

		for i, col := range t.columns {
			data := ""
			if i < len(row.Data) {
				data = row.Data[i]
			}
			cellStyle := rowStyle
			if s, ok := row.Cells[i]; ok && !selected {
				cellStyle = s
			}
			content.WriteString(renderCell(data, widths[i], col.Align, cellStyle))
			if i < len(t.columns)-1 {
				content.WriteString("│")
			}
		}
		if rowIndex < len(t.rows)-1 {
			content.WriteString("\n")
		}
	}

	if t.showBorder {
		return t.borderStyle.Render(content.String())
	}
	return content.String()
}

// renderCell truncates content to width and applies alignment.
func renderCell(content string, width int, align lipgloss.Position, s lipgloss.Style) string {
	inner := width - s.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}
	if runes := []rune(content); len(runes) > inner {
		if inner > 1 {
			content = string(runes[:inner-1]) + "…"
		} else {
			content = string(runes[:inner])
		}
	}
	return s.Width(width).Align(align).Render(content)
}

// columnWidths resolves zero-width columns against the table width.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.columns))
	explicit, auto := 0, 0
	for i, col := range t.columns {
		widths[i] = col.Width
		if col.Width > 0 {
			explicit += col.Width
		} else {
			auto++
		}
	}
	if auto == 0 {
		return widths
	}

	frame := 0
	if t.showBorder {
		frame = t.borderStyle.GetHorizontalFrameSize()
	}
	available := t.width - explicit - (len(t.columns) - 1) - frame
	autoWidth := 12
	if t.width > 0 && available > 0 {
		autoWidth = available / auto
	}
	for i := range widths {
		if widths[i] <= 0 {
			widths[i] = autoWidth
		}
	}
	return widths
}

// GetRowCount returns the number of rows
func (t *Table) GetRowCount() int {
	return len(t.rows)
}

// GetSelectedRowData returns the data of the currently selected row
func (t *Table) GetSelectedRowData() []string {
	if t.selectedRow >= 0 && t.selectedRow < len(t.rows) {
		return t.rows[t.selectedRow].Data
	}
	return nil
}

// Clear removes all rows from the table
func (t *Table) Clear() *Table {
	t.rows = nil
	t.selectedRow = 0
	return t
}
