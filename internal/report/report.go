// Package report projects property lists into tabular rows and renders them as PDF.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"landora/internal/models"

	"github.com/go-pdf/fpdf"
)

const (
	// DefaultFilename is the name offered when the report is downloaded.
	DefaultFilename = "Property_report.pdf"
	// Title is printed at the top of the first page.
	Title = "Property Report"

	descriptionLimit = 60
)

// ErrEmptyReport is returned when there are no properties to render.
var ErrEmptyReport = errors.New("no properties available for the report")

// Columns are the table headers, in row order.
var Columns = []string{"Name", "Location", "Price", "Description", "Availability"}

// Row is one rendered table line.
type Row struct {
	Name         string
	Location     string
	Price        string
	Description  string
	Availability string
}

// Cells returns the row values in column order.
func (r Row) Cells() []string {
	return []string{r.Name, r.Location, r.Price, r.Description, r.Availability}
}

// Rows projects properties into report rows, keeping list order.
func Rows(properties []models.Property) []Row {
	rows := make([]Row, 0, len(properties))
	for _, p := range properties {
		rows = append(rows, Row{
			Name:         p.Name,
			Location:     p.Location,
			Price:        FormatPrice(p.Price),
			Description:  Truncate(p.Description, descriptionLimit),
			Availability: p.AvailabilityLabel(),
		})
	}
	return rows
}

// FormatPrice prints a price without trailing zeros or exponent notation.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// Truncate shortens s to at most limit runes, ending with "..." when cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// column widths in mm; they add up to the printable width of A4 portrait with 10mm margins.
var columnWidths = []float64{38, 34, 26, 62, 30}

const (
	margin       = 10.0
	rowHeight    = 8.0
	headerHeight = 9.0
)

// WritePDF renders properties as a paginated A4 table. The header row is
// repeated on every page.
func WritePDF(w io.Writer, properties []models.Property) error {
	if len(properties) == 0 {
		return ErrEmptyReport
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()

	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		for i, col := range Columns {
			pdf.CellFormat(columnWidths[i], headerHeight, col, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, Title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	for i, row := range Rows(properties) {
		if pdf.GetY()+rowHeight > pageHeight-2*margin {
			pdf.AddPage()
			header()
		}
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for j, cell := range row.Cells() {
			text := fit(pdf, tr(cell), columnWidths[j]-2)
			align := "L"
			if j == 2 {
				align = "R"
			}
			pdf.CellFormat(columnWidths[j], rowHeight, text, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// fit trims s until it is no wider than width at the current font.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
