// Package pdf renders quotes as printable documents.
package pdf

import (
	"bytes"
	"fmt"
	"log"
	"strconv"

	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/services"
	"github.com/jung-kurt/gofpdf"
)

// Generator renders a quote with the built-in Helvetica font. Spanish accents
// go through gofpdf's cp1252 translator.
type Generator struct {
	// Title is printed at the top of every document.
	Title string
}

func New() *Generator { return &Generator{Title: "Cotización"} }

// Filename is the download name for q.
func Filename(q models.Quote) string {
	folio := q.Folio
	if folio == "" {
		folio = q.ID.String()
	}
	return "cotizacion-" + folio + ".pdf"
}

func (g *Generator) Generate(q models.Quote) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "Letter", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(tr(g.Title+" "+q.Folio), false)
	doc.SetAuthor(tr(q.SellerName), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, tr(g.Title))
	doc.Ln(9)

	doc.SetFont("Helvetica", "", 10)
	line := func(label, value string) {
		if value == "" {
			return
		}
		doc.SetFont("Helvetica", "B", 10)
		doc.Cell(32, 6, tr(label))
		doc.SetFont("Helvetica", "", 10)
		doc.Cell(0, 6, tr(value))
		doc.Ln(6)
	}
	line("Folio:", q.Folio)
	if !q.CreatedAt.IsZero() {
		line("Fecha:", q.CreatedAt.Format("02/01/2006"))
	}
	line("Estado:", string(q.Status))
	line("Vendedor:", q.SellerName)
	line("Cliente:", q.ClientName)
	line("Contacto:", q.ContactName)
	line("Email:", q.ClientEmail)
	line("Teléfono:", q.ClientPhone)
	line("Dirección:", q.ClientAddress)
	doc.Ln(4)

	widths := []float64{30, 86, 20, 30, 30}
	headers := []string{"Código", "Descripción", "Cant.", "Precio", "Subtotal"}
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, it := range q.Items {
		doc.CellFormat(widths[0], 6, tr(trim(it.Code, 16)), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, tr(trim(it.Name, 50)), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 6, strconv.Itoa(it.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 6, services.FormatMoney(it.BasePrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[4], 6, services.FormatMoney(it.Subtotal()), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 8, "Total", "1", 0, "R", false, 0, "")
	doc.CellFormat(widths[4], 8, services.FormatMoney(models.ComputeTotal(q.Items)), "1", 0, "R", false, 0, "")
	doc.Ln(12)

	if q.Terms != "" {
		doc.SetFont("Helvetica", "B", 10)
		doc.Cell(0, 6, tr("Términos y condiciones"))
		doc.Ln(6)
		doc.SetFont("Helvetica", "", 9)
		doc.MultiCell(0, 5, tr(q.Terms), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		log.Printf("[pdf] output failed for %s: %v", q.Folio, err)
		return nil, fmt.Errorf("render quote %s: %w", q.Folio, err)
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
