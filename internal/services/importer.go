package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/remote"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type: use .xlsx or .xls")
	ErrEmptyImport     = errors.New("no valid rows to import")
)

const maxReportErrors = 10

// ImportReport aggregates an import run. Errors keeps a capped sample.
type ImportReport struct {
	Total   int      `json:"total"`
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

func (r *ImportReport) fail(format string, args ...any) {
	r.Failed++
	if len(r.Errors) < maxReportErrors {
		r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	}
}

// ReadSpreadsheet returns the cell grid of the first worksheet.
func ReadSpreadsheet(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("read xlsx: %w", err)
		}
		defer func() { _ = file.Close() }()
		sheet := file.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows, err := file.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read xlsx rows: %w", err)
		}
		return rows, nil
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("read xls: %w", err)
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		return workbook.ReadAllCells(100000), nil
	default:
		return nil, ErrUnsupportedFile
	}
}

// HeaderRows keys every data row by its trimmed, upper-cased header.
// Blank rows are dropped.
func HeaderRows(grid [][]string) []map[string]string {
	if len(grid) == 0 {
		return nil
	}
	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = strings.ToUpper(strings.TrimSpace(h))
	}
	var out []map[string]string
	for _, row := range grid[1:] {
		if blankRow(row) {
			continue
		}
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			m[h] = cellAt(row, i)
		}
		out = append(out, m)
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Importer loads spreadsheets into the data service.
type Importer struct {
	remote   *remote.Client
	rowDelay time.Duration
	useBatch bool
}

func NewImporter(rc *remote.Client, rowDelay time.Duration, useBatch bool) *Importer {
	return &Importer{remote: rc, rowDelay: rowDelay, useBatch: useBatch}
}

// ImportProducts maps every row and creates the valid ones, one call per row
// separated by the row delay, or in one batch call when batching is enabled.
func (im *Importer) ImportProducts(ctx context.Context, filename string, data []byte) (*ImportReport, error) {
	grid, err := ReadSpreadsheet(filename, data)
	if err != nil {
		return nil, err
	}
	rows := HeaderRows(grid)
	report := &ImportReport{Total: len(rows), Errors: []string{}}

	var products []models.Product
	var lines []int
	for i, row := range rows {
		if !ValidProductRow(row) {
			report.fail("Fila %d: sin descripción, marca ni modelo", i+2)
			continue
		}
		products = append(products, MapProductRow(row))
		lines = append(lines, i+2)
	}
	if len(products) == 0 {
		return report, ErrEmptyImport
	}

	if im.useBatch {
		recs := make([]remote.ProductRecord, len(products))
		for i, p := range products {
			recs[i] = ProductToRemote(p)
		}
		res, err := im.remote.Products.BatchCreate(ctx, recs)
		if err != nil {
			return report, fmt.Errorf("batch create products: %w", err)
		}
		report.mergeBatch(res, len(products))
		return report, nil
	}

	for i, p := range products {
		if i > 0 && im.rowDelay > 0 {
			if err := sleepCtx(ctx, im.rowDelay); err != nil {
				return report, err
			}
		}
		if _, err := im.remote.Products.Create(ctx, ProductToRemote(p)); err != nil {
			report.fail("Fila %d (%s): %v", lines[i], p.SKU, errorMessage(err))
			continue
		}
		report.Created++
	}
	return report, nil
}

// Positional client columns.
const (
	colClientCompany = iota
	colClientDependency
	colClientHospital
	colClientState
	colClientCity
	colClientPostalCode
	colClientAddress
	colClientEquipment
	colClientBrand
	colClientModel
	colClientSerial
	colClientInstallDate
	colClientLastMaintenance
	colClientContactName
	colClientContactRole
	colClientContactPhone
	colClientContactEmail
)

// ParseClientGrid reads positional client rows (the first row is the header).
// Consecutive rows for the same hospital merge into one client.
func ParseClientGrid(grid [][]string, report *ImportReport) []remote.ClientRecord {
	var out []remote.ClientRecord
	lastKey := ""
	if len(grid) == 0 {
		return nil
	}
	for i, row := range grid[1:] {
		line := i + 2
		if blankRow(row) {
			continue
		}
		report.Total++
		company := cellAt(row, colClientCompany)
		hospital := cellAt(row, colClientHospital)
		if company == "" && hospital == "" {
			report.fail("Fila %d: falta hospital o empresa", line)
			continue
		}

		key := strings.ToLower(firstNonEmpty(hospital, company))
		if len(out) == 0 || key != lastKey {
			out = append(out, remote.ClientRecord{
				EmpresaResponsable: company,
				Dependencia:        cellAt(row, colClientDependency),
				NombreHospital:     hospital,
				Estado:             cellAt(row, colClientState),
				Ciudad:             cellAt(row, colClientCity),
				CodigoPostal:       cellAt(row, colClientPostalCode),
				Direccion:          cellAt(row, colClientAddress),
				Equipos:            []remote.EquipmentRecord{},
				Encargados:         []remote.ContactRecord{},
			})
			lastKey = key
		}
		c := &out[len(out)-1]

		if name := cellAt(row, colClientEquipment); name != "" {
			c.Equipos = append(c.Equipos, remote.EquipmentRecord{
				Nombre:              name,
				Marca:               cellAt(row, colClientBrand),
				Modelo:              cellAt(row, colClientModel),
				NumeroSerie:         cellAt(row, colClientSerial),
				FechaInstalacion:    sheetDate(cellAt(row, colClientInstallDate)),
				UltimoMantenimiento: sheetDate(cellAt(row, colClientLastMaintenance)),
			})
		}
		if name := cellAt(row, colClientContactName); name != "" {
			ct := remote.ContactRecord{
				Nombre:   name,
				Cargo:    cellAt(row, colClientContactRole),
				Telefono: cellAt(row, colClientContactPhone),
				Email:    cellAt(row, colClientContactEmail),
			}
			if !hasContact(c.Encargados, ct) {
				c.Encargados = append(c.Encargados, ct)
			}
		}
	}
	return out
}

func hasContact(list []remote.ContactRecord, ct remote.ContactRecord) bool {
	key := ContactKey(ContactsFromRemote([]remote.ContactRecord{ct})[0])
	for _, c := range ContactsFromRemote(list) {
		if ContactKey(c) == key {
			return true
		}
	}
	return false
}

// ImportClients parses a client sheet and sends it through the batch endpoint.
func (im *Importer) ImportClients(ctx context.Context, filename string, data []byte) (*ImportReport, error) {
	grid, err := ReadSpreadsheet(filename, data)
	if err != nil {
		return nil, err
	}
	report := &ImportReport{Errors: []string{}}
	clients := ParseClientGrid(grid, report)
	if len(clients) == 0 {
		return report, ErrEmptyImport
	}
	res, err := im.remote.Clients.BatchCreate(ctx, clients)
	if err != nil {
		return report, fmt.Errorf("batch create clients: %w", err)
	}
	report.mergeBatch(res, len(clients))
	return report, nil
}

func (r *ImportReport) mergeBatch(res *remote.BatchResult, sent int) {
	if res == nil {
		r.Created += sent
		return
	}
	r.Created += res.Created
	r.Failed += res.Failed
	for _, e := range res.Errors {
		if len(r.Errors) >= maxReportErrors {
			break
		}
		r.Errors = append(r.Errors, e)
	}
}

// sheetDate converts Excel serial dates to YYYY-MM-DD and leaves text dates
// alone. Small numbers are likely years, not serials.
func sheetDate(v string) string {
	if v == "" {
		return ""
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial >= 20000 && serial <= 80000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return v
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func errorMessage(err error) string {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
