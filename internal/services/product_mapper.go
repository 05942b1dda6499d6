package services

import (
	"strings"

	"github.com/diewo77/go-cotizaciones/internal/models"
	"github.com/diewo77/go-cotizaciones/internal/remote"
)

// PlaceholderProductName names rows without description, brand or model.
const PlaceholderProductName = "Producto sin nombre"

// MetaNormalizedCategory is the metadata key holding the normalized category.
const MetaNormalizedCategory = "categoria_normalizada"

// Column aliases accepted for each field, already upper-cased.
var (
	colDescription = []string{"DESCRIPCION", "DESCRIPCIÓN"}
	colBrand       = []string{"MARCA"}
	colModel       = []string{"MODELO"}
	colCategory    = []string{"CATEGORIA", "CATEGORÍA"}
	colUnit        = []string{"UNIDAD"}
	colPrice       = []string{"PRECIO VENTA", "PRECIO DE VENTA"}
	colSupplier    = []string{"PROVEEDOR"}
	colImage       = []string{"IMAGEN"}
)

func cell(row map[string]string, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(row[k]); v != "" {
			return v
		}
	}
	return ""
}

// MapProductRow turns one spreadsheet row (upper-cased headers) into a product.
// It never fails: bad numbers become 0 and missing text becomes "".
func MapProductRow(row map[string]string) models.Product {
	desc := cell(row, colDescription)
	brand := cell(row, colBrand)
	model := cell(row, colModel)
	category := NormalizeCategory(cell(row, colCategory))

	sku := model
	if sku == "" {
		sku = GenerateToken()
	}
	name := desc
	if name == "" {
		name = strings.TrimSpace(brand + " " + model)
	}
	if name == "" {
		name = PlaceholderProductName
	}

	meta := make(map[string]string, len(row)+1)
	for k, v := range row {
		meta[k] = v
	}
	meta[MetaNormalizedCategory] = category

	return models.Product{
		SKU:         sku,
		Name:        name,
		Description: desc,
		Brand:       brand,
		Model:       model,
		Category:    category,
		Unit:        cell(row, colUnit),
		BasePrice:   ParseMoney(cell(row, colPrice)),
		Supplier:    cell(row, colSupplier),
		Image:       cell(row, colImage),
		Metadata:    meta,
	}
}

// ValidProductRow reports whether a row carries a name source or a model.
func ValidProductRow(row map[string]string) bool {
	return cell(row, colDescription) != "" || cell(row, colBrand) != "" || cell(row, colModel) != ""
}

// ProductFromRemote translates a data-service record.
func ProductFromRemote(r remote.ProductRecord) models.Product {
	p := models.Product{
		ID:          r.ID,
		SKU:         strings.TrimSpace(r.SKU),
		Name:        strings.TrimSpace(r.Nombre),
		Description: strings.TrimSpace(r.Descripcion),
		Brand:       strings.TrimSpace(r.Marca),
		Model:       strings.TrimSpace(r.Modelo),
		Category:    NormalizeCategory(r.Categoria),
		Unit:        r.Unidad,
		BasePrice:   Round2(r.PrecioBase),
		Supplier:    r.Proveedor,
		Image:       r.Imagen,
		Metadata:    r.Metadata,
	}
	if p.SKU == "" {
		p.SKU = p.Model
	}
	if p.Name == "" {
		p.Name = p.DisplayName()
	}
	return p
}

// ProductToRemote translates a product for create/update calls.
func ProductToRemote(p models.Product) remote.ProductRecord {
	return remote.ProductRecord{
		ID:          p.ID,
		SKU:         p.SKU,
		Nombre:      p.Name,
		Descripcion: p.Description,
		Marca:       p.Brand,
		Modelo:      p.Model,
		Categoria:   p.Category,
		Unidad:      p.Unit,
		PrecioBase:  Round2(p.BasePrice),
		Proveedor:   p.Supplier,
		Imagen:      p.Image,
		Metadata:    p.Metadata,
	}
}

// ProductsFromRemote maps a list.
func ProductsFromRemote(in []remote.ProductRecord) []models.Product {
	out := make([]models.Product, 0, len(in))
	for _, r := range in {
		out = append(out, ProductFromRemote(r))
	}
	return out
}

// FilterProducts keeps products of the given category (normalized) whose
// name, sku, brand or model contains q.
func FilterProducts(in []models.Product, category, q string) []models.Product {
	category = NormalizeCategory(category)
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]models.Product, 0, len(in))
	for _, p := range in {
		if category != "" && NormalizeCategory(p.Category) != category {
			continue
		}
		if q != "" {
			hay := strings.ToLower(p.Name + " " + p.SKU + " " + p.Brand + " " + p.Model + " " + p.Description)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
