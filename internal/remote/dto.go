package remote

import "github.com/diewo77/go-cotizaciones/internal/models"

// The records below mirror the data service's JSON. They are translated to
// application models in one place (internal/services mappers).

type EquipmentRecord struct {
	ID                  models.ID `json:"id,omitempty"`
	Nombre              string    `json:"nombre"`
	Marca               string    `json:"marca,omitempty"`
	Modelo              string    `json:"modelo,omitempty"`
	NumeroSerie         string    `json:"numeroSerie,omitempty"`
	FechaInstalacion    string    `json:"fechaInstalacion,omitempty"`
	UltimoMantenimiento string    `json:"ultimoMantenimiento,omitempty"`
}

type ContactRecord struct {
	ID       models.ID `json:"id,omitempty"`
	Nombre   string    `json:"nombre"`
	Cargo    string    `json:"cargo,omitempty"`
	Telefono string    `json:"telefono,omitempty"`
	Email    string    `json:"email,omitempty"`
}

type ClientRecord struct {
	ID                 models.ID         `json:"id,omitempty"`
	EmpresaResponsable string            `json:"empresaResponsable"`
	Dependencia        string            `json:"dependencia,omitempty"`
	NombreHospital     string            `json:"nombreHospital,omitempty"`
	Estado             string            `json:"estado,omitempty"`
	Ciudad             string            `json:"ciudad,omitempty"`
	CodigoPostal       string            `json:"codigoPostal,omitempty"`
	Direccion          string            `json:"direccion,omitempty"`
	Equipos            []EquipmentRecord `json:"equipos"`
	Encargados         []ContactRecord   `json:"encargados"`
}

type ProductRecord struct {
	ID          models.ID         `json:"id,omitempty"`
	SKU         string            `json:"sku"`
	Nombre      string            `json:"nombre"`
	Descripcion string            `json:"descripcion,omitempty"`
	Marca       string            `json:"marca,omitempty"`
	Modelo      string            `json:"modelo,omitempty"`
	Categoria   string            `json:"categoria,omitempty"`
	Unidad      string            `json:"unidad,omitempty"`
	PrecioBase  float64           `json:"precioBase"`
	Proveedor   string            `json:"proveedor,omitempty"`
	Imagen      string            `json:"imagen,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type QuoteItemRecord struct {
	ID        int64   `json:"id,omitempty"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	BasePrice float64 `json:"basePrice"`
}

type QuoteRecord struct {
	ID               models.ID         `json:"id,omitempty"`
	Folio            string            `json:"folio"`
	Estado           string            `json:"estado"`
	VendedorID       models.ID         `json:"vendedorId,omitempty"`
	Vendedor         string            `json:"vendedor"`
	VendedorEmail    string            `json:"vendedorEmail"`
	EmpresaID        models.ID         `json:"empresaId"`
	ClienteID        models.ID         `json:"clienteId"`
	ClienteNombre    string            `json:"clienteNombre"`
	Contacto         string            `json:"contacto,omitempty"`
	ClienteEmail     string            `json:"clienteEmail,omitempty"`
	ClienteTelefono  string            `json:"clienteTelefono,omitempty"`
	ClienteDireccion string            `json:"clienteDireccion,omitempty"`
	Productos        []QuoteItemRecord `json:"productos"`
	Total            float64           `json:"total"`
	Terminos         string            `json:"terminos,omitempty"`
	CreatedAt        string            `json:"createdAt,omitempty"`
}

type UserExtraRecord struct {
	CanModifyPrices   bool      `json:"canModifyPrices,omitempty"`
	AssignedCompanyID models.ID `json:"assignedCompanyId,omitempty"`
}

type UserRecord struct {
	ID       models.ID       `json:"id,omitempty"`
	Nombre   string          `json:"nombre"`
	Email    string          `json:"email"`
	Password string          `json:"password,omitempty"`
	Rol      string          `json:"rol"`
	Extra    UserExtraRecord `json:"extra"`
}

// BatchResult is the answer of the batch-create endpoints.
type BatchResult struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
