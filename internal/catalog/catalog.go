// Package catalog provides the closed-vocabulary lookups used by CFDI
// validation and rendering. A catalog maps a fixed-format SAT code to a
// human-readable description.
//
// Three backings implement the same query contract: compiled enumerations
// (Static), a JSON file/table load (FileStore), and an external key/value
// service (RedisStore). All of them are read-only after construction and
// safe for concurrent use without locking.
package catalog

import "fmt"

// Name identifies one of the SAT catalogs.
type Name string

const (
	FormaPago         Name = "forma_pago"
	Moneda            Name = "moneda"
	TipoDeComprobante Name = "tipo_de_comprobante"
	Exportacion       Name = "exportacion"
	MetodoPago        Name = "metodo_pago"
	Periodicidad      Name = "periodicidad"
	Meses             Name = "meses"
	TipoRelacion      Name = "tipo_relacion"
	RegimenFiscal     Name = "regimen_fiscal"
	Pais              Name = "pais"
	UsoCFDI           Name = "uso_cfdi"
	ObjetoImp         Name = "objeto_imp"
	Impuesto          Name = "impuesto"
	TipoFactor        Name = "tipo_factor"
	ClaveProdServ     Name = "clave_prod_serv"
	ClaveUnidad       Name = "clave_unidad"
	Aduana            Name = "aduana"
)

// c_TipoFactor codes. The "Exento" factor relaxes the rate and amount
// requirements on concept-level transferred taxes.
const (
	TipoFactorTasa   = "Tasa"
	TipoFactorCuota  = "Cuota"
	TipoFactorExento = "Exento"
)

// Store is the synchronous lookup contract the parser and the rendering
// collaborators depend on. Absent keys surface as *NotFoundError, never
// as a placeholder description.
type Store interface {
	// Lookup returns the description registered for code in the catalog.
	Lookup(catalog Name, code string) (string, error)

	// Contains reports membership of code in the catalog.
	Contains(catalog Name, code string) bool
}

// NotFoundError reports a code (or a whole catalog) missing from a Store.
type NotFoundError struct {
	Catalog Name
	Code    string
}

func (e *NotFoundError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("catalog %q not found", e.Catalog)
	}
	return fmt.Sprintf("code %q not found in catalog %q", e.Code, e.Catalog)
}
