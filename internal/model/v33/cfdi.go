// Package v33 defines the entity graph of a CFDI version 3.3, after the
// cfdv33 schema published by the SAT. Instances are produced by the
// structural parser and treated as immutable.
package v33

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fiscalmx/cfdi-processor/internal/model"
)

// CFDI33 is the root Comprobante of a version 3.3 document.
type CFDI33 struct {
	Version           string           `json:"version"`
	Serie             string           `json:"serie,omitempty"`
	Folio             string           `json:"folio"`
	Fecha             time.Time        `json:"fecha"`
	Sello             string           `json:"sello"`
	FormaPago         string           `json:"forma_pago,omitempty"`
	NoCertificado     string           `json:"no_certificado"`
	Certificado       string           `json:"certificado"`
	CondicionesDePago string           `json:"condiciones_de_pago,omitempty"`
	SubTotal          decimal.Decimal  `json:"sub_total"`
	Descuento         decimal.Decimal  `json:"descuento"`
	Moneda            string           `json:"moneda"`
	TipoCambio        *decimal.Decimal `json:"tipo_cambio,omitempty"`
	Total             decimal.Decimal  `json:"total"`
	TipoDeComprobante string           `json:"tipo_de_comprobante"`
	MetodoPago        string           `json:"metodo_pago,omitempty"`
	LugarExpedicion   string           `json:"lugar_expedicion"`
	Confirmacion      string           `json:"confirmacion,omitempty"`

	Relacionados *Relacionados `json:"relacionados,omitempty"`
	Emisor       Emisor        `json:"emisor"`
	Receptor     Receptor      `json:"receptor"`
	Conceptos    []Concepto    `json:"conceptos"`
	Impuestos    *Impuestos    `json:"impuestos,omitempty"`
}

// SchemaVersion implements model.Document.
func (c *CFDI33) SchemaVersion() model.Version { return model.Version33 }

// Emisor is the issuing taxpayer.
type Emisor struct {
	Rfc           string `json:"rfc"`
	Nombre        string `json:"nombre,omitempty"`
	RegimenFiscal string `json:"regimen_fiscal"`
}

// Receptor is the receiving taxpayer.
type Receptor struct {
	Rfc              string `json:"rfc"`
	Nombre           string `json:"nombre,omitempty"`
	ResidenciaFiscal string `json:"residencia_fiscal,omitempty"`
	NumRegIdTrib     string `json:"num_reg_id_trib,omitempty"`
	UsoCFDI          string `json:"uso_cfdi"`
}

// Relacionados links the document to previously issued CFDIs.
type Relacionados struct {
	TipoRelacion string      `json:"tipo_relacion"`
	UUIDs        []uuid.UUID `json:"uuids"`
}

// Concepto is one invoiced line.
type Concepto struct {
	ClaveProdServ    string           `json:"clave_prod_serv"`
	NoIdentificacion string           `json:"no_identificacion,omitempty"`
	Cantidad         decimal.Decimal  `json:"cantidad"`
	ClaveUnidad      string           `json:"clave_unidad"`
	Unidad           string           `json:"unidad,omitempty"`
	Descripcion      string           `json:"descripcion"`
	ValorUnitario    decimal.Decimal  `json:"valor_unitario"`
	Importe          decimal.Decimal  `json:"importe"`
	Descuento        *decimal.Decimal `json:"descuento,omitempty"`

	Impuestos           *ConceptoImpuestos    `json:"impuestos,omitempty"`
	InformacionAduanera []InformacionAduanera `json:"informacion_aduanera,omitempty"`
	CuentaPredial       []CuentaPredial       `json:"cuenta_predial,omitempty"`
	Partes              []Parte               `json:"partes,omitempty"`
}

// ConceptoImpuestos carries the taxes of a single concept.
type ConceptoImpuestos struct {
	Traslados   []Traslado  `json:"traslados,omitempty"`
	Retenciones []Retencion `json:"retenciones,omitempty"`
}

// Impuestos is the document-level tax summary.
type Impuestos struct {
	Retenciones               []Retencion     `json:"retenciones,omitempty"`
	Traslados                 []Traslado      `json:"traslados,omitempty"`
	TotalImpuestosRetenidos   decimal.Decimal `json:"total_impuestos_retenidos"`
	TotalImpuestosTrasladados decimal.Decimal `json:"total_impuestos_trasladados"`
}

// Traslado is a transferred tax entry. Base is optional in 3.3;
// TasaOCuota and Importe are always required.
type Traslado struct {
	Base       *decimal.Decimal `json:"base,omitempty"`
	Impuesto   string           `json:"impuesto"`
	TipoFactor string           `json:"tipo_factor"`
	TasaOCuota decimal.Decimal  `json:"tasa_o_cuota"`
	Importe    decimal.Decimal  `json:"importe"`
}

// Retencion is a withheld tax entry.
type Retencion struct {
	Impuesto string          `json:"impuesto"`
	Importe  decimal.Decimal `json:"importe"`
}

// InformacionAduanera identifies the customs declaration covering an
// imported good.
type InformacionAduanera struct {
	NumeroPedimento string `json:"numero_pedimento"`
}

// CuentaPredial is the property-registry account of a leased property.
type CuentaPredial struct {
	Numero string `json:"numero"`
}

// Parte is a component of a concept, shaped like a miniature concept.
type Parte struct {
	ClaveProdServ       string                `json:"clave_prod_serv"`
	NoIdentificacion    string                `json:"no_identificacion,omitempty"`
	Cantidad            decimal.Decimal       `json:"cantidad"`
	Unidad              string                `json:"unidad,omitempty"`
	Descripcion         string                `json:"descripcion"`
	ValorUnitario       *decimal.Decimal      `json:"valor_unitario,omitempty"`
	Importe             *decimal.Decimal      `json:"importe,omitempty"`
	InformacionAduanera []InformacionAduanera `json:"informacion_aduanera,omitempty"`
}
