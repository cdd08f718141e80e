// Package v40 defines the entity graph of a CFDI version 4.0, after the
// cfdv40 schema published by the SAT. Instances are produced by the
// structural parser and treated as immutable.
package v40

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fiscalmx/cfdi-processor/internal/model"
)

// CFDI40 is the root Comprobante of a version 4.0 document.
type CFDI40 struct {
	Version           string           `json:"version"`
	Serie             string           `json:"serie,omitempty"`
	Folio             string           `json:"folio,omitempty"`
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
	Exportacion       string           `json:"exportacion"`
	MetodoPago        string           `json:"metodo_pago,omitempty"`
	LugarExpedicion   string           `json:"lugar_expedicion"`
	Confirmacion      string           `json:"confirmacion,omitempty"`

	InformacionGlobal *InformacionGlobal `json:"informacion_global,omitempty"`
	CfdiRelacionados  *CfdiRelacionados  `json:"cfdi_relacionados,omitempty"`
	Emisor            Emisor             `json:"emisor"`
	Receptor          Receptor           `json:"receptor"`
	Conceptos         []Concepto         `json:"conceptos"`
	Impuestos         *Impuestos         `json:"impuestos,omitempty"`
	Complemento       *Complemento       `json:"complemento,omitempty"`
}

// SchemaVersion implements model.Document.
func (c *CFDI40) SchemaVersion() model.Version { return model.Version40 }

// VerificationURL builds the SAT verification link for a stamped
// document: UUID, issuer and recipient RFC, total, and the last 8
// characters of the document seal. Returns "" for unstamped documents.
func (c *CFDI40) VerificationURL() string {
	if c.Complemento == nil || c.Complemento.TimbreFiscalDigital == nil {
		return ""
	}
	fe := c.Sello
	if len(fe) > 8 {
		fe = fe[len(fe)-8:]
	}
	// The SAT portal expects the parameters in id/re/rr/tt/fe order, so
	// url.Values (which sorts keys) is unsuitable.
	params := []struct{ k, v string }{
		{"id", c.Complemento.TimbreFiscalDigital.UUID.String()},
		{"re", c.Emisor.Rfc},
		{"rr", c.Receptor.Rfc},
		{"tt", c.Total.String()},
		{"fe", fe},
	}
	var q strings.Builder
	q.WriteString("https://verificacfdi.facturaelectronica.sat.gob.mx?")
	for i, p := range params {
		if i > 0 {
			q.WriteByte('&')
		}
		q.WriteString(p.k)
		q.WriteByte('=')
		q.WriteString(url.QueryEscape(p.v))
	}
	return q.String()
}

// Emisor is the issuing taxpayer. FacAtrAdquirente carries the SAT
// operation number for third-party billing (PCECFDI/PCGCFDISP).
type Emisor struct {
	Rfc              string `json:"rfc"`
	Nombre           string `json:"nombre"`
	RegimenFiscal    string `json:"regimen_fiscal"`
	FacAtrAdquirente string `json:"fac_atr_adquirente,omitempty"`
}

// Receptor is the receiving taxpayer. 4.0 makes the fiscal postal code
// and the recipient regime mandatory.
type Receptor struct {
	Rfc                     string `json:"rfc"`
	Nombre                  string `json:"nombre"`
	DomicilioFiscalReceptor string `json:"domicilio_fiscal_receptor"`
	ResidenciaFiscal        string `json:"residencia_fiscal,omitempty"`
	NumRegIdTrib            string `json:"num_reg_id_trib,omitempty"`
	RegimenFiscalReceptor   string `json:"regimen_fiscal_receptor"`
	UsoCFDI                 string `json:"uso_cfdi"`
}

// InformacionGlobal qualifies a global (aggregated) invoice.
type InformacionGlobal struct {
	Periodicidad string `json:"periodicidad"`
	Meses        string `json:"meses"`
	Año          int    `json:"año"`
}

// CfdiRelacionados links the document to previously issued CFDIs.
type CfdiRelacionados struct {
	TipoRelacion string      `json:"tipo_relacion"`
	UUIDs        []uuid.UUID `json:"uuids"`
}

// Concepto is one invoiced line. ObjetoImp is new in 4.0 and required.
type Concepto struct {
	ClaveProdServ    string          `json:"clave_prod_serv"`
	NoIdentificacion string          `json:"no_identificacion,omitempty"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	ClaveUnidad      string          `json:"clave_unidad"`
	Unidad           string          `json:"unidad,omitempty"`
	Descripcion      string          `json:"descripcion"`
	ValorUnitario    decimal.Decimal `json:"valor_unitario"`
	Importe          decimal.Decimal `json:"importe"`
	Descuento        decimal.Decimal `json:"descuento"`
	ObjetoImp        string          `json:"objeto_imp"`

	Impuestos           *ConceptoImpuestos    `json:"impuestos,omitempty"`
	ACuentaTerceros     []ACuentaTerceros     `json:"a_cuenta_terceros,omitempty"`
	InformacionAduanera []InformacionAduanera `json:"informacion_aduanera,omitempty"`
	CuentaPredial       []CuentaPredial       `json:"cuenta_predial,omitempty"`
	Partes              []Parte               `json:"partes,omitempty"`
}

// ConceptoImpuestos carries the taxes of a single concept.
type ConceptoImpuestos struct {
	Traslados   []ConceptoTraslado  `json:"traslados,omitempty"`
	Retenciones []ConceptoRetencion `json:"retenciones,omitempty"`
}

// ConceptoTraslado is a concept-level transferred tax. TasaOCuota and
// Importe are required unless TipoFactor is "Exento".
type ConceptoTraslado struct {
	Base       decimal.Decimal  `json:"base"`
	Impuesto   string           `json:"impuesto"`
	TipoFactor string           `json:"tipo_factor"`
	TasaOCuota *decimal.Decimal `json:"tasa_o_cuota,omitempty"`
	Importe    *decimal.Decimal `json:"importe,omitempty"`
}

// ConceptoRetencion is a concept-level withheld tax; all fields are
// required in 4.0.
type ConceptoRetencion struct {
	Base       decimal.Decimal `json:"base"`
	Impuesto   string          `json:"impuesto"`
	TipoFactor string          `json:"tipo_factor"`
	TasaOCuota decimal.Decimal `json:"tasa_o_cuota"`
	Importe    decimal.Decimal `json:"importe"`
}

// Impuestos is the document-level tax summary.
type Impuestos struct {
	Retenciones               []Retencion     `json:"retenciones,omitempty"`
	Traslados                 []Traslado      `json:"traslados,omitempty"`
	TotalImpuestosRetenidos   decimal.Decimal `json:"total_impuestos_retenidos"`
	TotalImpuestosTrasladados decimal.Decimal `json:"total_impuestos_trasladados"`
}

// Traslado is a document-level transferred tax aggregate, grouped by
// Impuesto, TipoFactor and TasaOCuota.
type Traslado struct {
	Base       decimal.Decimal `json:"base"`
	Impuesto   string          `json:"impuesto"`
	TipoFactor string          `json:"tipo_factor"`
	TasaOCuota decimal.Decimal `json:"tasa_o_cuota"`
	Importe    decimal.Decimal `json:"importe"`
}

// Retencion is a document-level withheld tax aggregate.
type Retencion struct {
	Impuesto string          `json:"impuesto"`
	Importe  decimal.Decimal `json:"importe"`
}

// ACuentaTerceros identifies the third party on whose account the
// operation is performed.
type ACuentaTerceros struct {
	RfcACuentaTerceros             string `json:"rfc_a_cuenta_terceros"`
	NombreACuentaTerceros          string `json:"nombre_a_cuenta_terceros"`
	RegimenFiscalACuentaTerceros   string `json:"regimen_fiscal_a_cuenta_terceros"`
	DomicilioFiscalACuentaTerceros string `json:"domicilio_fiscal_a_cuenta_terceros"`
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

// Complemento wraps the optional SAT complements. Only the digital stamp
// is modeled.
type Complemento struct {
	TimbreFiscalDigital *TimbreFiscalDigital `json:"timbre_fiscal_digital,omitempty"`
}
