package xml

import (
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/fiscalmx/cfdi-processor/internal/catalog"
	"github.com/fiscalmx/cfdi-processor/internal/model"
	"github.com/fiscalmx/cfdi-processor/internal/model/v40"
)

// bindCFDI40 maps a version-confirmed 4.0 root element onto the typed
// graph. Field-shape violations abort immediately; the conditional
// Exento rules run as a final pass over the whole document so every
// violation is reported at once.
func (b *binder) bindCFDI40(root *etree.Element) (*v40.CFDI40, error) {
	const p = "Comprobante"
	out := &v40.CFDI40{Descuento: decimal.Zero}
	var err error

	ver, err := requiredAttr(root, p, "Version")
	if err != nil {
		return nil, err
	}
	if ver != string(model.Version40) {
		return nil, model.NewValidationError(p+"/Version", ver, "literal", "must be 4.0")
	}
	out.Version = ver

	if v, ok := attr(root, "Serie"); ok {
		if out.Serie, err = text(p+"/Serie", v, 1, 25); err != nil {
			return nil, err
		}
	}
	if v, ok := attr(root, "Folio"); ok {
		if out.Folio, err = text(p+"/Folio", v, 1, 40); err != nil {
			return nil, err
		}
	}

	v, err := requiredAttr(root, p, "Fecha")
	if err != nil {
		return nil, err
	}
	if out.Fecha, err = fecha(p+"/Fecha", v); err != nil {
		return nil, err
	}

	if out.Sello, err = requiredAttr(root, p, "Sello"); err != nil {
		return nil, err
	}

	if v, ok := attr(root, "FormaPago"); ok {
		if out.FormaPago, err = b.code(p+"/FormaPago", v, catalog.FormaPago); err != nil {
			return nil, err
		}
	}

	if v, err = requiredAttr(root, p, "NoCertificado"); err != nil {
		return nil, err
	}
	if out.NoCertificado, err = digits(p+"/NoCertificado", v, 20); err != nil {
		return nil, err
	}

	if out.Certificado, err = requiredAttr(root, p, "Certificado"); err != nil {
		return nil, err
	}

	if v, ok := attr(root, "CondicionesDePago"); ok {
		if out.CondicionesDePago, err = text(p+"/CondicionesDePago", v, 1, 1000); err != nil {
			return nil, err
		}
	}

	if v, err = requiredAttr(root, p, "SubTotal"); err != nil {
		return nil, err
	}
	if out.SubTotal, err = amount(p+"/SubTotal", v); err != nil {
		return nil, err
	}

	if v, ok := attr(root, "Descuento"); ok {
		if out.Descuento, err = amount(p+"/Descuento", v); err != nil {
			return nil, err
		}
	}

	if v, err = requiredAttr(root, p, "Moneda"); err != nil {
		return nil, err
	}
	if out.Moneda, err = b.code(p+"/Moneda", v, catalog.Moneda); err != nil {
		return nil, err
	}

	if v, ok := attr(root, "TipoCambio"); ok {
		tc, err := positiveAmount(p+"/TipoCambio", v)
		if err != nil {
			return nil, err
		}
		out.TipoCambio = &tc
	}

	if v, err = requiredAttr(root, p, "Total"); err != nil {
		return nil, err
	}
	if out.Total, err = amount(p+"/Total", v); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(root, p, "TipoDeComprobante"); err != nil {
		return nil, err
	}
	if out.TipoDeComprobante, err = b.code(p+"/TipoDeComprobante", v, catalog.TipoDeComprobante); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(root, p, "Exportacion"); err != nil {
		return nil, err
	}
	if out.Exportacion, err = b.code(p+"/Exportacion", v, catalog.Exportacion); err != nil {
		return nil, err
	}

	if v, ok := attr(root, "MetodoPago"); ok {
		if out.MetodoPago, err = b.code(p+"/MetodoPago", v, catalog.MetodoPago); err != nil {
			return nil, err
		}
	}

	if out.LugarExpedicion, err = requiredAttr(root, p, "LugarExpedicion"); err != nil {
		return nil, err
	}

	if v, ok := attr(root, "Confirmacion"); ok {
		if !model.IsConfirmacion(v) {
			return nil, model.NewValidationError(p+"/Confirmacion", v, "pattern", "must be 5 alphanumeric characters")
		}
		out.Confirmacion = v
	}

	if el := child(root, "InformacionGlobal"); el != nil {
		if out.InformacionGlobal, err = b.bindInformacionGlobal(el, p+"/InformacionGlobal"); err != nil {
			return nil, err
		}
	}

	if el := child(root, "CfdiRelacionados"); el != nil {
		if out.CfdiRelacionados, err = b.bindRelacionados40(el, p+"/CfdiRelacionados"); err != nil {
			return nil, err
		}
	}

	el, err := requiredChild(root, p, "Emisor")
	if err != nil {
		return nil, err
	}
	if out.Emisor, err = b.bindEmisor40(el, p+"/Emisor"); err != nil {
		return nil, err
	}

	if el, err = requiredChild(root, p, "Receptor"); err != nil {
		return nil, err
	}
	if out.Receptor, err = b.bindReceptor40(el, p+"/Receptor"); err != nil {
		return nil, err
	}

	if el, err = requiredChild(root, p, "Conceptos"); err != nil {
		return nil, err
	}
	for i, c := range children(el, "Concepto") {
		concepto, err := b.bindConcepto40(c, indexed(p+"/Conceptos", "Concepto", i))
		if err != nil {
			return nil, err
		}
		out.Conceptos = append(out.Conceptos, *concepto)
	}
	if len(out.Conceptos) == 0 {
		return nil, model.NewValidationError(p+"/Conceptos", nil, "empty", "at least one Concepto is required")
	}

	if el = child(root, "Impuestos"); el != nil {
		if out.Impuestos, err = b.bindImpuestos40(el, p+"/Impuestos"); err != nil {
			return nil, err
		}
	}

	if el = child(root, "Complemento"); el != nil {
		if out.Complemento, err = b.bindComplemento(el, p+"/Complemento"); err != nil {
			return nil, err
		}
	}

	if err := validateExento(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *binder) bindInformacionGlobal(el *etree.Element, p string) (*v40.InformacionGlobal, error) {
	out := &v40.InformacionGlobal{}
	v, err := requiredAttr(el, p, "Periodicidad")
	if err != nil {
		return nil, err
	}
	if out.Periodicidad, err = b.code(p+"/Periodicidad", v, catalog.Periodicidad); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "Meses"); err != nil {
		return nil, err
	}
	if out.Meses, err = b.code(p+"/Meses", v, catalog.Meses); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "Año"); err != nil {
		return nil, err
	}
	out.Año, err = parseYear(p+"/Año", v, 2021)
	return out, err
}

func (b *binder) bindRelacionados40(el *etree.Element, p string) (*v40.CfdiRelacionados, error) {
	out := &v40.CfdiRelacionados{}
	v, err := requiredAttr(el, p, "TipoRelacion")
	if err != nil {
		return nil, err
	}
	if out.TipoRelacion, err = b.code(p+"/TipoRelacion", v, catalog.TipoRelacion); err != nil {
		return nil, err
	}

	for i, rel := range children(el, "CfdiRelacionado") {
		rp := indexed(p, "CfdiRelacionado", i)
		raw, err := requiredAttr(rel, rp, "UUID")
		if err != nil {
			return nil, err
		}
		id, err := parseUUID(rp+"/UUID", raw)
		if err != nil {
			return nil, err
		}
		out.UUIDs = append(out.UUIDs, id)
	}
	if len(out.UUIDs) == 0 {
		return nil, model.NewValidationError(p, nil, "empty", "at least one CfdiRelacionado is required")
	}
	return out, nil
}

func (b *binder) bindEmisor40(el *etree.Element, p string) (v40.Emisor, error) {
	var out v40.Emisor
	v, err := requiredAttr(el, p, "Rfc")
	if err != nil {
		return out, err
	}
	if out.Rfc, err = rfc(p+"/Rfc", v); err != nil {
		return out, err
	}

	if v, err = requiredAttr(el, p, "Nombre"); err != nil {
		return out, err
	}
	if out.Nombre, err = text(p+"/Nombre", v, 1, 300); err != nil {
		return out, err
	}

	if v, err = requiredAttr(el, p, "RegimenFiscal"); err != nil {
		return out, err
	}
	if out.RegimenFiscal, err = b.code(p+"/RegimenFiscal", v, catalog.RegimenFiscal); err != nil {
		return out, err
	}

	if v, ok := attr(el, "FacAtrAdquirente"); ok {
		if out.FacAtrAdquirente, err = digits(p+"/FacAtrAdquirente", v, 10); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (b *binder) bindReceptor40(el *etree.Element, p string) (v40.Receptor, error) {
	var out v40.Receptor
	v, err := requiredAttr(el, p, "Rfc")
	if err != nil {
		return out, err
	}
	if out.Rfc, err = rfc(p+"/Rfc", v); err != nil {
		return out, err
	}

	if v, err = requiredAttr(el, p, "Nombre"); err != nil {
		return out, err
	}
	if out.Nombre, err = text(p+"/Nombre", v, 1, 300); err != nil {
		return out, err
	}

	if v, err = requiredAttr(el, p, "DomicilioFiscalReceptor"); err != nil {
		return out, err
	}
	if out.DomicilioFiscalReceptor, err = digits(p+"/DomicilioFiscalReceptor", v, 5); err != nil {
		return out, err
	}

	if v, ok := attr(el, "ResidenciaFiscal"); ok {
		if out.ResidenciaFiscal, err = b.code(p+"/ResidenciaFiscal", v, catalog.Pais); err != nil {
			return out, err
		}
	}
	if v, ok := attr(el, "NumRegIdTrib"); ok {
		if out.NumRegIdTrib, err = text(p+"/NumRegIdTrib", v, 1, 40); err != nil {
			return out, err
		}
	}

	if v, err = requiredAttr(el, p, "RegimenFiscalReceptor"); err != nil {
		return out, err
	}
	if out.RegimenFiscalReceptor, err = b.code(p+"/RegimenFiscalReceptor", v, catalog.RegimenFiscal); err != nil {
		return out, err
	}

	if v, err = requiredAttr(el, p, "UsoCFDI"); err != nil {
		return out, err
	}
	out.UsoCFDI, err = b.code(p+"/UsoCFDI", v, catalog.UsoCFDI)
	return out, err
}

func (b *binder) bindConcepto40(el *etree.Element, p string) (*v40.Concepto, error) {
	out := &v40.Concepto{Descuento: decimal.Zero}
	v, err := requiredAttr(el, p, "ClaveProdServ")
	if err != nil {
		return nil, err
	}
	if out.ClaveProdServ, err = text(p+"/ClaveProdServ", v, 1, 100); err != nil {
		return nil, err
	}

	if v, ok := attr(el, "NoIdentificacion"); ok {
		if out.NoIdentificacion, err = text(p+"/NoIdentificacion", v, 1, 100); err != nil {
			return nil, err
		}
	}

	if v, err = requiredAttr(el, p, "Cantidad"); err != nil {
		return nil, err
	}
	if out.Cantidad, err = positiveAmount(p+"/Cantidad", v); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "ClaveUnidad"); err != nil {
		return nil, err
	}
	if out.ClaveUnidad, err = text(p+"/ClaveUnidad", v, 1, 20); err != nil {
		return nil, err
	}

	if v, ok := attr(el, "Unidad"); ok {
		if out.Unidad, err = text(p+"/Unidad", v, 1, 20); err != nil {
			return nil, err
		}
	}

	if v, err = requiredAttr(el, p, "Descripcion"); err != nil {
		return nil, err
	}
	if out.Descripcion, err = text(p+"/Descripcion", v, 1, 1000); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "ValorUnitario"); err != nil {
		return nil, err
	}
	if out.ValorUnitario, err = amount(p+"/ValorUnitario", v); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "Importe"); err != nil {
		return nil, err
	}
	if out.Importe, err = amount(p+"/Importe", v); err != nil {
		return nil, err
	}

	if v, ok := attr(el, "Descuento"); ok {
		if out.Descuento, err = amount(p+"/Descuento", v); err != nil {
			return nil, err
		}
	}

	if v, err = requiredAttr(el, p, "ObjetoImp"); err != nil {
		return nil, err
	}
	if out.ObjetoImp, err = b.code(p+"/ObjetoImp", v, catalog.ObjetoImp); err != nil {
		return nil, err
	}

	if imp := child(el, "Impuestos"); imp != nil {
		if out.Impuestos, err = b.bindConceptoImpuestos40(imp, p+"/Impuestos"); err != nil {
			return nil, err
		}
	}

	for i, act := range children(el, "ACuentaTerceros") {
		terceros, err := b.bindACuentaTerceros(act, indexed(p, "ACuentaTerceros", i))
		if err != nil {
			return nil, err
		}
		out.ACuentaTerceros = append(out.ACuentaTerceros, *terceros)
	}

	for i, ia := range children(el, "InformacionAduanera") {
		info, err := bindInformacionAduanera(ia, indexed(p, "InformacionAduanera", i))
		if err != nil {
			return nil, err
		}
		out.InformacionAduanera = append(out.InformacionAduanera, v40.InformacionAduanera{NumeroPedimento: info})
	}

	for i, cp := range children(el, "CuentaPredial") {
		numero, err := bindCuentaPredial(cp, indexed(p, "CuentaPredial", i))
		if err != nil {
			return nil, err
		}
		out.CuentaPredial = append(out.CuentaPredial, v40.CuentaPredial{Numero: numero})
	}

	for i, pt := range children(el, "Parte") {
		parte, err := b.bindParte40(pt, indexed(p, "Parte", i))
		if err != nil {
			return nil, err
		}
		out.Partes = append(out.Partes, *parte)
	}

	return out, nil
}

func (b *binder) bindConceptoImpuestos40(el *etree.Element, p string) (*v40.ConceptoImpuestos, error) {
	out := &v40.ConceptoImpuestos{}
	if w := child(el, "Traslados"); w != nil {
		for i, t := range children(w, "Traslado") {
			tr, err := b.bindConceptoTraslado40(t, indexed(p+"/Traslados", "Traslado", i))
			if err != nil {
				return nil, err
			}
			out.Traslados = append(out.Traslados, *tr)
		}
	}
	if w := child(el, "Retenciones"); w != nil {
		for i, r := range children(w, "Retencion") {
			re, err := b.bindConceptoRetencion40(r, indexed(p+"/Retenciones", "Retencion", i))
			if err != nil {
				return nil, err
			}
			out.Retenciones = append(out.Retenciones, *re)
		}
	}
	return out, nil
}

func (b *binder) bindConceptoTraslado40(el *etree.Element, p string) (*v40.ConceptoTraslado, error) {
	out := &v40.ConceptoTraslado{}
	v, err := requiredAttr(el, p, "Base")
	if err != nil {
		return nil, err
	}
	if out.Base, err = positiveAmount(p+"/Base", v); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "Impuesto"); err != nil {
		return nil, err
	}
	if out.Impuesto, err = b.code(p+"/Impuesto", v, catalog.Impuesto); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "TipoFactor"); err != nil {
		return nil, err
	}
	if out.TipoFactor, err = b.code(p+"/TipoFactor", v, catalog.TipoFactor); err != nil {
		return nil, err
	}

	if v, ok := attr(el, "TasaOCuota"); ok {
		tasa, err := amount(p+"/TasaOCuota", v)
		if err != nil {
			return nil, err
		}
		out.TasaOCuota = &tasa
	}
	if v, ok := attr(el, "Importe"); ok {
		imp, err := amount(p+"/Importe", v)
		if err != nil {
			return nil, err
		}
		out.Importe = &imp
	}
	return out, nil
}

func (b *binder) bindConceptoRetencion40(el *etree.Element, p string) (*v40.ConceptoRetencion, error) {
	out := &v40.ConceptoRetencion{}
	v, err := requiredAttr(el, p, "Base")
	if err != nil {
		return nil, err
	}
	if out.Base, err = positiveAmount(p+"/Base", v); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "Impuesto"); err != nil {
		return nil, err
	}
	if out.Impuesto, err = b.code(p+"/Impuesto", v, catalog.Impuesto); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "TipoFactor"); err != nil {
		return nil, err
	}
	if out.TipoFactor, err = b.code(p+"/TipoFactor", v, catalog.TipoFactor); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "TasaOCuota"); err != nil {
		return nil, err
	}
	if out.TasaOCuota, err = amount(p+"/TasaOCuota", v); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "Importe"); err != nil {
		return nil, err
	}
	if out.Importe, err = amount(p+"/Importe", v); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *binder) bindImpuestos40(el *etree.Element, p string) (*v40.Impuestos, error) {
	out := &v40.Impuestos{
		TotalImpuestosRetenidos:   decimal.Zero,
		TotalImpuestosTrasladados: decimal.Zero,
	}
	var err error

	if w := child(el, "Retenciones"); w != nil {
		for i, r := range children(w, "Retencion") {
			rp := indexed(p+"/Retenciones", "Retencion", i)
			re := v40.Retencion{}
			v, err := requiredAttr(r, rp, "Impuesto")
			if err != nil {
				return nil, err
			}
			if re.Impuesto, err = b.code(rp+"/Impuesto", v, catalog.Impuesto); err != nil {
				return nil, err
			}
			if v, err = requiredAttr(r, rp, "Importe"); err != nil {
				return nil, err
			}
			if re.Importe, err = amount(rp+"/Importe", v); err != nil {
				return nil, err
			}
			out.Retenciones = append(out.Retenciones, re)
		}
	}

	if w := child(el, "Traslados"); w != nil {
		for i, t := range children(w, "Traslado") {
			tr, err := b.bindTraslado40(t, indexed(p+"/Traslados", "Traslado", i))
			if err != nil {
				return nil, err
			}
			out.Traslados = append(out.Traslados, *tr)
		}
	}

	if v, ok := attr(el, "TotalImpuestosRetenidos"); ok {
		if out.TotalImpuestosRetenidos, err = amount(p+"/TotalImpuestosRetenidos", v); err != nil {
			return nil, err
		}
	}
	if v, ok := attr(el, "TotalImpuestosTrasladados"); ok {
		if out.TotalImpuestosTrasladados, err = amount(p+"/TotalImpuestosTrasladados", v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (b *binder) bindTraslado40(el *etree.Element, p string) (*v40.Traslado, error) {
	out := &v40.Traslado{TasaOCuota: decimal.Zero, Importe: decimal.Zero}
	v, err := requiredAttr(el, p, "Base")
	if err != nil {
		return nil, err
	}
	if out.Base, err = amount(p+"/Base", v); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "Impuesto"); err != nil {
		return nil, err
	}
	if out.Impuesto, err = b.code(p+"/Impuesto", v, catalog.Impuesto); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "TipoFactor"); err != nil {
		return nil, err
	}
	if out.TipoFactor, err = b.code(p+"/TipoFactor", v, catalog.TipoFactor); err != nil {
		return nil, err
	}

	if v, ok := attr(el, "TasaOCuota"); ok {
		if out.TasaOCuota, err = amount(p+"/TasaOCuota", v); err != nil {
			return nil, err
		}
	}
	if v, ok := attr(el, "Importe"); ok {
		if out.Importe, err = amount(p+"/Importe", v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (b *binder) bindACuentaTerceros(el *etree.Element, p string) (*v40.ACuentaTerceros, error) {
	out := &v40.ACuentaTerceros{}
	v, err := requiredAttr(el, p, "RfcACuentaTerceros")
	if err != nil {
		return nil, err
	}
	if out.RfcACuentaTerceros, err = rfc(p+"/RfcACuentaTerceros", v); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "NombreACuentaTerceros"); err != nil {
		return nil, err
	}
	if out.NombreACuentaTerceros, err = text(p+"/NombreACuentaTerceros", v, 1, 300); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "RegimenFiscalACuentaTerceros"); err != nil {
		return nil, err
	}
	if out.RegimenFiscalACuentaTerceros, err = b.code(p+"/RegimenFiscalACuentaTerceros", v, catalog.RegimenFiscal); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "DomicilioFiscalACuentaTerceros"); err != nil {
		return nil, err
	}
	out.DomicilioFiscalACuentaTerceros, err = digits(p+"/DomicilioFiscalACuentaTerceros", v, 5)
	return out, err
}

func (b *binder) bindParte40(el *etree.Element, p string) (*v40.Parte, error) {
	out := &v40.Parte{}
	v, err := requiredAttr(el, p, "ClaveProdServ")
	if err != nil {
		return nil, err
	}
	if out.ClaveProdServ, err = text(p+"/ClaveProdServ", v, 1, 100); err != nil {
		return nil, err
	}

	if v, ok := attr(el, "NoIdentificacion"); ok {
		if out.NoIdentificacion, err = text(p+"/NoIdentificacion", v, 1, 100); err != nil {
			return nil, err
		}
	}

	if v, err = requiredAttr(el, p, "Cantidad"); err != nil {
		return nil, err
	}
	if out.Cantidad, err = positiveAmount(p+"/Cantidad", v); err != nil {
		return nil, err
	}

	if v, ok := attr(el, "Unidad"); ok {
		if out.Unidad, err = text(p+"/Unidad", v, 1, 20); err != nil {
			return nil, err
		}
	}

	if v, err = requiredAttr(el, p, "Descripcion"); err != nil {
		return nil, err
	}
	if out.Descripcion, err = text(p+"/Descripcion", v, 1, 1000); err != nil {
		return nil, err
	}

	if v, ok := attr(el, "ValorUnitario"); ok {
		vu, err := amount(p+"/ValorUnitario", v)
		if err != nil {
			return nil, err
		}
		out.ValorUnitario = &vu
	}
	if v, ok := attr(el, "Importe"); ok {
		imp, err := amount(p+"/Importe", v)
		if err != nil {
			return nil, err
		}
		out.Importe = &imp
	}

	for i, ia := range children(el, "InformacionAduanera") {
		info, err := bindInformacionAduanera(ia, indexed(p, "InformacionAduanera", i))
		if err != nil {
			return nil, err
		}
		out.InformacionAduanera = append(out.InformacionAduanera, v40.InformacionAduanera{NumeroPedimento: info})
	}
	return out, nil
}

// bindComplemento extracts the digital stamp. The TimbreFiscalDigital
// element lives in its own namespace, so matching checks both the local
// tag and the namespace URI.
func (b *binder) bindComplemento(el *etree.Element, p string) (*v40.Complemento, error) {
	out := &v40.Complemento{}
	for _, c := range el.ChildElements() {
		if c.Tag != "TimbreFiscalDigital" || c.NamespaceURI() != NamespaceTFD {
			continue
		}
		tfd, err := b.bindTimbre(c, p+"/TimbreFiscalDigital")
		if err != nil {
			return nil, err
		}
		out.TimbreFiscalDigital = tfd
		break
	}
	return out, nil
}

func (b *binder) bindTimbre(el *etree.Element, p string) (*v40.TimbreFiscalDigital, error) {
	out := &v40.TimbreFiscalDigital{}
	v, err := requiredAttr(el, p, "Version")
	if err != nil {
		return nil, err
	}
	out.Version = v

	if v, err = requiredAttr(el, p, "UUID"); err != nil {
		return nil, err
	}
	if out.UUID, err = parseUUID(p+"/UUID", v); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "FechaTimbrado"); err != nil {
		return nil, err
	}
	if out.FechaTimbrado, err = fecha(p+"/FechaTimbrado", v); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "RfcProvCertif"); err != nil {
		return nil, err
	}
	if out.RfcProvCertif, err = rfc(p+"/RfcProvCertif", v); err != nil {
		return nil, err
	}

	out.Leyenda, _ = attr(el, "Leyenda")

	if out.SelloCFD, err = requiredAttr(el, p, "SelloCFD"); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(el, p, "NoCertificadoSAT"); err != nil {
		return nil, err
	}
	if out.NoCertificadoSAT, err = digits(p+"/NoCertificadoSAT", v, 20); err != nil {
		return nil, err
	}

	out.SelloSAT, err = requiredAttr(el, p, "SelloSAT")
	return out, err
}

// validateExento enforces the conditional requiredness of concept-level
// transferred taxes across the whole document: TasaOCuota and Importe
// must both be present for Tasa and Cuota factors. For Exento both may
// be omitted, and their presence is tolerated. Every violation is
// collected so callers see the full picture in one pass.
func validateExento(doc *v40.CFDI40) error {
	var errs error
	for i, c := range doc.Conceptos {
		if c.Impuestos == nil {
			continue
		}
		for j, tr := range c.Impuestos.Traslados {
			if tr.TipoFactor == catalog.TipoFactorExento {
				continue
			}
			p := indexed(indexed("Comprobante/Conceptos", "Concepto", i)+"/Impuestos/Traslados", "Traslado", j)
			if tr.TasaOCuota == nil {
				errs = multierr.Append(errs, model.NewValidationError(p+"/TasaOCuota", nil,
					"conditional", "required when TipoFactor is Tasa or Cuota"))
			}
			if tr.Importe == nil {
				errs = multierr.Append(errs, model.NewValidationError(p+"/Importe", nil,
					"conditional", "required when TipoFactor is Tasa or Cuota"))
			}
		}
	}
	return errs
}
