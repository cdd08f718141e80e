package xml

import (
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/fiscalmx/cfdi-processor/internal/catalog"
	"github.com/fiscalmx/cfdi-processor/internal/model"
	"github.com/fiscalmx/cfdi-processor/internal/model/v33"
)

// bindCFDI33 maps a version-confirmed 3.3 root element onto the typed
// graph. Any constraint violation aborts the whole parse.
func (b *binder) bindCFDI33(root *etree.Element) (*v33.CFDI33, error) {
	const p = "Comprobante"
	out := &v33.CFDI33{Descuento: decimal.Zero}
	var err error

	ver, err := requiredAttr(root, p, "Version")
	if err != nil {
		return nil, err
	}
	if ver != string(model.Version33) {
		return nil, model.NewValidationError(p+"/Version", ver, "literal", "must be 3.3")
	}
	out.Version = ver

	if v, ok := attr(root, "Serie"); ok {
		if out.Serie, err = text(p+"/Serie", v, 1, 25); err != nil {
			return nil, err
		}
	}

	v, err := requiredAttr(root, p, "Folio")
	if err != nil {
		return nil, err
	}
	if out.Folio, err = text(p+"/Folio", v, 1, 40); err != nil {
		return nil, err
	}

	if v, err = requiredAttr(root, p, "Fecha"); err != nil {
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

	if el := child(root, "CfdiRelacionados"); el != nil {
		if out.Relacionados, err = b.bindRelacionados33(el, p+"/CfdiRelacionados"); err != nil {
			return nil, err
		}
	}

	el, err := requiredChild(root, p, "Emisor")
	if err != nil {
		return nil, err
	}
	if out.Emisor, err = b.bindEmisor33(el, p+"/Emisor"); err != nil {
		return nil, err
	}

	if el, err = requiredChild(root, p, "Receptor"); err != nil {
		return nil, err
	}
	if out.Receptor, err = b.bindReceptor33(el, p+"/Receptor"); err != nil {
		return nil, err
	}

	if el, err = requiredChild(root, p, "Conceptos"); err != nil {
		return nil, err
	}
	for i, c := range children(el, "Concepto") {
		concepto, err := b.bindConcepto33(c, indexed(p+"/Conceptos", "Concepto", i))
		if err != nil {
			return nil, err
		}
		out.Conceptos = append(out.Conceptos, *concepto)
	}
	if len(out.Conceptos) == 0 {
		return nil, model.NewValidationError(p+"/Conceptos", nil, "empty", "at least one Concepto is required")
	}

	if el = child(root, "Impuestos"); el != nil {
		if out.Impuestos, err = b.bindImpuestos33(el, p+"/Impuestos"); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (b *binder) bindRelacionados33(el *etree.Element, p string) (*v33.Relacionados, error) {
	out := &v33.Relacionados{}
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

func (b *binder) bindEmisor33(el *etree.Element, p string) (v33.Emisor, error) {
	var out v33.Emisor
	v, err := requiredAttr(el, p, "Rfc")
	if err != nil {
		return out, err
	}
	if out.Rfc, err = rfc(p+"/Rfc", v); err != nil {
		return out, err
	}
	out.Nombre, _ = attr(el, "Nombre")

	if v, err = requiredAttr(el, p, "RegimenFiscal"); err != nil {
		return out, err
	}
	out.RegimenFiscal, err = b.code(p+"/RegimenFiscal", v, catalog.RegimenFiscal)
	return out, err
}

func (b *binder) bindReceptor33(el *etree.Element, p string) (v33.Receptor, error) {
	var out v33.Receptor
	v, err := requiredAttr(el, p, "Rfc")
	if err != nil {
		return out, err
	}
	if out.Rfc, err = rfc(p+"/Rfc", v); err != nil {
		return out, err
	}
	out.Nombre, _ = attr(el, "Nombre")

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

	if v, err = requiredAttr(el, p, "UsoCFDI"); err != nil {
		return out, err
	}
	out.UsoCFDI, err = b.code(p+"/UsoCFDI", v, catalog.UsoCFDI)
	return out, err
}

func (b *binder) bindConcepto33(el *etree.Element, p string) (*v33.Concepto, error) {
	out := &v33.Concepto{}
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
		d, err := amount(p+"/Descuento", v)
		if err != nil {
			return nil, err
		}
		out.Descuento = &d
	}

	if imp := child(el, "Impuestos"); imp != nil {
		if out.Impuestos, err = b.bindConceptoImpuestos33(imp, p+"/Impuestos"); err != nil {
			return nil, err
		}
	}

	for i, ia := range children(el, "InformacionAduanera") {
		info, err := bindInformacionAduanera(ia, indexed(p, "InformacionAduanera", i))
		if err != nil {
			return nil, err
		}
		out.InformacionAduanera = append(out.InformacionAduanera, v33.InformacionAduanera{NumeroPedimento: info})
	}

	for i, cp := range children(el, "CuentaPredial") {
		numero, err := bindCuentaPredial(cp, indexed(p, "CuentaPredial", i))
		if err != nil {
			return nil, err
		}
		out.CuentaPredial = append(out.CuentaPredial, v33.CuentaPredial{Numero: numero})
	}

	for i, pt := range children(el, "Parte") {
		parte, err := b.bindParte33(pt, indexed(p, "Parte", i))
		if err != nil {
			return nil, err
		}
		out.Partes = append(out.Partes, *parte)
	}

	return out, nil
}

func (b *binder) bindConceptoImpuestos33(el *etree.Element, p string) (*v33.ConceptoImpuestos, error) {
	out := &v33.ConceptoImpuestos{}
	if w := child(el, "Traslados"); w != nil {
		for i, t := range children(w, "Traslado") {
			tr, err := b.bindTraslado33(t, indexed(p+"/Traslados", "Traslado", i))
			if err != nil {
				return nil, err
			}
			out.Traslados = append(out.Traslados, *tr)
		}
	}
	if w := child(el, "Retenciones"); w != nil {
		for i, r := range children(w, "Retencion") {
			re, err := b.bindRetencion33(r, indexed(p+"/Retenciones", "Retencion", i))
			if err != nil {
				return nil, err
			}
			out.Retenciones = append(out.Retenciones, *re)
		}
	}
	return out, nil
}

func (b *binder) bindImpuestos33(el *etree.Element, p string) (*v33.Impuestos, error) {
	out := &v33.Impuestos{
		TotalImpuestosRetenidos:   decimal.Zero,
		TotalImpuestosTrasladados: decimal.Zero,
	}
	var err error

	if w := child(el, "Retenciones"); w != nil {
		for i, r := range children(w, "Retencion") {
			re, err := b.bindRetencion33(r, indexed(p+"/Retenciones", "Retencion", i))
			if err != nil {
				return nil, err
			}
			out.Retenciones = append(out.Retenciones, *re)
		}
	}
	if w := child(el, "Traslados"); w != nil {
		for i, t := range children(w, "Traslado") {
			tr, err := b.bindTraslado33(t, indexed(p+"/Traslados", "Traslado", i))
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

func (b *binder) bindTraslado33(el *etree.Element, p string) (*v33.Traslado, error) {
	out := &v33.Traslado{}
	var err error

	if v, ok := attr(el, "Base"); ok {
		base, err := positiveAmount(p+"/Base", v)
		if err != nil {
			return nil, err
		}
		out.Base = &base
	}

	v, err := requiredAttr(el, p, "Impuesto")
	if err != nil {
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

func (b *binder) bindRetencion33(el *etree.Element, p string) (*v33.Retencion, error) {
	out := &v33.Retencion{}
	v, err := requiredAttr(el, p, "Impuesto")
	if err != nil {
		return nil, err
	}
	if out.Impuesto, err = b.code(p+"/Impuesto", v, catalog.Impuesto); err != nil {
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

func (b *binder) bindParte33(el *etree.Element, p string) (*v33.Parte, error) {
	out := &v33.Parte{}
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
		out.InformacionAduanera = append(out.InformacionAduanera, v33.InformacionAduanera{NumeroPedimento: info})
	}
	return out, nil
}

// bindInformacionAduanera validates the customs declaration number and
// returns it; shared by both schema versions.
func bindInformacionAduanera(el *etree.Element, p string) (string, error) {
	v, err := requiredAttr(el, p, "NumeroPedimento")
	if err != nil {
		return "", err
	}
	if !model.IsNumeroPedimento(v) {
		return "", model.NewValidationError(p+"/NumeroPedimento", v, "pattern",
			"must match the 21-character customs declaration format")
	}
	return v, nil
}

// bindCuentaPredial validates the property account number; shared by
// both schema versions.
func bindCuentaPredial(el *etree.Element, p string) (string, error) {
	v, err := requiredAttr(el, p, "Numero")
	if err != nil {
		return "", err
	}
	if !model.IsCuentaPredial(v) {
		return "", model.NewValidationError(p+"/Numero", v, "pattern", "must be 1 to 150 digits")
	}
	return v, nil
}
