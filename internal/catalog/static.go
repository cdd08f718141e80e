package catalog

// Static is the compiled closed-enumeration form of the SAT catalogs.
// The maps are package data, never mutated, so concurrent reads are safe.
//
// The open-ended catalogs (clave_prod_serv, clave_unidad, aduana) run to
// tens of thousands of entries and are not compiled in; load them through
// a FileStore or RedisStore when descriptions are needed.
type Static struct{}

// NewStatic returns the compiled catalog store.
func NewStatic() *Static {
	return &Static{}
}

// Lookup returns the description registered for code.
func (s *Static) Lookup(catalog Name, code string) (string, error) {
	m, ok := compiled[catalog]
	if !ok {
		return "", &NotFoundError{Catalog: catalog}
	}
	desc, ok := m[code]
	if !ok {
		return "", &NotFoundError{Catalog: catalog, Code: code}
	}
	return desc, nil
}

// Contains reports membership of code in catalog.
func (s *Static) Contains(catalog Name, code string) bool {
	_, ok := compiled[catalog][code]
	return ok
}

var compiled = map[Name]map[string]string{
	FormaPago:         formaPago,
	Moneda:            moneda,
	TipoDeComprobante: tipoDeComprobante,
	Exportacion:       exportacion,
	MetodoPago:        metodoPago,
	Periodicidad:      periodicidad,
	Meses:             meses,
	TipoRelacion:      tipoRelacion,
	RegimenFiscal:     regimenFiscal,
	Pais:              pais,
	UsoCFDI:           usoCFDI,
	ObjetoImp:         objetoImp,
	Impuesto:          impuesto,
	TipoFactor:        tipoFactor,
}

var formaPago = map[string]string{
	"01": "Efectivo",
	"02": "Cheque nominativo",
	"03": "Transferencia electrónica de fondos",
	"04": "Tarjeta de crédito",
	"05": "Monedero electrónico",
	"06": "Dinero electrónico",
	"08": "Vales de despensa",
	"12": "Dación en pago",
	"13": "Pago por subrogación",
	"14": "Pago por consignación",
	"15": "Condonación",
	"17": "Compensación",
	"23": "Novación",
	"24": "Confusión",
	"25": "Remisión de deuda",
	"26": "Prescripción o caducidad",
	"27": "A satisfacción del acreedor",
	"28": "Tarjeta de débito",
	"29": "Tarjeta de servicios",
	"30": "Aplicación de anticipos",
	"31": "Intermediario pagos",
	"99": "Por definir",
}

var tipoDeComprobante = map[string]string{
	"I": "Ingreso",
	"E": "Egreso",
	"T": "Traslado",
	"N": "Nómina",
	"P": "Pago",
}

var exportacion = map[string]string{
	"01": "No aplica",
	"02": "Definitiva con clave A1",
	"03": "Temporal",
	"04": "Definitiva con clave distinta a A1 o cuando no existe enajenación en términos del CFF",
}

var metodoPago = map[string]string{
	"PUE": "Pago en una sola exhibición",
	"PPD": "Pago en parcialidades o diferido",
}

var periodicidad = map[string]string{
	"01": "Diario",
	"02": "Semanal",
	"03": "Quincenal",
	"04": "Mensual",
	"05": "Bimestral",
}

var meses = map[string]string{
	"01": "Enero",
	"02": "Febrero",
	"03": "Marzo",
	"04": "Abril",
	"05": "Mayo",
	"06": "Junio",
	"07": "Julio",
	"08": "Agosto",
	"09": "Septiembre",
	"10": "Octubre",
	"11": "Noviembre",
	"12": "Diciembre",
	"13": "Enero-Febrero",
	"14": "Marzo-Abril",
	"15": "Mayo-Junio",
	"16": "Julio-Agosto",
	"17": "Septiembre-Octubre",
	"18": "Noviembre-Diciembre",
}

var tipoRelacion = map[string]string{
	"01": "Nota de crédito de los documentos relacionados",
	"02": "Nota de débito de los documentos relacionados",
	"03": "Devolución de mercancía sobre facturas o traslados previos",
	"04": "Sustitución de los CFDI previos",
	"05": "Traslados de mercancías facturados previamente",
	"06": "Factura generada por los traslados previos",
	"07": "CFDI por aplicación de anticipo",
	"08": "Factura generada por pagos en parcialidades",
	"09": "Factura generada por pagos diferidos",
}

var regimenFiscal = map[string]string{
	"601": "General de Ley Personas Morales",
	"603": "Personas Morales con Fines no Lucrativos",
	"605": "Sueldos y Salarios e Ingresos Asimilados a Salarios",
	"606": "Arrendamiento",
	"607": "Régimen de Enajenación o Adquisición de Bienes",
	"608": "Demás ingresos",
	"609": "Consolidación",
	"610": "Residentes en el Extranjero sin Establecimiento Permanente en México",
	"611": "Ingresos por Dividendos (socios y accionistas)",
	"612": "Personas Físicas con Actividades Empresariales y Profesionales",
	"614": "Ingresos por intereses",
	"615": "Régimen de los ingresos por obtención de premios",
	"616": "Sin obligaciones fiscales",
	"620": "Sociedades Cooperativas de Producción que optan por diferir sus ingresos",
	"621": "Incorporación Fiscal",
	"622": "Actividades Agrícolas, Ganaderas, Silvícolas y Pesqueras",
	"623": "Opcional para Grupos de Sociedades",
	"624": "Coordinados",
	"625": "Régimen de las Actividades Empresariales con ingresos a través de Plataformas Tecnológicas",
	"626": "Régimen Simplificado de Confianza",
	"628": "Hidrocarburos",
	"629": "De los Regímenes Fiscales Preferentes y de las Empresas Multinacionales",
	"630": "Enajenación de acciones en bolsa de valores",
}

var usoCFDI = map[string]string{
	"G01":  "Adquisición de mercancías",
	"G02":  "Devoluciones, descuentos o bonificaciones",
	"G03":  "Gastos en general",
	"I01":  "Construcciones",
	"I02":  "Mobiliario y equipo de oficina por inversiones",
	"I03":  "Equipo de transporte",
	"I04":  "Equipo de cómputo y accesorios",
	"I05":  "Dados, troqueles, moldes, matrices y herramental",
	"I06":  "Comunicaciones telefónicas",
	"I07":  "Comunicaciones satelitales",
	"I08":  "Otra maquinaria y equipo",
	"D01":  "Honorarios médicos, dentales y gastos hospitalarios",
	"D02":  "Gastos médicos por incapacidad o discapacidad",
	"D03":  "Gastos funerales",
	"D04":  "Donativos",
	"D05":  "Intereses reales efectivamente pagados por créditos hipotecarios (casa habitación)",
	"D06":  "Aportaciones voluntarias al SAR",
	"D07":  "Primas por seguros de gastos médicos",
	"D08":  "Gastos de transportación escolar obligatoria",
	"D09":  "Depósitos en cuentas para el ahorro, primas que tengan como base planes de pensiones",
	"D10":  "Pagos por servicios educativos (colegiaturas)",
	"P01":  "Por definir",
	"S01":  "Sin efectos fiscales",
	"CP01": "Pagos",
	"CN01": "Nómina",
}

var objetoImp = map[string]string{
	"01": "No objeto de impuesto",
	"02": "Sí objeto de impuesto",
	"03": "Sí objeto del impuesto y no obligado al desglose",
	"04": "Sí objeto del impuesto y no causa impuesto",
	"05": "Sí objeto del impuesto, IVA crédito PODEBI",
	"06": "Sí objeto del IVA, No traslado IVA",
	"07": "No traslado del IVA, Sí desglose IEPS",
	"08": "No traslado del IVA, No desglose IEPS",
}

var impuesto = map[string]string{
	"001": "ISR",
	"002": "IVA",
	"003": "IEPS",
}

var tipoFactor = map[string]string{
	TipoFactorTasa:   "Tasa",
	TipoFactorCuota:  "Cuota",
	TipoFactorExento: "Exento",
}
