package xml_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscalmx/cfdi-processor/internal/catalog"
	"github.com/fiscalmx/cfdi-processor/internal/model"
	"github.com/fiscalmx/cfdi-processor/internal/model/v33"
	"github.com/fiscalmx/cfdi-processor/internal/model/v40"
	xmlparser "github.com/fiscalmx/cfdi-processor/internal/parser/xml"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected model.Version
		wantErr  error
	}{
		{
			name: "version 3.3",
			content: `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/3" Version="3.3">` +
				`</cfdi:Comprobante>`,
			expected: model.Version33,
		},
		{
			name: "version 4.0",
			content: `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4" Version="4.0">` +
				`</cfdi:Comprobante>`,
			expected: model.Version40,
		},
		{
			name:    "malformed XML",
			content: `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4" Version="4.0">`,
			wantErr: &model.ParseError{},
		},
		{
			name:    "no prefixed namespaces",
			content: `<Comprobante Version="3.3"></Comprobante>`,
			wantErr: &model.UnknownVersionError{},
		},
		{
			name: "unsupported version",
			content: `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/3" Version="3.2">` +
				`</cfdi:Comprobante>`,
			wantErr: &model.UnknownVersionError{},
		},
		{
			name: "missing version attribute",
			content: `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4">` +
				`</cfdi:Comprobante>`,
			wantErr: &model.UnknownVersionError{},
		},
		{
			name: "wrong namespace",
			content: `<other:Comprobante xmlns:other="http://example.com/invoice" Version="4.0">` +
				`</other:Comprobante>`,
			wantErr: &model.UnknownVersionError{},
		},
		{
			name: "two invoice roots",
			content: `<wrap:Batch xmlns:wrap="http://example.com/batch" xmlns:cfdi="http://www.sat.gob.mx/cfd/4">` +
				`<cfdi:Comprobante Version="4.0"/><cfdi:Comprobante Version="4.0"/></wrap:Batch>`,
			wantErr: &model.UnknownVersionError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ver, err := xmlparser.DetectVersion([]byte(tt.content))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, model.VersionUnknown, ver)
				switch tt.wantErr.(type) {
				case *model.ParseError:
					var pe *model.ParseError
					assert.ErrorAs(t, err, &pe)
				case *model.UnknownVersionError:
					var ue *model.UnknownVersionError
					assert.ErrorAs(t, err, &ue)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ver)
		})
	}
}

func TestDetectVersion_NestedRoot(t *testing.T) {
	// A Comprobante wrapped in a foreign envelope is still found.
	content := `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<soap:Body><cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/3" Version="3.3"/></soap:Body>` +
		`</soap:Envelope>`

	ver, err := xmlparser.DetectVersion([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, model.Version33, ver)
}

func TestParse_CFDI33(t *testing.T) {
	p := xmlparser.NewParser()
	doc, err := p.Parse(readFixture(t, "cfdi33_valid.xml"))
	require.NoError(t, err)
	require.Equal(t, model.Version33, doc.SchemaVersion())

	c, ok := doc.(*v33.CFDI33)
	require.True(t, ok)

	assert.Equal(t, "3.3", c.Version)
	assert.Equal(t, "A", c.Serie)
	assert.Equal(t, "167ABC", c.Folio)
	assert.Equal(t, "2017-06-14T23:42:00", c.Fecha.Format("2006-01-02T15:04:05"))
	assert.Equal(t, "01", c.FormaPago)
	assert.Equal(t, "MXN", c.Moneda)
	assert.Equal(t, "I", c.TipoDeComprobante)
	assert.Equal(t, "PUE", c.MetodoPago)
	assert.Equal(t, "45079", c.LugarExpedicion)
	assert.Nil(t, c.TipoCambio)

	// Amounts keep their written precision.
	assert.Equal(t, "551.73", c.SubTotal.String())
	assert.Equal(t, "640.00", c.Total.String())
	assert.True(t, c.Descuento.IsZero())

	assert.Equal(t, "EKU9003173C9", c.Emisor.Rfc)
	assert.Equal(t, "601", c.Emisor.RegimenFiscal)
	assert.Equal(t, "XAXX010101000", c.Receptor.Rfc)
	assert.Equal(t, "G03", c.Receptor.UsoCFDI)

	require.NotNil(t, c.Relacionados)
	assert.Equal(t, "01", c.Relacionados.TipoRelacion)
	require.Len(t, c.Relacionados.UUIDs, 1)
	assert.Equal(t, "a658a9dc-5d63-4c0d-a6b8-313c21c52f8a", c.Relacionados.UUIDs[0].String())

	require.Len(t, c.Conceptos, 4)
	assert.Equal(t, "50211503", c.Conceptos[0].ClaveProdServ)
	assert.Equal(t, "299.00", c.Conceptos[0].Importe.String())
	require.NotNil(t, c.Conceptos[0].Impuestos)
	require.Len(t, c.Conceptos[0].Impuestos.Traslados, 1)
	tr := c.Conceptos[0].Impuestos.Traslados[0]
	assert.Equal(t, "002", tr.Impuesto)
	assert.Equal(t, "Tasa", tr.TipoFactor)
	assert.Equal(t, "0.160000", tr.TasaOCuota.String())
	assert.Equal(t, "47.84", tr.Importe.String())
	require.NotNil(t, tr.Base)
	assert.True(t, tr.Base.Equal(decimal.RequireFromString("299.00")))

	// Fourth concept carries an explicit zero Descuento.
	require.NotNil(t, c.Conceptos[3].Descuento)
	assert.True(t, c.Conceptos[3].Descuento.IsZero())
	assert.Nil(t, c.Conceptos[2].Descuento)

	// Per-concept tax totals reconcile with the document summary.
	var sum decimal.Decimal
	for _, con := range c.Conceptos {
		for _, tx := range con.Impuestos.Traslados {
			sum = sum.Add(tx.Importe)
		}
	}
	require.NotNil(t, c.Impuestos)
	assert.True(t, sum.Equal(c.Impuestos.TotalImpuestosTrasladados))
	assert.Equal(t, "88.27", c.Impuestos.TotalImpuestosTrasladados.String())
}

func TestParse_CFDI33_AttributeOrderIrrelevant(t *testing.T) {
	// Same document with reshuffled sibling elements and attributes.
	data := readFixture(t, "cfdi33_valid.xml")
	p := xmlparser.NewParser()
	base, err := p.Parse(data)
	require.NoError(t, err)

	shuffled := `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/3"
		Total="100.00" SubTotal="100.00" Moneda="MXN" Version="3.3"
		LugarExpedicion="45079" TipoDeComprobante="I" Folio="1"
		Certificado="MIIG" NoCertificado="30001000000300023708"
		Sello="sello" Fecha="2020-01-15T10:00:00">
		<cfdi:Conceptos>
			<cfdi:Concepto ClaveProdServ="01010101" Cantidad="1" ClaveUnidad="ACT"
				Descripcion="Servicio" ValorUnitario="100.00" Importe="100.00"/>
		</cfdi:Conceptos>
		<cfdi:Receptor UsoCFDI="G03" Rfc="XAXX010101000"/>
		<cfdi:Emisor RegimenFiscal="601" Rfc="EKU9003173C9"/>
	</cfdi:Comprobante>`

	doc, err := p.Parse([]byte(shuffled))
	require.NoError(t, err)
	c, ok := doc.(*v33.CFDI33)
	require.True(t, ok)
	assert.Equal(t, "1", c.Folio)
	assert.Equal(t, base.SchemaVersion(), c.SchemaVersion())
}

func TestParse_CFDI33_PartyNamesOptional(t *testing.T) {
	// The cfdv33 schema marks Nombre as optional on both parties; a
	// document naming neither still parses.
	minimal := `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/3"
		Version="3.3" Folio="1" Fecha="2020-01-15T10:00:00" Sello="s"
		NoCertificado="30001000000300023708" Certificado="MIIG"
		SubTotal="100.00" Moneda="MXN" Total="116.00"
		TipoDeComprobante="I" LugarExpedicion="45079">
		<cfdi:Emisor Rfc="EKU9003173C9" RegimenFiscal="601"/>
		<cfdi:Receptor Rfc="XAXX010101000" UsoCFDI="G03"/>
		<cfdi:Conceptos>
			<cfdi:Concepto ClaveProdServ="01010101" Cantidad="1" ClaveUnidad="ACT"
				Descripcion="Servicio" ValorUnitario="100.00" Importe="100.00"/>
		</cfdi:Conceptos>
	</cfdi:Comprobante>`

	doc, err := xmlparser.NewParser().Parse([]byte(minimal))
	require.NoError(t, err)
	c, ok := doc.(*v33.CFDI33)
	require.True(t, ok)
	assert.Empty(t, c.Emisor.Nombre)
	assert.Empty(t, c.Receptor.Nombre)
}

func TestParse_CFDI33_Errors(t *testing.T) {
	valid := `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/3"
		Version="3.3" Folio="1" Fecha="2020-01-15T10:00:00" Sello="s"
		NoCertificado="30001000000300023708" Certificado="MIIG"
		SubTotal="100.00" Moneda="MXN" Total="116.00"
		TipoDeComprobante="I" LugarExpedicion="45079">
		<cfdi:Emisor Rfc="EKU9003173C9" RegimenFiscal="601"/>
		<cfdi:Receptor Rfc="XAXX010101000" UsoCFDI="G03"/>
		<cfdi:Conceptos>
			<cfdi:Concepto ClaveProdServ="01010101" Cantidad="1" ClaveUnidad="ACT"
				Descripcion="Servicio" ValorUnitario="100.00" Importe="100.00"/>
		</cfdi:Conceptos>
	</cfdi:Comprobante>`

	p := xmlparser.NewParser()
	_, err := p.Parse([]byte(valid))
	require.NoError(t, err)

	mutate := func(old, new string) []byte {
		return []byte(strings.Replace(valid, old, new, 1))
	}

	tests := []struct {
		name string
		old  string
		new  string
		path string
		rule string
	}{
		{"missing folio", `Folio="1" `, ``, "Comprobante/Folio", "required"},
		{"bad rfc", `Rfc="EKU9003173C9"`, `Rfc="NOPE"`, "Comprobante/Emisor/Rfc", "pattern"},
		{"unknown currency", `Moneda="MXN"`, `Moneda="XGB"`, "Comprobante/Moneda", "catalog"},
		{"unknown forma pago", `Version="3.3"`, `Version="3.3" FormaPago="99a"`, "Comprobante/FormaPago", "catalog"},
		{"seven decimals", `SubTotal="100.00"`, `SubTotal="100.1234567"`, "Comprobante/SubTotal", "decimal_places"},
		{"negative total", `Total="116.00"`, `Total="-116.00"`, "Comprobante/Total", "non_negative"},
		{"not a number", `Total="116.00"`, `Total="abc"`, "Comprobante/Total", "decimal"},
		{"bad date", `Fecha="2020-01-15T10:00:00"`, `Fecha="15/01/2020"`, "Comprobante/Fecha", "datetime"},
		{"pipe in description", `Descripcion="Servicio"`, `Descripcion="Servicio|extra"`,
			"Comprobante/Conceptos/Concepto[1]/Descripcion", "pattern"},
		{"zero quantity", `Cantidad="1"`, `Cantidad="0"`, "Comprobante/Conceptos/Concepto[1]/Cantidad", "positive"},
		{"short certificate number", `NoCertificado="30001000000300023708"`, `NoCertificado="123"`,
			"Comprobante/NoCertificado", "pattern"},
		{"no concepts", `<cfdi:Concepto ClaveProdServ`, `<cfdi:Otro ClaveProdServ`,
			"Comprobante/Conceptos", "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(mutate(tt.old, tt.new))
			require.Error(t, err)
			var ve *model.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.path, ve.Path)
			assert.Equal(t, tt.rule, ve.Rule)
		})
	}
}

func TestParse_CFDI40(t *testing.T) {
	p := xmlparser.NewParser()
	doc, err := p.Parse(readFixture(t, "cfdi40_valid.xml"))
	require.NoError(t, err)
	require.Equal(t, model.Version40, doc.SchemaVersion())

	c, ok := doc.(*v40.CFDI40)
	require.True(t, ok)

	assert.Equal(t, "4.0", c.Version)
	assert.Equal(t, "F", c.Serie)
	assert.Equal(t, "12345", c.Folio)
	assert.Equal(t, "01", c.Exportacion)
	assert.Equal(t, "1740.00", c.Total.String())

	require.NotNil(t, c.InformacionGlobal)
	assert.Equal(t, "04", c.InformacionGlobal.Periodicidad)
	assert.Equal(t, "05", c.InformacionGlobal.Meses)
	assert.Equal(t, 2023, c.InformacionGlobal.Año)

	assert.Equal(t, "MISC491214B86", c.Receptor.Rfc)
	assert.Equal(t, "64000", c.Receptor.DomicilioFiscalReceptor)
	assert.Equal(t, "616", c.Receptor.RegimenFiscalReceptor)
	assert.Equal(t, "S01", c.Receptor.UsoCFDI)

	require.Len(t, c.Conceptos, 1)
	assert.Equal(t, "02", c.Conceptos[0].ObjetoImp)
	require.NotNil(t, c.Conceptos[0].Impuestos)
	require.Len(t, c.Conceptos[0].Impuestos.Traslados, 1)
	tr := c.Conceptos[0].Impuestos.Traslados[0]
	assert.Equal(t, "1500.00", tr.Base.String())
	require.NotNil(t, tr.TasaOCuota)
	assert.Equal(t, "0.160000", tr.TasaOCuota.String())
	require.NotNil(t, tr.Importe)
	assert.Equal(t, "240.00", tr.Importe.String())

	require.NotNil(t, c.Complemento)
	tfd := c.Complemento.TimbreFiscalDigital
	require.NotNil(t, tfd)
	assert.Equal(t, "1.1", tfd.Version)
	assert.Equal(t, "b5471f7b-1bb9-4928-a17f-d4c3a1a07e9d", tfd.UUID.String())
	assert.Equal(t, "SAT970701NN3", tfd.RfcProvCertif)
	assert.Equal(t, "30001000000400002495", tfd.NoCertificadoSAT)
}

func TestParse_CFDI40_Exento(t *testing.T) {
	template := `<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4"
		Version="4.0" Fecha="2023-05-29T11:20:47" Sello="s"
		NoCertificado="30001000000400002434" Certificado="MIIF"
		SubTotal="100.00" Moneda="MXN" Total="100.00"
		TipoDeComprobante="I" Exportacion="01" LugarExpedicion="64000">
		<cfdi:Emisor Rfc="EKU9003173C9" Nombre="EMISOR" RegimenFiscal="601"/>
		<cfdi:Receptor Rfc="XAXX010101000" Nombre="RECEPTOR"
			DomicilioFiscalReceptor="64000" RegimenFiscalReceptor="616" UsoCFDI="S01"/>
		<cfdi:Conceptos>
			<cfdi:Concepto ClaveProdServ="84111506" Cantidad="1" ClaveUnidad="ACT"
				Descripcion="Servicio" ValorUnitario="100.00" Importe="100.00" ObjetoImp="02">
				<cfdi:Impuestos>
					<cfdi:Traslados>
						<cfdi:Traslado %s/>
					</cfdi:Traslados>
				</cfdi:Impuestos>
			</cfdi:Concepto>
		</cfdi:Conceptos>
	</cfdi:Comprobante>`

	p := xmlparser.NewParser()

	t.Run("exempt without rate parses", func(t *testing.T) {
		doc, err := p.Parse(fillTraslado(template, `Base="100.00" Impuesto="002" TipoFactor="Exento"`))
		require.NoError(t, err)
		c := doc.(*v40.CFDI40)
		tr := c.Conceptos[0].Impuestos.Traslados[0]
		assert.Equal(t, "Exento", tr.TipoFactor)
		assert.Nil(t, tr.TasaOCuota)
		assert.Nil(t, tr.Importe)
	})

	t.Run("exempt with amounts still parses", func(t *testing.T) {
		doc, err := p.Parse(fillTraslado(template,
			`Base="100.00" Impuesto="002" TipoFactor="Exento" Importe="0.00"`))
		require.NoError(t, err)
		c := doc.(*v40.CFDI40)
		tr := c.Conceptos[0].Impuestos.Traslados[0]
		assert.Equal(t, "Exento", tr.TipoFactor)
		assert.Nil(t, tr.TasaOCuota)
		require.NotNil(t, tr.Importe)
		assert.True(t, tr.Importe.IsZero())
	})

	t.Run("rated without rate reports both gaps", func(t *testing.T) {
		_, err := p.Parse(fillTraslado(template, `Base="100.00" Impuesto="002" TipoFactor="Tasa"`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TasaOCuota")
		assert.Contains(t, err.Error(), "Importe")
	})
}

func TestParse_CFDI40_VerificationURL(t *testing.T) {
	p := xmlparser.NewParser()
	doc, err := p.Parse(readFixture(t, "cfdi40_valid.xml"))
	require.NoError(t, err)
	c := doc.(*v40.CFDI40)

	u := c.VerificationURL()
	assert.Contains(t, u, "https://verificacfdi.facturaelectronica.sat.gob.mx?id=b5471f7b-1bb9-4928-a17f-d4c3a1a07e9d")
	assert.Contains(t, u, "&re=EKU9003173C9")
	assert.Contains(t, u, "&rr=MISC491214B86")
	assert.Contains(t, u, "&tt=1740.00")
	// fe is the tail of the seal.
	assert.Contains(t, u, "&fe=1234WXYZ")
}

func TestParser_WithCatalogs(t *testing.T) {
	// A store that knows nothing rejects the first catalog-typed field.
	p := xmlparser.NewParser(xmlparser.WithCatalogs(emptyStore{}))
	_, err := p.Parse(readFixture(t, "cfdi33_valid.xml"))
	require.Error(t, err)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "catalog", ve.Rule)
}

func fillTraslado(template, attrs string) []byte {
	return []byte(fmt.Sprintf(template, attrs))
}

// emptyStore is a catalog.Store with no entries at all.
type emptyStore struct{}

func (emptyStore) Lookup(name catalog.Name, code string) (string, error) {
	return "", &catalog.NotFoundError{Catalog: name, Code: code}
}

func (emptyStore) Contains(catalog.Name, string) bool { return false }
