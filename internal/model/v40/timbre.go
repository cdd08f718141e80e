package v40

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// TimbreFiscalDigital is the authority-issued stamping complement
// (TimbreFiscalDigitalv11). It binds the fiscal folio (UUID) and the SAT
// seal to the document.
type TimbreFiscalDigital struct {
	Version          string    `json:"version"`
	UUID             uuid.UUID `json:"uuid"`
	FechaTimbrado    time.Time `json:"fecha_timbrado"`
	RfcProvCertif    string    `json:"rfc_prov_certif"`
	Leyenda          string    `json:"leyenda,omitempty"`
	SelloCFD         string    `json:"sello_cfd"`
	NoCertificadoSAT string    `json:"no_certificado_sat"`
	SelloSAT         string    `json:"sello_sat"`
}

// CadenaOriginal renders the canonical string the SAT seal is computed
// over: the five stamp attributes in fixed order, pipe-delimited and
// wrapped in double pipes. Tabs, carriage returns and newlines become
// spaces, and runs of whitespace collapse to a single space. The result
// is deterministic; signing it (SHA-1) happens elsewhere.
func (t *TimbreFiscalDigital) CadenaOriginal() string {
	campos := []string{
		t.Version,
		strings.ToUpper(t.UUID.String()),
		t.FechaTimbrado.Format("2006-01-02T15:04:05"),
		t.SelloSAT,
		t.NoCertificadoSAT,
	}
	return "||" + collapseSpace(strings.Join(campos, "|")) + "||"
}

// collapseSpace replaces every whitespace character with a plain space
// and collapses runs into one.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = true
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}
	if pending {
		b.WriteByte(' ')
	}
	return b.String()
}
