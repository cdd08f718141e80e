// Package cfdilib provides a public API for parsing and validating
// Mexican electronic invoices (CFDI) in versions 3.3 and 4.0.
//
// Example usage:
//
//	doc, err := cfdilib.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if cfdi, ok := doc.(*cfdilib.CFDI40); ok {
//	    fmt.Println(cfdi.VerificationURL())
//	}
package cfdilib

import (
	"os"

	"github.com/fiscalmx/cfdi-processor/internal/catalog"
	"github.com/fiscalmx/cfdi-processor/internal/model"
	"github.com/fiscalmx/cfdi-processor/internal/model/v33"
	"github.com/fiscalmx/cfdi-processor/internal/model/v40"
	xmlparser "github.com/fiscalmx/cfdi-processor/internal/parser/xml"
)

// Re-export core types for public API
type (
	Document            = model.Document
	Version             = model.Version
	CFDI33              = v33.CFDI33
	CFDI40              = v40.CFDI40
	TimbreFiscalDigital = v40.TimbreFiscalDigital
)

// Re-export schema versions
const (
	Version33      = model.Version33
	Version40      = model.Version40
	VersionUnknown = model.VersionUnknown
)

// Re-export error types
type (
	ParseError          = model.ParseError
	ValidationError     = model.ValidationError
	UnknownVersionError = model.UnknownVersionError
)

// Re-export the catalog contract so callers can plug their own backing.
type (
	CatalogStore    = catalog.Store
	CatalogName     = catalog.Name
	CatalogNotFound = catalog.NotFoundError
)

// Parser re-exports the structural parser
type Parser = xmlparser.Parser

// NewParser creates a parser backed by the compiled catalogs.
func NewParser() *Parser {
	return xmlparser.NewParser()
}

// NewParserWithCatalogs creates a parser with a caller-supplied catalog
// store.
func NewParserWithCatalogs(store CatalogStore) *Parser {
	return xmlparser.NewParser(xmlparser.WithCatalogs(store))
}

// DetectVersion sniffs the CFDI schema version without a full parse.
func DetectVersion(data []byte) (Version, error) {
	return xmlparser.DetectVersion(data)
}

// Parse parses and validates a CFDI document with default settings.
func Parse(data []byte) (Document, error) {
	return NewParser().Parse(data)
}

// ParseFile reads and parses a CFDI document from disk.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
