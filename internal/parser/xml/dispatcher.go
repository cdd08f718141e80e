// Package xml parses CFDI XML documents into the validated model graph.
//
// Parsing is a pure in-memory computation: callers hand in bytes, the
// package hands back a model.Document or a typed error. The version
// dispatcher sniffs the schema version from the root element before any
// structural binding is attempted.
package xml

import (
	"github.com/beevik/etree"

	"github.com/fiscalmx/cfdi-processor/internal/catalog"
	"github.com/fiscalmx/cfdi-processor/internal/model"
)

// CFDI namespaces per schema version, plus the stamp complement.
const (
	NamespaceCFDI3 = "http://www.sat.gob.mx/cfd/3"
	NamespaceCFDI4 = "http://www.sat.gob.mx/cfd/4"
	NamespaceTFD   = "http://www.sat.gob.mx/TimbreFiscalDigital"
)

const rootTag = "Comprobante"

// DetectVersion determines which schema version applies to the raw XML
// without committing to a structural parse.
//
// Malformed XML surfaces as *model.ParseError. A well-formed document
// with no prefixed namespace declarations, with zero or multiple invoice
// root elements, or with a missing or unsupported Version attribute
// surfaces as *model.UnknownVersionError, letting callers skip rather
// than fail hard.
func DetectVersion(data []byte) (model.Version, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return model.VersionUnknown, model.NewParseError("xml", "not well-formed XML", err)
	}
	root := doc.Root()
	if root == nil {
		return model.VersionUnknown, model.NewParseError("xml", "empty XML document", nil)
	}

	if !hasPrefixedNamespaces(root) {
		return model.VersionUnknown, &model.UnknownVersionError{}
	}

	matches := findComprobantes(root)
	if len(matches) != 1 {
		return model.VersionUnknown, &model.UnknownVersionError{}
	}

	raw := matches[0].SelectAttrValue("Version", "")
	if raw == "" {
		return model.VersionUnknown, &model.UnknownVersionError{}
	}
	ver := model.Version(raw)
	if !ver.Supported() {
		return model.VersionUnknown, &model.UnknownVersionError{Raw: raw}
	}
	return ver, nil
}

// hasPrefixedNamespaces reports whether the root element declares at
// least one prefixed namespace (xmlns:pfx="...").
func hasPrefixedNamespaces(root *etree.Element) bool {
	for _, a := range root.Attr {
		if a.Space == "xmlns" {
			return true
		}
	}
	return false
}

// findComprobantes collects every element in the tree named Comprobante
// and bound to one of the CFDI namespaces.
func findComprobantes(el *etree.Element) []*etree.Element {
	var found []*etree.Element
	if el.Tag == rootTag {
		if ns := el.NamespaceURI(); ns == NamespaceCFDI3 || ns == NamespaceCFDI4 {
			found = append(found, el)
		}
	}
	for _, child := range el.ChildElements() {
		found = append(found, findComprobantes(child)...)
	}
	return found
}

// Parser turns CFDI XML bytes into validated documents. The catalog
// store backs the membership checks of every enum-typed attribute and is
// only read, so a single Parser is safe for concurrent use.
type Parser struct {
	catalogs catalog.Store
}

// Option configures a Parser.
type Option func(*Parser)

// WithCatalogs swaps the catalog store used for membership validation.
func WithCatalogs(store catalog.Store) Option {
	return func(p *Parser) { p.catalogs = store }
}

// NewParser creates a parser backed by the compiled catalogs unless
// overridden.
func NewParser(opts ...Option) *Parser {
	p := &Parser{catalogs: catalog.NewStatic()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse sniffs the version and runs the matching structural binder.
// Validation is all-or-nothing: on any failure no document is returned.
func (p *Parser) Parse(data []byte) (model.Document, error) {
	ver, err := DetectVersion(data)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.NewParseError("xml", "not well-formed XML", err)
	}
	root := findComprobantes(doc.Root())[0]

	b := &binder{catalogs: p.catalogs}
	switch ver {
	case model.Version33:
		return b.bindCFDI33(root)
	case model.Version40:
		return b.bindCFDI40(root)
	default:
		return nil, &model.UnknownVersionError{Raw: string(ver)}
	}
}
