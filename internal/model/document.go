// Package model defines the shared vocabulary of the CFDI document graph:
// the schema version token, the constraint helpers used by every field
// binder, and the typed errors surfaced to callers.
//
// The per-version entity graphs live in the v33 and v40 subpackages; a
// parsed document is exactly one of the two, never both.
package model

// Version identifies the CFDI schema a document was expressed under.
type Version string

const (
	Version33      Version = "3.3"
	Version40      Version = "4.0"
	VersionUnknown Version = ""
)

// Supported reports whether v is a schema this module can parse.
func (v Version) Supported() bool {
	return v == Version33 || v == Version40
}

// Document is the validated, immutable result of a parse call. It is
// implemented by *v33.CFDI33 and *v40.CFDI40.
type Document interface {
	// SchemaVersion returns the version variant of the document.
	SchemaVersion() Version
}
