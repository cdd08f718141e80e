package server

import (
	"github.com/fiscalmx/cfdi-processor/internal/model"
)

// ParseResponse is the response for the parse endpoint
type ParseResponse struct {
	Version  string         `json:"version"`
	Document model.Document `json:"document"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid   bool         `json:"valid"`
	Version string       `json:"version,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// CadenaResponse carries the canonical stamp string of a stamped document
type CadenaResponse struct {
	UUID            string `json:"uuid"`
	CadenaOriginal  string `json:"cadena_original"`
	VerificationURL string `json:"verification_url"`
}

// CatalogResponse is the response for catalog lookups
type CatalogResponse struct {
	Catalog     string `json:"catalog"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FieldError pins a violation to a document path
type FieldError struct {
	Path    string `json:"path,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}
