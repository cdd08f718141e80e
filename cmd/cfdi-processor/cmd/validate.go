package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/fiscalmx/cfdi-processor/internal/model"
	xmlparser "github.com/fiscalmx/cfdi-processor/internal/parser/xml"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate CFDI files",
	Long: `Validate one or more CFDI XML files against the structural rules of
their schema version.

Checks performed:
  - Well-formed XML with a recognizable CFDI version (3.3 or 4.0)
  - Required attributes and elements present
  - Field shapes: RFC patterns, dates, amounts (six decimals max), no pipes
  - Catalog membership for enum-typed codes
  - Conditional rules such as the Exento tax factor

Examples:
  cfdi-processor validate factura.xml
  cfdi-processor validate ./facturas/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File    string   `json:"file"`
	Version string   `json:"version,omitempty"`
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	parser := newParser()
	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := validateFile(parser, file)
		results = append(results, result)
		if !result.Valid {
			allValid = false
		}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID (%s)\n", r.File, r.Version)
				continue
			}
			fmt.Printf("✗ %s: INVALID\n", r.File)
			for _, e := range r.Errors {
				fmt.Printf("  - %s\n", e)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func validateFile(parser *xmlparser.Parser, filePath string) *ValidationResult {
	result := &ValidationResult{File: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read file: %v", err))
		return result
	}

	doc, err := parser.Parse(data)
	if err != nil {
		var unknown *model.UnknownVersionError
		if errors.As(err, &unknown) {
			result.Errors = append(result.Errors, unknown.Error())
			return result
		}
		for _, e := range multierr.Errors(err) {
			result.Errors = append(result.Errors, e.Error())
		}
		return result
	}

	result.Valid = true
	result.Version = string(doc.SchemaVersion())
	return result
}
