package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fiscalmx/cfdi-processor/internal/model/v40"
	xmlparser "github.com/fiscalmx/cfdi-processor/internal/parser/xml"
)

var cadenaCmd = &cobra.Command{
	Use:   "cadena [files...]",
	Short: "Print the canonical stamp string of stamped CFDIs",
	Long: `Print the cadena original of the TimbreFiscalDigital complement: the
pipe-delimited canonical string the SAT seal is computed over, plus the
SAT verification URL.

Only stamped 4.0 documents carry the complement; anything else is an
error.

Examples:
  cfdi-processor cadena factura.xml
  cfdi-processor cadena *.xml -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCadena,
}

func init() {
	rootCmd.AddCommand(cadenaCmd)
}

// CadenaResult holds the stamp data extracted from one file
type CadenaResult struct {
	File            string `json:"file"`
	UUID            string `json:"uuid,omitempty"`
	CadenaOriginal  string `json:"cadena_original,omitempty"`
	VerificationURL string `json:"verification_url,omitempty"`
	Error           string `json:"error,omitempty"`
}

func runCadena(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	parser := newParser()
	results := make([]*CadenaResult, 0, len(files))
	failed := false

	for _, file := range files {
		result := cadenaFromFile(parser, file)
		results = append(results, result)
		if result.Error != "" {
			failed = true
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
			if r.Error != "" {
				fmt.Printf("✗ %s: %s\n", r.File, r.Error)
				continue
			}
			fmt.Printf("%s\n  %s\n  %s\n", r.File, r.CadenaOriginal, r.VerificationURL)
		}
	}

	if failed {
		return fmt.Errorf("no stamp data for some files")
	}
	return nil
}

func cadenaFromFile(parser *xmlparser.Parser, filePath string) *CadenaResult {
	result := &CadenaResult{File: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	doc, err := parser.Parse(data)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	cfdi, ok := doc.(*v40.CFDI40)
	if !ok || cfdi.Complemento == nil || cfdi.Complemento.TimbreFiscalDigital == nil {
		result.Error = "document carries no digital stamp"
		return result
	}

	stamp := cfdi.Complemento.TimbreFiscalDigital
	result.UUID = stamp.UUID.String()
	result.CadenaOriginal = stamp.CadenaOriginal()
	result.VerificationURL = cfdi.VerificationURL()
	return result
}
