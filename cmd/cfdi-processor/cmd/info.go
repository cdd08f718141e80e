package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fiscalmx/cfdi-processor/internal/model/v33"
	"github.com/fiscalmx/cfdi-processor/internal/model/v40"
	xmlparser "github.com/fiscalmx/cfdi-processor/internal/parser/xml"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about CFDI files",
	Long: `Display a summary of CFDI files: schema version, parties, total, and
the fiscal folio (UUID) when the document carries a digital stamp.

Examples:
  cfdi-processor info factura.xml
  cfdi-processor info ./facturas/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// FileInfo is the per-file summary the info command prints
type FileInfo struct {
	File        string `json:"file"`
	Version     string `json:"version,omitempty"`
	Serie       string `json:"serie,omitempty"`
	Folio       string `json:"folio,omitempty"`
	Fecha       string `json:"fecha,omitempty"`
	EmisorRFC   string `json:"emisor_rfc,omitempty"`
	ReceptorRFC string `json:"receptor_rfc,omitempty"`
	Moneda      string `json:"moneda,omitempty"`
	Total       string `json:"total,omitempty"`
	Conceptos   int    `json:"conceptos,omitempty"`
	UUID        string `json:"uuid,omitempty"`
	Error       string `json:"error,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	parser := newParser()
	infos := make([]*FileInfo, 0, len(files))
	for _, file := range files {
		infos = append(infos, fileInfo(parser, file))
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(infos)
	}

	for _, info := range infos {
		printFileInfo(info)
		fmt.Println()
	}
	return nil
}

func fileInfo(parser *xmlparser.Parser, filePath string) *FileInfo {
	info := &FileInfo{File: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		info.Error = err.Error()
		return info
	}

	doc, err := parser.Parse(data)
	if err != nil {
		// Version detection may still succeed on invalid documents.
		if ver, verr := xmlparser.DetectVersion(data); verr == nil {
			info.Version = string(ver)
		}
		info.Error = err.Error()
		return info
	}

	info.Version = string(doc.SchemaVersion())
	switch c := doc.(type) {
	case *v33.CFDI33:
		info.Serie = c.Serie
		info.Folio = c.Folio
		info.Fecha = c.Fecha.Format("2006-01-02T15:04:05")
		info.EmisorRFC = c.Emisor.Rfc
		info.ReceptorRFC = c.Receptor.Rfc
		info.Moneda = c.Moneda
		info.Total = c.Total.String()
		info.Conceptos = len(c.Conceptos)
	case *v40.CFDI40:
		info.Serie = c.Serie
		info.Folio = c.Folio
		info.Fecha = c.Fecha.Format("2006-01-02T15:04:05")
		info.EmisorRFC = c.Emisor.Rfc
		info.ReceptorRFC = c.Receptor.Rfc
		info.Moneda = c.Moneda
		info.Total = c.Total.String()
		info.Conceptos = len(c.Conceptos)
		if c.Complemento != nil && c.Complemento.TimbreFiscalDigital != nil {
			info.UUID = c.Complemento.TimbreFiscalDigital.UUID.String()
		}
	}
	return info
}

func printFileInfo(info *FileInfo) {
	fmt.Printf("File: %s\n", info.File)
	if info.Error != "" {
		if info.Version != "" {
			fmt.Printf("  Version: %s\n", info.Version)
		}
		fmt.Printf("  Error: %s\n", info.Error)
		return
	}

	fmt.Printf("  Version:   %s\n", info.Version)
	if info.Serie != "" || info.Folio != "" {
		fmt.Printf("  Serie/Folio: %s %s\n", info.Serie, info.Folio)
	}
	fmt.Printf("  Fecha:     %s\n", info.Fecha)
	fmt.Printf("  Emisor:    %s\n", info.EmisorRFC)
	fmt.Printf("  Receptor:  %s\n", info.ReceptorRFC)
	fmt.Printf("  Total:     %s %s\n", info.Total, info.Moneda)
	fmt.Printf("  Conceptos: %d\n", info.Conceptos)
	if info.UUID != "" {
		fmt.Printf("  UUID:      %s\n", info.UUID)
	}
}
