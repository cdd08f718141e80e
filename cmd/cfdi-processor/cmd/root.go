package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/fiscalmx/cfdi-processor/internal/catalog"
	xmlparser "github.com/fiscalmx/cfdi-processor/internal/parser/xml"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	catalogDir   string
	redisAddr    string
)

var rootCmd = &cobra.Command{
	Use:   "cfdi-processor",
	Short: "Parse and validate Mexican CFDI invoices (XML)",
	Long: `CFDI Processor is a CLI tool for working with Mexican electronic
invoices (CFDI) in versions 3.3 and 4.0.

Supports:
  - Structural parsing and field validation against the SAT schemas
  - Catalog membership checks (compiled, JSON files, or Redis)
  - Canonical stamp strings (cadena original) and verification URLs

Examples:
  # Validate a single invoice
  cfdi-processor validate factura.xml

  # Validate a directory of invoices
  cfdi-processor validate ./facturas/

  # Show invoice metadata
  cfdi-processor info factura.xml

  # Print the canonical stamp string
  cfdi-processor cadena factura.xml`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog-dir", "", "Directory of JSON catalog files (env: CFDI_CATALOG_DIR)")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Redis address for catalog lookups (env: CFDI_REDIS_ADDR)")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if catalogDir == "" {
		catalogDir = os.Getenv("CFDI_CATALOG_DIR")
	}
	if redisAddr == "" {
		redisAddr = os.Getenv("CFDI_REDIS_ADDR")
	}
}

// newParser builds a parser against the configured catalog backing.
func newParser() *xmlparser.Parser {
	if catalogDir == "" && redisAddr == "" {
		return xmlparser.NewParser()
	}
	return xmlparser.NewParser(xmlparser.WithCatalogs(catalogStore()))
}

func catalogStore() catalog.Store {
	switch {
	case redisAddr != "":
		printVerbose("using Redis catalogs at %s\n", redisAddr)
		return catalog.NewRedisStore(newRedisClient(redisAddr))
	case catalogDir != "":
		printVerbose("using catalog files in %s\n", catalogDir)
		return catalog.NewFileStore(catalogDir)
	default:
		return catalog.NewStatic()
	}
}

func newRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// collectFiles expands arguments into XML file paths: globs, directories
// (walked recursively), or plain files.
func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}

			if info.IsDir() {
				err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if !info.IsDir() && isXMLFile(path) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				files = append(files, arg)
			}
			continue
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if !info.IsDir() && isXMLFile(match) {
				files = append(files, match)
			}
		}
	}

	return files, nil
}

func isXMLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}
