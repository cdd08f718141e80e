package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fiscalmx/cfdi-processor/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for parsing and validating CFDIs.

The API provides endpoints for:
  - POST /api/v1/parse               - Parse a CFDI into its document model
  - POST /api/v1/validate            - Validate a CFDI
  - POST /api/v1/cadena              - Canonical stamp string and verification URL
  - GET  /api/v1/catalogs/:cat/:code - Catalog lookup
  - GET  /health                     - Health check

Examples:
  # Start server on default port
  cfdi-processor serve

  # Catalog lookups against Redis
  cfdi-processor serve --redis-addr localhost:6379

  # Start in debug mode
  cfdi-processor serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 30*time.Second, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:      serverAddr,
		CatalogDir:   catalogDir,
		RedisAddr:    redisAddr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}

	srv := server.NewServer(config)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", serverAddr)
	switch {
	case redisAddr != "":
		fmt.Printf("Catalog lookups via Redis at %s\n", redisAddr)
	case catalogDir != "":
		fmt.Printf("Catalog files from %s\n", catalogDir)
	default:
		fmt.Println("Using compiled catalogs")
	}

	return srv.Run()
}
