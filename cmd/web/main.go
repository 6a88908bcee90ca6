package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/fin-atlas/pkg/server"
	"github.com/de-tools/fin-atlas/pkg/services/config"
	"github.com/de-tools/fin-atlas/pkg/services/sources"
	"github.com/de-tools/fin-atlas/pkg/services/statements"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgPath string

func main() {
	v := config.NewViper()

	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Fin Atlas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, v)
		},
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file (yaml, json or toml)")
	rootCmd.Flags().String("symbol", "", "Ticker symbol to load (default AAPL)")
	rootCmd.Flags().String("source", "", "Statement source: fmp or duckdb")
	rootCmd.Flags().String("host", "", "Address to listen on")
	rootCmd.Flags().String("port", "", "Port to listen on")
	_ = v.BindPFlag("api.symbol", rootCmd.Flags().Lookup("symbol"))
	_ = v.BindPFlag("source", rootCmd.Flags().Lookup("source"))
	_ = v.BindPFlag("server.host", rootCmd.Flags().Lookup("host"))
	_ = v.BindPFlag("server.port", rootCmd.Flags().Lookup("port"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, v *viper.Viper) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(v, cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	source, closer, err := sources.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create statement source: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close statement source")
		}
	}()

	// A failed load is reported on the page; the server still starts.
	loader := statements.NewLoader(source, sources.Query(cfg))
	_ = loader.Load(ctx)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	logger.Info().
		Str("source", cfg.Source).
		Str("symbol", cfg.API.Symbol).
		Msgf("starting server on %s", addr)

	api := server.NewWebAPI(server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Dataset:  loader,
			PageSize: cfg.View.PageSize,
			Logger:   logger,
		},
	})
	return api.Start()
}
