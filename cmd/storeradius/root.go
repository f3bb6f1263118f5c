package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/high-creek-software/storeradius"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "storeradius",
	Short: "Lists stores and finds the stores around a postcode",
	Long:  `storeradius serves a store catalog over HTTP and answers "which stores are within N km of this postcode" queries, geocoding postcodes through postcodes.io or a local PostGIS/SpatiaLite gazetteer.`,
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().String("geocoder", storeradius.ProviderPostcodesIO, "geocoder provider: postcodesio, postgis or spatialite")
	rootCmd.PersistentFlags().String("database-url", "", "PostGIS connection string for the postgis geocoder")
	rootCmd.PersistentFlags().String("database-path", "postcodes.sqlite", "SpatiaLite file for the spatialite geocoder")

	bindFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	bindFlag("geocoder.provider", rootCmd.PersistentFlags().Lookup("geocoder"))
	bindFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))
	bindFlag("database.path", rootCmd.PersistentFlags().Lookup("database-path"))

	rootCmd.AddCommand(serveCmd, importCmd)
}

func bindFlag(key string, flag *pflag.Flag) {
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// loadConfig reads the configuration and installs the configured logger as
// the slog default.
func loadConfig() (*storeradius.Config, *slog.Logger, error) {
	cfg, err := storeradius.LoadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)
	if f := viper.ConfigFileUsed(); f != "" {
		logger.Info("using config file", "path", f)
	}
	return cfg, logger, nil
}

func newLogger(cfg storeradius.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
