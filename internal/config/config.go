// Package config provides configuration for the server and client binaries
// from command-line flags, a .env file, environment variables and an
// optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address is the server's listening address (ip:port).
	Address string

	// DatabaseDSN holds the Postgres connection string.
	DatabaseDSN string

	// BaseURL is the record-store endpoint the client talks to.
	BaseURL string

	// Token is the bearer token identifying the owning user.
	Token string

	// DataDir is where the client keeps its persisted local blobs.
	DataDir string

	// RecognizerURL is the upstream text-recognition endpoint used by the
	// field extractor's scan flow.
	RecognizerURL string

	// Config is the path to the JSON config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.BaseURL, "url", "http://localhost:8080", "record store base URL")
	flag.StringVar(&options.Token, "token", "", "bearer token (profile login)")
	flag.StringVar(&options.DataDir, "data", ".", "directory for local store files")
	flag.StringVar(&options.RecognizerURL, "ocr", "", "text recognition endpoint")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses flags, loads .env if present, applies the JSON config file
// and finally environment-variable overrides. It returns a pointer to the
// Options struct containing the resolved values.
func Parse() *Options {
	flag.Parse()

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Address = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		options.BaseURL = baseURL
	}
	if token := os.Getenv("TOKEN"); token != "" {
		options.Token = token
	}
	if ocr := os.Getenv("RECOGNIZER_URL"); ocr != "" {
		options.RecognizerURL = ocr
	}

	return options
}
