// ABOUTME: Configuration loader for the vmco CLI
// ABOUTME: Loads vCenter connection settings from environment variables with defaults

package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// vCenter connection
	VSphereHost       string
	VSphereUsername   string
	VSpherePassword   string
	VSphereDatacenter string
	VSphereInsecure   bool

	// SSH+SOCKS5 jumpbox proxy for the vCenter SDK endpoint (optional)
	// Format: ssh+socks5://user@host:port?private-key=/path/to/key
	AllProxy string

	// Analysis
	Workers int // concurrent VM evaluations
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first, without overriding already-set variables.
func Load() (*Config, error) {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{
		VSphereHost:       os.Getenv("VSPHERE_HOST"),
		VSphereUsername:   os.Getenv("VSPHERE_USERNAME"),
		VSpherePassword:   os.Getenv("VSPHERE_PASSWORD"),
		VSphereDatacenter: os.Getenv("VSPHERE_DATACENTER"),
		VSphereInsecure:   getEnvBool("VSPHERE_INSECURE", false),
		AllProxy:          os.Getenv("VMCO_ALL_PROXY"),
		Workers:           getEnvInt("VMCO_WORKERS", runtime.NumCPU()),
	}

	if cfg.Workers < 1 || cfg.Workers > 256 {
		return nil, fmt.Errorf("VMCO_WORKERS must be between 1 and 256, got %d", cfg.Workers)
	}

	return cfg, nil
}

// VSphereConfigured returns true if enough is set to attempt a connection.
// The password may still be prompted for interactively.
func (c *Config) VSphereConfigured() bool {
	return c.VSphereHost != "" && c.VSphereUsername != ""
}

// Validate checks that a live analysis run has everything it needs.
func (c *Config) Validate() error {
	if c.VSphereHost == "" {
		return fmt.Errorf("VSPHERE_HOST is required")
	}
	if c.VSphereUsername == "" {
		return fmt.Errorf("VSPHERE_USERNAME is required")
	}
	if c.VSpherePassword == "" {
		return fmt.Errorf("VSPHERE_PASSWORD is required")
	}
	return nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
