// Package config loads the inventory service configuration.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix      = "INVENTORY_SVC_"
	DefaultEnvFile = ".env"
	ConfigFile     = "config.yaml"
)

type Config struct {
	HTTPServer HTTPConfig       `koanf:"server"`
	GRPCServer GrpcServerConfig `koanf:"grpc"`
	Log        LogConfig        `koanf:"log"`
	PProf      PProfConfig      `koanf:"pprof"`
	Shutdown   ShutdownConfig   `koanf:"shutdown"`
	CORS       CORSConfig       `koanf:"cors"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
	Inventory  InventoryConfig  `koanf:"inventory"`
	Client     ClientConfig     `koanf:"client"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.GRPCServer.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.CORS.String())
	b.WriteString(c.RateLimit.String())
	b.WriteString(c.Inventory.String())
	b.WriteString(c.Client.String())
	b.WriteString(c.Telemetry.String())
	return b.String()
}

func (c *Config) Validate() error {
	validators := []interface{ Validate() error }{
		&c.HTTPServer,
		&c.GRPCServer,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
		&c.CORS,
		&c.RateLimit,
		&c.Client,
		&c.Telemetry,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// defaults are loaded first so that a missing config.yaml still yields a runnable service.
var defaults = map[string]any{
	"server.port":                               8080,
	"server.maxheaderbytes":                     1 << 20,
	"server.timeout.read":                       "5s",
	"server.timeout.write":                      "10s",
	"server.timeout.idle":                       "60s",
	"server.timeout.readheader":                 "2s",
	"grpc.port":                                 9090,
	"grpc.reflection":                           false,
	"log.level":                                 "info",
	"pprof.enabled":                             false,
	"pprof.addr":                                "localhost:6060",
	"shutdown.timeout":                          "10s",
	"cors.allowedorigins":                       []string{"*"},
	"ratelimit.enabled":                         false,
	"ratelimit.requestsperminute":               600,
	"ratelimit.burst":                           50,
	"inventory.seed":                            true,
	"inventory.enforcestockfloor":               false,
	"client.timeout":                            "3s",
	"client.retry.maxattempts":                  3,
	"client.retry.initialbackoff":               "100ms",
	"client.circuitbreaker.consecutivefailures": 5,
	"client.circuitbreaker.errorratepercent":    60,
	"client.circuitbreaker.opentimeout":         "5s",
	"telemetry.traces.enabled":                  false,
	"telemetry.traces.otlphttp.endpoint":        "localhost:4318",
	"telemetry.traces.otlphttp.insecure":        true,
	"telemetry.traces.otlphttp.timeout":         "5s",
	"telemetry.metrics.enabled":                 true,
}

// Load reads the configuration from config.yaml, .env and the environment.
func Load() (*Config, error) {
	return LoadFrom(ConfigFile, DefaultEnvFile)
}

// LoadFrom reads the configuration in increasing priority: built-in defaults,
// the yaml file, the env file and finally variables prefixed with INVENTORY_SVC_.
func LoadFrom(configFile, envFile string) (*Config, error) {
	// Create a new Koanf instance
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// 2. Load configuration from yaml file
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}

	// 3. Load environment variables from .env file
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			envMap[keyTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 4. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(EnvPrefix, ".", keyTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	var cfg Config
	// 5. Unmarshal the configuration into the Config struct
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// 6. Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// keyTransformer maps INVENTORY_SVC_SERVER_PORT to server.port.
func keyTransformer(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(key, "_", ".")
}
