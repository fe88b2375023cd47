package config

import (
	"fmt"
	"strings"
)

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowedorigins"`
}

// String returns a string representation of the CORS configuration.
func (c *CORSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- CORS ---\n")
	b.WriteString(fmt.Sprintf("  allowedorigins: %s\n", strings.Join(c.Origins(), ",")))
	return b.String()
}

func (c *CORSConfig) Validate() error {
	for _, origin := range c.Origins() {
		if origin == "" {
			return fmt.Errorf("cors.allowedorigins must not contain empty entries")
		}
	}
	return nil
}

// Origins flattens comma separated entries, as an environment variable yields a single string.
func (c *CORSConfig) Origins() []string {
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, entry := range c.AllowedOrigins {
		for _, origin := range strings.Split(entry, ",") {
			origins = append(origins, strings.TrimSpace(origin))
		}
	}
	return origins
}

type RateLimitConfig struct {
	Enabled           bool `koanf:"enabled"`
	RequestsPerMinute int  `koanf:"requestsperminute"`
	Burst             int  `koanf:"burst"`
}

// String returns a string representation of the rate limit configuration.
func (c *RateLimitConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Rate Limit ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  requestsperminute: %d\n", c.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("  burst: %d\n", c.Burst))
	return b.String()
}

func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("ratelimit.requestsperminute must be greater than 0")
	}
	if c.Burst <= 0 {
		return fmt.Errorf("ratelimit.burst must be greater than 0")
	}
	return nil
}

type InventoryConfig struct {
	Seed              bool `koanf:"seed"`
	EnforceStockFloor bool `koanf:"enforcestockfloor"`
}

// String returns a string representation of the inventory configuration.
func (c *InventoryConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Inventory ---\n")
	b.WriteString(fmt.Sprintf("  seed: %t\n", c.Seed))
	b.WriteString(fmt.Sprintf("  enforcestockfloor: %t\n", c.EnforceStockFloor))
	return b.String()
}
