package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string  // Endpoint path pattern (supports prefix matching)
	Method string  // HTTP method (GET, POST, etc.)
	Rate   float64 // Sustained requests per second; <= 0 means unlimited
	Burst  int     // Burst capacity (defaults to 1 if 0)
	Group  string  // Bucket shared with other endpoints; empty means its own
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultRate     float64
	DefaultBurst    int
	CleanupInterval time.Duration
	// IdleTTL is how long an unused client limiter is kept.
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a configuration with the given default per-client rate.
// A non-positive rps disables limiting.
func NewConfig(rps float64, burst int, whitelist, blacklist string) *Config {
	if rps <= 0 {
		return &Config{Enabled: false}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Config{
		Enabled:         true,
		DefaultRate:     rps,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       parseIPList(whitelist),
		Blacklist:       parseIPList(blacklist),
		EndpointConfigs: DefaultEndpointConfigs(rps, burst),
	}
}

// AIGroup is the bucket shared by endpoints that call the text-generation service.
const AIGroup = "ai"

// DefaultEndpointConfigs returns the endpoint-specific configurations.
// Ranking and comparison may call the text-generation service several
// times per request, so together they get a fraction of the default rate.
func DefaultEndpointConfigs(rps float64, burst int) []EndpointConfig {
	aiBurst := max(1, burst/5)
	return []EndpointConfig{
		{Path: "/rank", Method: "POST", Rate: rps / 5, Burst: aiBurst, Group: AIGroup},
		{Path: "/compare", Method: "POST", Rate: rps / 5, Burst: aiBurst, Group: AIGroup},
		{Path: "/normalize", Method: "POST", Rate: rps, Burst: burst},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	ips := strings.Split(list, ",")
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}
