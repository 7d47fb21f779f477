package ratelimit

import (
	"path"
	"strings"
)

// route is the limit resolved for one request.
type route struct {
	bucket    string
	rate      float64
	burst     int
	unlimited bool
}

// exempt reports requests that are never limited: health probes and CORS preflights.
func exempt(p, method string) bool {
	return method == "OPTIONS" || (p == "/health" && (method == "GET" || method == "HEAD"))
}

// cleanPath folds trailing slashes and dot segments, so "/rank/" and
// "/rank" draw from the same bucket.
func cleanPath(p string) string {
	return path.Clean("/" + p)
}

// MatchEndpoint returns the endpoint configuration for a cleaned path and an
// upper-case method, or nil. An exact path wins over a prefix entry (a Path
// ending in "/", which also matches the bare directory).
func MatchEndpoint(p string, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		if configs[i].Method == method && configs[i].Path == p {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.HasSuffix(c.Path, "/") {
			continue
		}
		if strings.HasPrefix(p, c.Path) || p == strings.TrimSuffix(c.Path, "/") {
			return c
		}
	}

	return nil
}

// resolve maps a request to its bucket and limits. Endpoints sharing a Group
// share one bucket per client; anything unmatched gets the default limit in
// a bucket of its own.
func (c *Config) resolve(rawPath, rawMethod string) route {
	p, method := cleanPath(rawPath), strings.ToUpper(rawMethod)
	if exempt(p, method) {
		return route{unlimited: true}
	}

	ec := MatchEndpoint(p, method, c.EndpointConfigs)
	if ec == nil {
		return route{bucket: method + " " + p, rate: c.DefaultRate, burst: max(1, c.DefaultBurst)}
	}
	if ec.Rate <= 0 {
		return route{unlimited: true}
	}

	bucket := ec.Group
	if bucket == "" {
		bucket = ec.Method + " " + ec.Path
	}
	return route{bucket: bucket, rate: ec.Rate, burst: max(1, ec.Burst)}
}
