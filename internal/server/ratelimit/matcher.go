package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for the health check so probes are never throttled.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration governing method and path, or nil when the default
// limit applies. Exact paths win over prefixes; a configured path ending in "/" matches every
// path beneath it, such as "/api/analyses/" for "/api/analyses/{id}".
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && (path == HealthPath || path == "/health") {
		hc := unlimited
		return &hc
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}
