package middleware

import (
	"maps"
	"net/http"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/pipeline"
)

// SecurityHeadersConfig lists the hardening headers set on every response.
// Empty fields are not sent.
type SecurityHeadersConfig struct {
	ContentSecurityPolicy        string
	CrossOriginOpenerPolicy      string
	CrossOriginResourcePolicy    string
	OriginAgentCluster           string
	ReferrerPolicy               string
	StrictTransportSecurity      string
	ContentTypeOptions           string
	DNSPrefetchControl           string
	DownloadOptions              string
	FrameOptions                 string
	PermittedCrossDomainPolicies string
	XSSProtection                string

	// CustomHeaders allows adding additional headers.
	CustomHeaders map[string]string

	// IsDevelopment drops HSTS so local plain-HTTP setups keep working.
	IsDevelopment bool
}

var (
	// DefaultSecurity is the hardening set used in production.
	DefaultSecurity = SecurityHeadersConfig{
		ContentSecurityPolicy: "default-src 'self';base-uri 'self';font-src 'self' https: data:;" +
			"form-action 'self';frame-ancestors 'self';img-src 'self' data:;object-src 'none';" +
			"script-src 'self';script-src-attr 'none';style-src 'self' https: 'unsafe-inline';" +
			"upgrade-insecure-requests",
		CrossOriginOpenerPolicy:      "same-origin",
		CrossOriginResourcePolicy:    "same-origin",
		OriginAgentCluster:           "?1",
		ReferrerPolicy:               "no-referrer",
		StrictTransportSecurity:      "max-age=31536000; includeSubDomains",
		ContentTypeOptions:           "nosniff",
		DNSPrefetchControl:           "off",
		DownloadOptions:              "noopen",
		FrameOptions:                 "SAMEORIGIN",
		PermittedCrossDomainPolicies: "none",
		XSSProtection:                "0",
	}

	// DevelopmentSecurity is DefaultSecurity without HSTS.
	DevelopmentSecurity = func() SecurityHeadersConfig {
		cfg := DefaultSecurity
		cfg.IsDevelopment = true
		return cfg
	}()
)

// SecurityHeaders sets DefaultSecurity on every response.
func SecurityHeaders[C handler.Context]() pipeline.Stage[C] {
	return SecurityHeadersWithConfig[C](DefaultSecurity)
}

// SecurityHeadersWithConfig sets the configured headers. They are applied
// on the way out, so failure and not-found pages carry them too.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) pipeline.Stage[C] {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	headers := make(map[string]string)
	set := func(name, value string) {
		if value != "" {
			headers[name] = value
		}
	}
	set("Content-Security-Policy", cfg.ContentSecurityPolicy)
	set("Cross-Origin-Opener-Policy", cfg.CrossOriginOpenerPolicy)
	set("Cross-Origin-Resource-Policy", cfg.CrossOriginResourcePolicy)
	set("Origin-Agent-Cluster", cfg.OriginAgentCluster)
	set("Referrer-Policy", cfg.ReferrerPolicy)
	set("Strict-Transport-Security", cfg.StrictTransportSecurity)
	set("X-Content-Type-Options", cfg.ContentTypeOptions)
	set("X-DNS-Prefetch-Control", cfg.DNSPrefetchControl)
	set("X-Download-Options", cfg.DownloadOptions)
	set("X-Frame-Options", cfg.FrameOptions)
	set("X-Permitted-Cross-Domain-Policies", cfg.PermittedCrossDomainPolicies)
	set("X-XSS-Protection", cfg.XSSProtection)
	maps.Copy(headers, cfg.CustomHeaders)

	return pipeline.Stage[C]{
		Name: StageSecurityHeaders,
		Leave: func(_ C, resp handler.Response) (handler.Response, error) {
			return func(w http.ResponseWriter, r *http.Request) error {
				for key, value := range headers {
					w.Header().Set(key, value)
				}
				return resp(w, r)
			}, nil
		},
	}
}
