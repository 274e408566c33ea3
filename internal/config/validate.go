package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrInsecureURL is returned for plain-HTTP URLs that do not point at the
// local machine.
var ErrInsecureURL = errors.New("only HTTPS URLs are allowed")

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	var errs []error
	for _, u := range []struct{ name, value string }{
		{"api.baseUrl", c.API.BaseURL},
		{"api.searchUrl", c.API.SearchURL},
		{"app.siteUrl", c.App.SiteURL},
		{"app.remoteUrl", c.App.RemoteURL},
	} {
		if _, err := SanitizeURL(u.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", u.name, err))
		}
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive"))
	}
	if _, _, err := net.SplitHostPort(c.Host.Listen); err != nil {
		errs = append(errs, fmt.Errorf("host.listen: %w", err))
	}
	if c.Host.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("host.rateLimit must not be negative"))
	}
	return errors.Join(errs...)
}

// SanitizeURL parses raw and accepts only HTTPS, except for loopback hosts.
func SanitizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q", raw)
	}
	switch u.Scheme {
	case "https":
		return u.String(), nil
	case "http":
		if isLoopback(u.Hostname()) {
			return u.String(), nil
		}
		return "", fmt.Errorf("%w: %s", ErrInsecureURL, raw)
	default:
		return "", fmt.Errorf("unsupported scheme %q in %s", u.Scheme, raw)
	}
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
