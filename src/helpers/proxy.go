package helpers

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"stock-insight/src/logger"
)

const defaultUserAgent = "stock-insight/1.0"

// -----------------------------------------------------------------------------

// ProxyManager holds the configured outbound proxies and rotates through them
// when a request fails.
type ProxyManager struct {
	proxies   []*url.URL
	userAgent string
	index     int
	mu        sync.Mutex
	logger    *logger.Logger
}

// -----------------------------------------------------------------------------

func NewProxyManager(proxies []string, userAgent string, log *logger.Logger) *ProxyManager {
	var valid []*url.URL
	for _, p := range proxies {
		if !ValidateProxy(p) {
			log.Warning("Ignoring invalid proxy %q", p)
			continue
		}
		u, err := url.Parse(FormatProxy(p))
		if err != nil {
			continue
		}
		valid = append(valid, u)
	}

	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &ProxyManager{
		proxies:   valid,
		userAgent: userAgent,
		logger:    log,
	}
}

// -----------------------------------------------------------------------------

// Proxy is an http.Transport Proxy func returning the current proxy, or nil for direct.
func (pm *ProxyManager) Proxy(_ *http.Request) (*url.URL, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if len(pm.proxies) == 0 {
		return nil, nil
	}
	return pm.proxies[pm.index], nil
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) RotateProxy() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if len(pm.proxies) <= 1 {
		return
	}

	pm.index = (pm.index + 1) % len(pm.proxies)
	pm.logger.Info("Rotating proxy to: %s", pm.proxies[pm.index].Host)
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) GetUserAgent() string {
	return pm.userAgent
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) HasProxies() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return len(pm.proxies) > 0
}

// -----------------------------------------------------------------------------

// ValidateProxy checks if a proxy string is roughly valid.
func ValidateProxy(proxyStr string) bool {
	if strings.TrimSpace(proxyStr) == "" {
		return false
	}
	u, err := url.Parse(FormatProxy(proxyStr))
	return err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "socks5")
}

// -----------------------------------------------------------------------------

// FormatProxy ensures the proxy has a scheme.
func FormatProxy(proxyStr string) string {
	if !strings.Contains(proxyStr, "://") {
		return "http://" + proxyStr
	}
	return proxyStr
}
