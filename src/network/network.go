package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"stock-insight/src/helpers"
	"stock-insight/src/logger"
	"stock-insight/src/models"
)

const (
	defaultTimeout = 10 * time.Second
	retryBaseDelay = 500 * time.Millisecond
	maxBodyBytes   = 16 << 20
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=network -destination=mock_http_client_test.go -source=network.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// -----------------------------------------------------------------------------

type NetworkManager struct {
	Config       *models.MConfig
	ProxyManager *helpers.ProxyManager
	Client       HTTPClient
	Logger       *logger.Logger
}

// Option configures a NetworkManager.
type Option func(*NetworkManager)

// WithHTTPClient replaces the default client, mostly for tests.
func WithHTTPClient(c HTTPClient) Option {
	return func(nm *NetworkManager) {
		nm.Client = c
	}
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg *models.MConfig, log *logger.Logger, opts ...Option) *NetworkManager {
	var proxies []string
	if cfg.Network.Enabled {
		proxies = cfg.Network.Proxies
	}

	nm := &NetworkManager{
		Config:       cfg,
		ProxyManager: helpers.NewProxyManager(proxies, cfg.Network.UserAgent, log),
		Logger:       log,
	}
	nm.Client = nm.createClient()

	for _, opt := range opts {
		opt(nm)
	}
	return nm
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) timeout() time.Duration {
	if nm.Config.Network.RequestTimeout <= 0 {
		return defaultTimeout
	}
	return time.Duration(nm.Config.Network.RequestTimeout) * time.Second
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) createClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 nm.ProxyManager.Proxy,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   nm.timeout(),
	}
}

// -----------------------------------------------------------------------------

// Get performs a GET request. Only a 200 response yields a body; everything else
// is a TransportError. Retries (network.retries, default 0) apply to transport
// failures and 5xx/429 statuses.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, helpers.NewTransportError("invalid request url", 0, err)
	}

	q := reqURL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	reqURL.RawQuery = q.Encode()
	finalURL := reqURL.String()

	ctx, cancel := context.WithTimeout(ctx, nm.timeout())
	defer cancel()

	return helpers.RetryWithBackoff(ctx, nm.Config.Network.MaxRetries, retryBaseDelay, isRetryable,
		func(attempt int) ([]byte, error) {
			if attempt > 0 {
				nm.ProxyManager.RotateProxy()
				nm.Logger.Warning("Retrying %s (attempt %d/%d)", reqURL.Host, attempt+1, nm.Config.Network.MaxRetries+1)
			}
			return nm.do(ctx, finalURL)
		})
}

// -----------------------------------------------------------------------------

func (nm *NetworkManager) do(ctx context.Context, finalURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return nil, helpers.NewTransportError("build request", 0, stripURL(err))
	}
	req.Header.Set("User-Agent", nm.ProxyManager.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := nm.Client.Do(req)
	if err != nil {
		return nil, helpers.NewTransportError(fmt.Sprintf("request to %s failed", req.URL.Host), 0, stripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		nm.Logger.Info("Bad status %d from %s", resp.StatusCode, req.URL.Host)
		return nil, helpers.NewTransportError(fmt.Sprintf("bad status: %d", resp.StatusCode), resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, helpers.NewTransportError("read body", resp.StatusCode, err)
	}
	return body, nil
}

// -----------------------------------------------------------------------------

// stripURL drops the request URL from client errors. The query carries the API key.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// -----------------------------------------------------------------------------

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var te *helpers.TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.StatusCode == 0 || te.StatusCode == http.StatusTooManyRequests || te.StatusCode >= 500
}
