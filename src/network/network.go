package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/interfaces"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"

	"golang.org/x/time/rate"
)

type AsyncNetworkManager struct {
	Config       *models.MConfig
	ProxyManager interfaces.IProxyManager
	Logger       *logger.Logger

	mu      sync.RWMutex
	client  *http.Client
	limiter *rate.Limiter
	backoff time.Duration
}

// -----------------------------------------------------------------------------

func NewAsyncNetworkManager(cfg *models.MConfig, log *logger.Logger) *AsyncNetworkManager {
	var proxies []string
	if cfg.Network.Enabled {
		proxies = cfg.Network.Proxies
	}

	limit := rate.Inf
	if cfg.Network.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.Network.RequestsPerSecond)
	}
	burst := cfg.Network.Burst
	if burst < 1 {
		burst = 1
	}

	nm := &AsyncNetworkManager{
		Config:       cfg,
		ProxyManager: helpers.NewProxyManager(proxies, cfg.Network.UserAgent),
		Logger:       log,
		limiter:      rate.NewLimiter(limit, burst),
		backoff:      time.Second,
	}
	nm.client = nm.createClient()
	return nm
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) createClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if nm.ProxyManager.HasProxies() {
		proxyStr, err := nm.ProxyManager.GetCurrentProxy()
		if err == nil && proxyStr != "" {
			proxyURL, err := url.Parse(proxyStr)
			if err == nil {
				transport.Proxy = http.ProxyURL(proxyURL)
			}
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(nm.Config.Network.RequestTimeout) * time.Second,
	}
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) rotateProxy() {
	if !nm.ProxyManager.HasProxies() {
		return
	}

	nm.ProxyManager.RotateProxy()
	client := nm.createClient()

	nm.mu.Lock()
	nm.client = client
	nm.mu.Unlock()
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) currentClient() *http.Client {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	return nm.client
}

// -----------------------------------------------------------------------------

// Get performs a paced GET request. Failed attempts are retried up to
// network.retries times, rotating the proxy between attempts.
func (nm *AsyncNetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	reqURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	q := reqURL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	reqURL.RawQuery = q.Encode()
	finalURL := reqURL.String()

	attempts := nm.Config.Network.MaxRetries + 1
	attempt := 0
	var body []byte

	err = helpers.RetryWithBackoff(ctx, attempts, nm.backoff, func() error {
		attempt++
		if attempt > 1 {
			nm.rotateProxy()
		}

		if err := nm.limiter.Wait(ctx); err != nil {
			return err
		}

		b, status, err := nm.do(ctx, finalURL)
		if err != nil {
			nm.Logger.Info("Request failed (attempt %d/%d): %v", attempt, attempts, err)
			return err
		}

		switch {
		case status == http.StatusTooManyRequests || status == http.StatusForbidden:
			nm.Logger.Info("Request blocked (%d). Rotating proxy.", status)
			if attempt == attempts-1 && nm.Config.Network.Enabled {
				nm.refreshProxies(ctx)
			}
			return fmt.Errorf("blocked (status %d)", status)
		case status != http.StatusOK:
			nm.Logger.Info("Bad status %d for %s", status, reqURL.Path)
			return fmt.Errorf("bad status: %d", status)
		}

		body = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("GET %s failed after %d attempt(s): %w", reqURL.Host+reqURL.Path, attempt, err)
	}
	return body, nil
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) do(ctx context.Context, finalURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", nm.ProxyManager.GetUserAgent())
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")

	resp, err := nm.currentClient().Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// -----------------------------------------------------------------------------

func (nm *AsyncNetworkManager) refreshProxies(ctx context.Context) {
	nm.Logger.Warning("Repeated blocks. Attempting to scrape new proxies...")
	count, err := nm.ProxyManager.RefreshProxies(ctx)
	if err != nil || count == 0 {
		nm.Logger.Error("Failed to refresh proxies: %v", err)
		return
	}
	nm.Logger.Info("Refreshed %d proxies. Retrying...", count)
	nm.rotateProxy()
}
