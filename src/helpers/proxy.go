package helpers

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"sp500-dashboard/src/logger"

	"github.com/PuerkitoBio/goquery"
)

const DefaultProxyListURL = "https://www.sslproxies.org/"

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// -----------------------------------------------------------------------------

type ProxyManager struct {
	proxies    []string
	userAgents []string
	index      int
	mu         sync.Mutex
	rng        *rand.Rand
	logger     *logger.Logger
	httpClient *http.Client
	listURL    string
}

// -----------------------------------------------------------------------------

// NewProxyManager keeps the valid entries of proxies. A non-empty userAgent
// pins the User-Agent header instead of rotating through the built-in list.
func NewProxyManager(proxies []string, userAgent string) *ProxyManager {
	var validProxies []string
	for _, p := range proxies {
		if ValidateProxy(p) {
			validProxies = append(validProxies, FormatProxy(p))
		}
	}

	agents := defaultUserAgents
	if userAgent != "" {
		agents = []string{userAgent}
	}

	return &ProxyManager{
		proxies:    validProxies,
		userAgents: agents,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     logger.NewLogger("ProxyManager"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		listURL:    DefaultProxyListURL,
	}
}

// -----------------------------------------------------------------------------

// SetListURL changes the page RefreshProxies scrapes.
func (pm *ProxyManager) SetListURL(u string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.listURL = u
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) GetCurrentProxy() (string, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if len(pm.proxies) == 0 {
		return "", nil
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
	pm.logger.Info("Rotating proxy to: %s", pm.proxies[pm.index])
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) GetUserAgent() string {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.userAgents[pm.rng.Intn(len(pm.userAgents))]
}

// -----------------------------------------------------------------------------

// RefreshProxies scrapes the proxy list page (IP and port in the first two
// cells of each table row) and replaces the current pool.
func (pm *ProxyManager) RefreshProxies(ctx context.Context) (int, error) {
	pm.mu.Lock()
	listURL := pm.listURL
	pm.mu.Unlock()

	pm.logger.Info("Refreshing proxies from %s", listURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", pm.GetUserAgent())

	resp, err := pm.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("proxy list returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to parse proxy list: %w", err)
	}

	var newProxies []string
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		ip := strings.TrimSpace(cells.Eq(0).Text())
		port := strings.TrimSpace(cells.Eq(1).Text())
		if net.ParseIP(ip) == nil || port == "" {
			return
		}
		newProxies = append(newProxies, fmt.Sprintf("http://%s", net.JoinHostPort(ip, port)))
	})

	if len(newProxies) == 0 {
		return 0, fmt.Errorf("no proxies found on page")
	}

	pm.mu.Lock()
	pm.rng.Shuffle(len(newProxies), func(i, j int) {
		newProxies[i], newProxies[j] = newProxies[j], newProxies[i]
	})
	if len(newProxies) > 50 {
		newProxies = newProxies[:50]
	}
	pm.proxies = newProxies
	pm.index = 0
	pm.mu.Unlock()

	pm.logger.Info("Found and updated %d proxies", len(newProxies))
	return len(newProxies), nil
}

// -----------------------------------------------------------------------------

func (pm *ProxyManager) HasProxies() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return len(pm.proxies) > 0
}

// -----------------------------------------------------------------------------

// ValidateProxy checks if a proxy string is roughly valid. A missing scheme is
// accepted and fixed by FormatProxy.
func ValidateProxy(proxyStr string) bool {
	if strings.TrimSpace(proxyStr) == "" {
		return false
	}
	u, err := url.Parse(FormatProxy(proxyStr))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "socks5"
}

// -----------------------------------------------------------------------------

// FormatProxy ensures the proxy has a scheme.
func FormatProxy(proxyStr string) string {
	if !strings.Contains(proxyStr, "://") {
		return "http://" + proxyStr
	}
	return proxyStr
}
