package network

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"market-analyzer/src/helpers"
	"market-analyzer/src/interfaces"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const defaultRetryDelay = time.Second

// NetworkManager sends provider requests. Each configured proxy gets its own
// resty client built up front; clients are never reconfigured afterwards, so
// concurrent requests only share the ProxyManager's rotation index.
type NetworkManager struct {
	Config       models.MNetworkConfig
	ProxyManager interfaces.IProxyManager
	Client       *resty.Client
	Limiter      *rate.Limiter
	RetryDelay   time.Duration
	Logger       *logger.Logger

	proxyClients map[string]*resty.Client
}

// -----------------------------------------------------------------------------

func NewNetworkManager(cfg models.MNetworkConfig, log *logger.Logger) *NetworkManager {
	pm := helpers.NewProxyManager(cfg.Proxies, cfg.UserAgent, log)
	nm := &NetworkManager{
		Config:       cfg,
		ProxyManager: pm,
		RetryDelay:   defaultRetryDelay,
		Logger:       log,
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = max(1, int(cfg.RateLimit))
	}
	nm.Limiter = rate.NewLimiter(limit, burst)

	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	nm.Client = resty.New().SetTimeout(timeout)
	nm.proxyClients = make(map[string]*resty.Client, len(pm.Proxies()))
	for _, proxyStr := range pm.Proxies() {
		nm.proxyClients[proxyStr] = resty.New().SetTimeout(timeout).SetProxy(proxyStr)
	}
	return nm
}

// -----------------------------------------------------------------------------

// pickClient returns the client for the current proxy, rotating first on
// retries. Without proxies it is the direct client.
func (nm *NetworkManager) pickClient(retry bool) (*resty.Client, string) {
	if !nm.ProxyManager.HasProxies() {
		return nm.Client, ""
	}
	if retry {
		nm.ProxyManager.RotateProxy()
	}
	proxyStr, err := nm.ProxyManager.GetCurrentProxy()
	if err != nil || proxyStr == "" {
		return nm.Client, ""
	}
	if c, ok := nm.proxyClients[proxyStr]; ok {
		return c, proxyStr
	}
	return nm.Client, ""
}

// -----------------------------------------------------------------------------

// Get performs a GET request with rate limiting, retries and proxy rotation.
// A 404 is reported as ErrDataUnavailable and is not retried.
func (nm *NetworkManager) Get(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	attempt := 0
	return helpers.RetryWithBackoff(ctx, nm.Logger, "GET "+urlStr, nm.Config.MaxRetries, nm.RetryDelay, func() ([]byte, error) {
		client, proxyStr := nm.pickClient(attempt > 0)
		attempt++

		if err := nm.Limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetHeader("User-Agent", nm.ProxyManager.GetUserAgent()).
			Get(urlStr)
		if err != nil {
			if proxyStr != "" {
				return nil, fmt.Errorf("via %s: %w", proxyStr, err)
			}
			return nil, err
		}

		switch status := resp.StatusCode(); {
		case status == http.StatusOK:
			return resp.Body(), nil
		case status == http.StatusNotFound:
			return nil, helpers.NewError(helpers.ErrDataUnavailable, "No data found for symbol", fmt.Errorf("GET %s: status 404", urlStr))
		case status == http.StatusTooManyRequests || status == http.StatusForbidden:
			return nil, fmt.Errorf("blocked (status %d)", status)
		default:
			return nil, fmt.Errorf("bad status: %d", status)
		}
	})
}
