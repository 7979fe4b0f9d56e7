package stealth

import (
	"bufio"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
)

// ProxyProvider abstracts a proxy backend.
type ProxyProvider interface {
	Transport() http.RoundTripper
	Name() string
}

// ProxyRotator cycles through multiple proxy providers.
type ProxyRotator struct {
	mu        sync.Mutex
	providers []ProxyProvider
	idx       int
}

// NewProxyRotator creates a rotator; nil when no providers are given.
func NewProxyRotator(providers []ProxyProvider) *ProxyRotator {
	if len(providers) == 0 {
		return nil
	}
	return &ProxyRotator{providers: providers}
}

// Next returns the next provider in round-robin order.
func (p *ProxyRotator) Next() ProxyProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	provider := p.providers[p.idx%len(p.providers)]
	p.idx++
	return provider
}

// URLProvider wraps a single HTTP/SOCKS5 proxy URL.
type URLProvider struct {
	RawURL string
	Label  string

	once      sync.Once
	transport http.RoundTripper
	parseErr  error
}

func (u *URLProvider) Name() string { return u.Label }

func (u *URLProvider) Transport() http.RoundTripper {
	u.once.Do(func() {
		proxyURL, err := url.Parse(u.RawURL)
		if err != nil {
			u.parseErr = err
			u.transport = http.DefaultTransport
			return
		}
		u.transport = &http.Transport{
			Proxy:             http.ProxyURL(proxyURL),
			DisableKeepAlives: true, // fresh connection per request
		}
	})
	return u.transport
}

// Err returns any proxy URL parse error; call after Transport().
func (u *URLProvider) Err() error {
	u.once.Do(func() {})
	return u.parseErr
}

// LoadProxyFile reads one proxy URL per line, skipping blanks and
// comments, and returns a provider per entry.
func LoadProxyFile(path string) ([]ProxyProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var providers []ProxyProvider
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		providers = append(providers, &URLProvider{RawURL: line, Label: line})
	}
	return providers, scanner.Err()
}
