package platform

import (
	"fmt"
	"sort"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]Scraper)
)

// Register makes a scraper available under a family name ("shopify",
// "boutique", ...). Later registrations replace earlier ones.
func Register(name string, scraper Scraper) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = scraper
}

// Get returns the scraper registered under name.
func Get(name string) (Scraper, error) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("scraper family %q not registered", name)
	}
	return s, nil
}

// Resolve picks the scraper that claims the given URL. Families are tried
// in name order so resolution is deterministic when claims overlap.
func Resolve(url string) (Scraper, error) {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if registry[name].Supports(url) {
			return registry[name], nil
		}
	}
	return nil, fmt.Errorf("no registered scraper supports %s", url)
}

// List returns the registered family names.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
