package provider

import (
	"net/url"
	"strings"

	"listingscraper/pkg/errors"
	"listingscraper/pkg/extract"
	"listingscraper/pkg/models"
)

// URLBuilder maps a descriptor to its candidate URLs, most preferred first.
// The result is never empty and depends only on the descriptor.
type URLBuilder interface {
	Build(d models.PhotoDescriptor) []models.Candidate
}

// URLBuilderFunc adapts a function to URLBuilder
type URLBuilderFunc func(d models.PhotoDescriptor) []models.Candidate

func (f URLBuilderFunc) Build(d models.PhotoDescriptor) []models.Candidate { return f(d) }

// Provider bundles the extraction and URL rules of one listing site
type Provider interface {
	Name() string
	// Hosts lists the domains the provider answers for
	Hosts() []string
	Identify(listingURL string) bool
	Identifiers() *extract.IdentifierChain
	Metadata() *extract.MetadataExtractor
	URLBuilder() URLBuilder
}

// Selector picks the provider for a listing URL
type Selector struct {
	providers []Provider
}

// NewSelector creates a selector over providers in priority order
func NewSelector(providers ...Provider) *Selector {
	return &Selector{providers: providers}
}

// DefaultSelector knows every built-in provider
func DefaultSelector() *Selector {
	return NewSelector(NewRedfin(), NewZillow())
}

// Providers returns the registered providers
func (s *Selector) Providers() []Provider {
	return s.providers
}

// Select returns the first provider whose host matches. Unknown hosts are a
// configuration error, reported before any network access.
func (s *Selector) Select(listingURL string) (Provider, error) {
	for _, p := range s.providers {
		if p.Identify(listingURL) {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrorTypeConfiguration, "unsupported listing URL %q", listingURL)
}

// matchHost reports whether rawURL is an http(s) URL on one of hosts or a
// subdomain of one
func matchHost(rawURL string, hosts []string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
