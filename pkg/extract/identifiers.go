package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"listingscraper/pkg/logger"
	"listingscraper/pkg/models"
)

// IdentifierStrategy finds photo descriptors in raw page text. Index is left
// for the chain to assign.
type IdentifierStrategy interface {
	Name() string
	Match(raw string) []models.PhotoDescriptor
}

// IdentifierChain tries strategies in order; the first one with any match
// wins and later ones are not attempted
type IdentifierChain struct {
	strategies []IdentifierStrategy
	logger     logger.Logger
}

// NewIdentifierChain builds a chain from strategies in priority order
func NewIdentifierChain(strategies ...IdentifierStrategy) *IdentifierChain {
	return &IdentifierChain{
		strategies: strategies,
		logger:     logger.NewNopLogger(),
	}
}

// WithLogger returns a copy of the chain reporting to l
func (c *IdentifierChain) WithLogger(l logger.Logger) *IdentifierChain {
	cp := *c
	cp.logger = l
	return &cp
}

// Names lists the strategies in priority order
func (c *IdentifierChain) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Extract returns deduplicated descriptors in first-seen order with 1-based
// indices. No match yields an empty slice, never an error.
func (c *IdentifierChain) Extract(raw string) []models.PhotoDescriptor {
	for _, s := range c.strategies {
		matches := safeMatch(s, raw)
		if len(matches) == 0 {
			continue
		}

		result := dedupe(matches)
		c.logger.DebugWithFields("Photo identifiers matched", map[string]interface{}{
			"strategy": s.Name(),
			"raw":      len(matches),
			"unique":   len(result),
		})
		return result
	}

	c.logger.Debug("No photo identifiers matched")
	return []models.PhotoDescriptor{}
}

func safeMatch(s IdentifierStrategy, raw string) (matches []models.PhotoDescriptor) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
		}
	}()
	return s.Match(raw)
}

func dedupe(matches []models.PhotoDescriptor) []models.PhotoDescriptor {
	seen := make(map[string]struct{}, len(matches))
	result := make([]models.PhotoDescriptor, 0, len(matches))
	for _, d := range matches {
		if d.ProviderID == "" {
			continue
		}
		if _, ok := seen[d.ProviderID]; ok {
			continue
		}
		seen[d.ProviderID] = struct{}{}
		d.Index = len(result) + 1
		result = append(result, d)
	}
	return result
}

// SubmatchFunc turns one regexp submatch into a descriptor
type SubmatchFunc func(groups []string) (models.PhotoDescriptor, bool)

// RegexStrategy scans raw text with a single pattern
type RegexStrategy struct {
	name    string
	pattern *regexp.Regexp
	build   SubmatchFunc
}

// NewRegexStrategy compiles pattern; it panics on an invalid expression
func NewRegexStrategy(name, pattern string, build SubmatchFunc) *RegexStrategy {
	return &RegexStrategy{
		name:    name,
		pattern: regexp.MustCompile(pattern),
		build:   build,
	}
}

func (s *RegexStrategy) Name() string { return s.name }

func (s *RegexStrategy) Match(raw string) []models.PhotoDescriptor {
	var out []models.PhotoDescriptor
	for _, groups := range s.pattern.FindAllStringSubmatch(raw, -1) {
		if d, ok := s.build(groups); ok {
			out = append(out, d)
		}
	}
	return out
}

// URLParseFunc turns one image URL into a descriptor
type URLParseFunc func(src string) (models.PhotoDescriptor, bool)

// ImageTagStrategy scans <img> elements and inspects the given attributes in
// order, so lazy-loaded galleries are found too
type ImageTagStrategy struct {
	name  string
	attrs []string
	parse URLParseFunc
}

// NewImageTagStrategy creates a strategy reading attrs of every <img>
func NewImageTagStrategy(name string, attrs []string, parse URLParseFunc) *ImageTagStrategy {
	return &ImageTagStrategy{name: name, attrs: attrs, parse: parse}
}

func (s *ImageTagStrategy) Name() string { return s.name }

func (s *ImageTagStrategy) Match(raw string) []models.PhotoDescriptor {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil
	}

	var out []models.PhotoDescriptor
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		for _, attr := range s.attrs {
			src, ok := img.Attr(attr)
			if !ok || src == "" {
				continue
			}
			if d, ok := s.parse(strings.TrimSpace(src)); ok {
				out = append(out, d)
				return
			}
		}
	})
	return out
}
