package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"listingscraper/pkg/logger"
	"listingscraper/pkg/models"
)

// Field names one listing attribute
type Field string

const (
	FieldAddress     Field = "address"
	FieldPrice       Field = "price"
	FieldBeds        Field = "beds"
	FieldBaths       Field = "baths"
	FieldSqft        Field = "sqft"
	FieldDescription Field = "description"
)

// Fields lists every extracted field in a stable order
var Fields = []Field{FieldAddress, FieldPrice, FieldBeds, FieldBaths, FieldSqft, FieldDescription}

// Document is a page parsed once and shared by all metadata strategies.
// DOM is nil when the markup could not be parsed.
type Document struct {
	Raw string
	DOM *goquery.Document
}

// NewDocument parses raw markup
func NewDocument(raw string) *Document {
	doc := &Document{Raw: raw}
	if dom, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		doc.DOM = dom
	}
	return doc
}

// MetadataStrategy returns whatever fields it can find. Missing or empty
// entries defer to the next strategy.
type MetadataStrategy interface {
	Name() string
	Extract(doc *Document) map[Field]string
}

// MetadataExtractor resolves each field independently: the first strategy
// producing a non-empty value for that field wins
type MetadataExtractor struct {
	strategies []MetadataStrategy
	logger     logger.Logger
}

// NewMetadataExtractor builds an extractor from strategies in priority order
func NewMetadataExtractor(strategies ...MetadataStrategy) *MetadataExtractor {
	return &MetadataExtractor{
		strategies: strategies,
		logger:     logger.NewNopLogger(),
	}
}

// WithLogger returns a copy of the extractor reporting to l
func (e *MetadataExtractor) WithLogger(l logger.Logger) *MetadataExtractor {
	cp := *e
	cp.logger = l
	return &cp
}

// Extract never fails; unmatched fields hold models.Unavailable
func (e *MetadataExtractor) Extract(raw, url string) models.ListingMetadata {
	meta := models.NewListingMetadata(url)
	doc := NewDocument(raw)

	found := make(map[Field]string, len(Fields))
	for _, s := range e.strategies {
		values, err := e.run(s, doc)
		if err != nil {
			e.logger.WithError(err).WithField("strategy", s.Name()).Debug("Metadata strategy failed")
			continue
		}
		for field, value := range values {
			value = cleanText(value)
			if value == "" {
				continue
			}
			if _, ok := found[field]; !ok {
				found[field] = value
			}
		}
		if len(found) == len(Fields) {
			break
		}
	}

	for field, value := range found {
		switch field {
		case FieldAddress:
			meta.Address = value
		case FieldPrice:
			meta.Price = value
		case FieldBeds:
			meta.Beds = value
		case FieldBaths:
			meta.Baths = value
		case FieldSqft:
			meta.Sqft = value
		case FieldDescription:
			meta.Description = value
		}
	}
	return meta
}

func (e *MetadataExtractor) run(s MetadataStrategy, doc *Document) (values map[Field]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			values = nil
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Extract(doc), nil
}

// cleanText collapses runs of whitespace
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// AttributeStrategy reads fields from elements found by CSS selectors, such
// as data-rf-test-id or data-testid markers. Selectors per field are tried in
// order. For <meta> elements the content attribute is used.
type AttributeStrategy struct {
	selectors map[Field][]string
}

// NewAttributeStrategy creates a selector based strategy
func NewAttributeStrategy(selectors map[Field][]string) *AttributeStrategy {
	return &AttributeStrategy{selectors: selectors}
}

func (s *AttributeStrategy) Name() string { return "attributes" }

func (s *AttributeStrategy) Extract(doc *Document) map[Field]string {
	out := make(map[Field]string)
	if doc.DOM == nil {
		return out
	}

	for _, field := range Fields {
		for _, selector := range s.selectors[field] {
			sel := doc.DOM.Find(selector).First()
			if sel.Length() == 0 {
				continue
			}
			var value string
			if goquery.NodeName(sel) == "meta" {
				value, _ = sel.Attr("content")
			} else {
				value = sel.Text()
			}
			if value = cleanText(value); value != "" {
				out[field] = value
				break
			}
		}
	}
	return out
}
