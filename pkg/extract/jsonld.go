package extract

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// JSONLDStrategy reads schema.org data from ld+json script blocks. Arrays and
// @graph containers are flattened; malformed blocks are skipped.
type JSONLDStrategy struct{}

func NewJSONLDStrategy() *JSONLDStrategy { return &JSONLDStrategy{} }

func (s *JSONLDStrategy) Name() string { return "json-ld" }

func (s *JSONLDStrategy) Extract(doc *Document) map[Field]string {
	out := make(map[Field]string)
	if doc.DOM == nil {
		return out
	}

	doc.DOM.Find(`script[type="application/ld+json"]`).Each(func(_ int, script *goquery.Selection) {
		var data interface{}
		if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
			return
		}
		for _, obj := range flattenObjects(data, nil) {
			types := typesOf(obj)
			if hasType(types, offerTypes) {
				setIfEmpty(out, FieldPrice, priceFrom(obj))
			}
			if !hasType(types, listingTypes) {
				continue
			}
			setIfEmpty(out, FieldAddress, addressFrom(obj["address"]))
			setIfEmpty(out, FieldPrice, priceFrom(obj))
			setIfEmpty(out, FieldBeds, firstValue(obj, "numberOfBedrooms"))
			setIfEmpty(out, FieldBaths, firstValue(obj, "numberOfBathroomsTotal", "numberOfFullBathrooms"))
			setIfEmpty(out, FieldSqft, areaFrom(obj["floorSize"]))
			setIfEmpty(out, FieldDescription, stringValue(obj["description"]))
		}
	})
	return out
}

// Only these schema.org types describe the home itself. Sites also embed
// Organization, WebPage and BreadcrumbList blocks whose address and
// description belong to the brokerage.
var listingTypes = map[string]bool{
	"Accommodation":         true,
	"Apartment":             true,
	"House":                 true,
	"RealEstateListing":     true,
	"Residence":             true,
	"SingleFamilyResidence": true,
}

// offerTypes may carry a price but nothing else about the listing.
var offerTypes = map[string]bool{
	"Offer":          true,
	"AggregateOffer": true,
	"Product":        true,
}

// typesOf returns the @type values of obj. A missing or unrecognised @type
// yields nil.
func typesOf(obj map[string]interface{}) []string {
	switch t := obj["@type"].(type) {
	case string:
		return []string{trimSchemaPrefix(t)}
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, trimSchemaPrefix(s))
			}
		}
		return out
	}
	return nil
}

func trimSchemaPrefix(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func hasType(types []string, set map[string]bool) bool {
	for _, t := range types {
		if set[t] {
			return true
		}
	}
	return false
}

// flattenObjects collects every JSON object reachable from v in document order
func flattenObjects(v interface{}, acc []map[string]interface{}) []map[string]interface{} {
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			acc = flattenObjects(item, acc)
		}
	case map[string]interface{}:
		acc = append(acc, t)
		if graph, ok := t["@graph"]; ok {
			acc = flattenObjects(graph, acc)
		}
		keys := make([]string, 0, len(t))
		for key := range t {
			if key != "@graph" && key != "address" {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			child := t[key]
			switch child.(type) {
			case map[string]interface{}, []interface{}:
				acc = flattenObjects(child, acc)
			}
		}
	}
	return acc
}

func setIfEmpty(out map[Field]string, field Field, value string) {
	if value == "" {
		return
	}
	if _, ok := out[field]; !ok {
		out[field] = value
	}
}

func firstValue(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v := scalarValue(obj[key]); v != "" {
			return v
		}
	}
	return ""
}

func addressFrom(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]interface{}:
		street := stringValue(t["streetAddress"])
		city := stringValue(t["addressLocality"])
		region := strings.TrimSpace(stringValue(t["addressRegion"]) + " " + stringValue(t["postalCode"]))

		var parts []string
		for _, p := range []string{street, city, region} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func priceFrom(obj map[string]interface{}) string {
	if p := formatPrice(obj["price"]); p != "" {
		return p
	}
	switch offers := obj["offers"].(type) {
	case map[string]interface{}:
		return formatPrice(offers["price"])
	case []interface{}:
		for _, o := range offers {
			if m, ok := o.(map[string]interface{}); ok {
				if p := formatPrice(m["price"]); p != "" {
					return p
				}
			}
		}
	}
	return ""
}

func formatPrice(v interface{}) string {
	var amount float64
	switch t := v.(type) {
	case float64:
		amount = t
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(t)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return strings.TrimSpace(t)
		}
		amount = f
	default:
		return ""
	}
	if amount <= 0 {
		return ""
	}
	return "$" + groupDigits(int64(math.Round(amount)))
}

func areaFrom(v interface{}) string {
	if m, ok := v.(map[string]interface{}); ok {
		v = m["value"]
	}
	switch t := v.(type) {
	case float64:
		return groupDigits(int64(math.Round(t)))
	case string:
		return strings.TrimSpace(t)
	}
	return ""
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func scalarValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]interface{}:
		return scalarValue(t["value"])
	}
	return ""
}

// groupDigits formats n with thousands separators
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
