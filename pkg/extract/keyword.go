package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	pricePattern = regexp.MustCompile(`\$\s?(\d{1,3}(?:,\d{3})+|\d{4,})`)
	bedsPattern  = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:beds?|bd|bedrooms?)\b`)
	bathsPattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:baths?|ba|bathrooms?)\b`)
	sqftPattern  = regexp.MustCompile(`(?i)\b(\d{1,3}(?:,\d{3})+|\d+)\s*(?:sq\.?\s?ft|square\s+feet|sqft)`)
	tagPattern   = regexp.MustCompile(`(?s)<script.*?</script>|<style.*?</style>|<[^>]+>`)
)

// KeywordStrategy is the last resort: it scans the title, meta descriptions
// and visible text for price, bed, bath and area phrases. The address is the
// title up to the first "|".
type KeywordStrategy struct{}

func NewKeywordStrategy() *KeywordStrategy { return &KeywordStrategy{} }

func (s *KeywordStrategy) Name() string { return "keywords" }

func (s *KeywordStrategy) Extract(doc *Document) map[Field]string {
	out := make(map[Field]string)

	var title, description string
	var fragments []string
	if doc.DOM != nil {
		title = cleanText(doc.DOM.Find("title").First().Text())
		for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`} {
			if v, ok := doc.DOM.Find(sel).First().Attr("content"); ok && cleanText(v) != "" {
				description = cleanText(v)
				break
			}
		}

		body := doc.DOM.Find("body").Clone()
		body.Find("script, style, noscript").Remove()
		fragments = []string{title, description, cleanText(body.Text())}
	} else {
		fragments = []string{cleanText(tagPattern.ReplaceAllString(doc.Raw, " "))}
	}

	if title != "" {
		if addr, _, _ := strings.Cut(title, "|"); strings.TrimSpace(addr) != "" {
			out[FieldAddress] = strings.TrimSpace(addr)
		}
	}
	if description != "" {
		out[FieldDescription] = description
	}

	for _, text := range fragments {
		if text == "" {
			continue
		}
		if m := pricePattern.FindStringSubmatch(text); m != nil {
			setIfEmpty(out, FieldPrice, "$"+regroup(m[1]))
		}
		if m := bedsPattern.FindStringSubmatch(text); m != nil {
			setIfEmpty(out, FieldBeds, m[1])
		}
		if m := bathsPattern.FindStringSubmatch(text); m != nil {
			setIfEmpty(out, FieldBaths, m[1])
		}
		if m := sqftPattern.FindStringSubmatch(text); m != nil {
			setIfEmpty(out, FieldSqft, regroup(m[1]))
		}
	}
	return out
}

// regroup normalizes "1820" and "1,820" to "1,820"
func regroup(digits string) string {
	n, err := strconv.ParseInt(strings.ReplaceAll(digits, ",", ""), 10, 64)
	if err != nil {
		return digits
	}
	return groupDigits(n)
}
