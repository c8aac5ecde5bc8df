package provider

import (
	"fmt"
	"regexp"
	"strings"

	"listingscraper/pkg/extract"
	"listingscraper/pkg/models"
)

const redfinCDN = "https://ssl.cdn-redfin.com/photo"

// escapedSlash matches a forward slash inside a JSON string literal, written
// either as \/ or as \u002F.
const escapedSlash = `(?:\\/|\\u002[Ff])`

var redfinImagePath = regexp.MustCompile(`/photo/(\d+)/bigphoto/(\d+)/([A-Za-z0-9_]+)\.`)

// Redfin handles redfin.com listings. Photos live on ssl.cdn-redfin.com under
// a numbered bucket; only the bigphoto size is downloaded.
type Redfin struct {
	identifiers *extract.IdentifierChain
	metadata    *extract.MetadataExtractor
}

func NewRedfin() *Redfin {
	return &Redfin{
		identifiers: extract.NewIdentifierChain(
			extract.NewRegexStrategy("redfin-cdn-path",
				`ssl\.cdn-redfin\.com/photo/(\d+)/(?:bigphoto|mbphoto|mbphotov3)/(\d+)/([A-Z0-9]+_\d+(?:_[A-Z0-9]+)?)\.`,
				redfinDescriptor),
			extract.NewRegexStrategy("redfin-embedded-json",
				`"url":"https://ssl\.cdn-redfin\.com/photo/(\d+)/bigphoto/(\d+)/([^"/]+?)\.`,
				redfinDescriptor),
			extract.NewRegexStrategy("redfin-escaped-json",
				strings.ReplaceAll(
					`ssl\.cdn-redfin\.com/photo/(\d+)/(?:bigphoto|mbphoto|mbphotov3)/(\d+)/([A-Z0-9]+_\d+(?:_[A-Z0-9]+)?)\.`,
					"/", escapedSlash),
				redfinDescriptor),
			extract.NewImageTagStrategy("redfin-img-tags",
				[]string{"src", "data-src", "data-lazy-src"},
				func(src string) (models.PhotoDescriptor, bool) {
					m := redfinImagePath.FindStringSubmatch(src)
					if m == nil {
						return models.PhotoDescriptor{}, false
					}
					return redfinDescriptor(m)
				}),
		),
		metadata: extract.NewMetadataExtractor(
			extract.NewJSONLDStrategy(),
			extract.NewAttributeStrategy(map[extract.Field][]string{
				extract.FieldAddress: {"h1.full-address", `[data-rf-test-id="abp-streetLine"]`},
				extract.FieldPrice:   {`[data-rf-test-id="abp-price"] .statsValue`, `[data-rf-test-id="abp-price"]`},
				extract.FieldBeds:    {`[data-rf-test-id="abp-beds"] .statsValue`},
				extract.FieldBaths:   {`[data-rf-test-id="abp-baths"] .statsValue`},
				extract.FieldSqft:    {`[data-rf-test-id="abp-sqFt"] .statsValue`},
				extract.FieldDescription: {
					`#marketing-remarks-scroll`,
					`meta[name="description"]`,
				},
			}),
			extract.NewKeywordStrategy(),
		),
	}
}

// redfinDescriptor expects groups bucket, listing photo id and file name
func redfinDescriptor(g []string) (models.PhotoDescriptor, bool) {
	if len(g) < 4 || g[3] == "" {
		return models.PhotoDescriptor{}, false
	}
	return models.PhotoDescriptor{
		ProviderID: g[2] + "/" + g[3],
		Name:       g[3],
		SizeHint:   g[1],
	}, true
}

func (r *Redfin) Name() string    { return "redfin" }
func (r *Redfin) Hosts() []string { return []string{"redfin.com"} }

func (r *Redfin) Identify(listingURL string) bool {
	return matchHost(listingURL, r.Hosts())
}

func (r *Redfin) Identifiers() *extract.IdentifierChain { return r.identifiers }
func (r *Redfin) Metadata() *extract.MetadataExtractor { return r.metadata }
func (r *Redfin) URLBuilder() URLBuilder               { return URLBuilderFunc(redfinCandidates) }

// redfinCandidates prefers webp, then jpg, in the page's own bucket
func redfinCandidates(d models.PhotoDescriptor) []models.Candidate {
	id, _, _ := strings.Cut(d.ProviderID, "/")
	base := fmt.Sprintf("%s/%s/bigphoto/%s/%s", redfinCDN, d.SizeHint, id, d.Name)
	return []models.Candidate{
		{URL: base + ".webp", Ext: "webp"},
		{URL: base + ".jpg", Ext: "jpg"},
	}
}
