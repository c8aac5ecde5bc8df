package provider

import (
	"regexp"
	"slices"

	"listingscraper/pkg/extract"
	"listingscraper/pkg/models"
)

const zillowCDN = "https://photos.zillowstatic.com/fp/"

var zillowImagePath = regexp.MustCompile(`photos\.zillowstatic\.com/fp/([a-f0-9]+)-([a-z0-9_]+)\.(?:jpg|jpeg|webp|png)`)

// Zillow handles zillow.com listings. Every photo is a hash on
// photos.zillowstatic.com with a size token appended, so any size seen on
// the page can be rewritten to the largest rendition.
type Zillow struct {
	identifiers *extract.IdentifierChain
	metadata    *extract.MetadataExtractor
}

func NewZillow() *Zillow {
	return &Zillow{
		identifiers: extract.NewIdentifierChain(
			extract.NewRegexStrategy("zillow-cdn-path",
				zillowImagePath.String(),
				zillowDescriptor),
			extract.NewRegexStrategy("zillow-escaped-json",
				`photos\.zillowstatic\.com\\/fp\\/([a-f0-9]+)-([a-z0-9_]+)\.(?:jpg|jpeg|webp|png)`,
				zillowDescriptor),
			extract.NewImageTagStrategy("zillow-img-tags",
				[]string{"src", "data-src", "srcset"},
				func(src string) (models.PhotoDescriptor, bool) {
					m := zillowImagePath.FindStringSubmatch(src)
					if m == nil {
						return models.PhotoDescriptor{}, false
					}
					return zillowDescriptor(m)
				}),
		),
		metadata: extract.NewMetadataExtractor(
			extract.NewJSONLDStrategy(),
			extract.NewAttributeStrategy(map[extract.Field][]string{
				extract.FieldAddress:     {`[data-testid="address"]`, "h1"},
				extract.FieldPrice:       {`[data-testid="price"]`},
				extract.FieldBeds:        {`[data-testid="bed-bath-item"]:nth-child(1) strong`},
				extract.FieldBaths:       {`[data-testid="bed-bath-item"]:nth-child(3) strong`},
				extract.FieldDescription: {`[data-testid="description"]`, `meta[name="description"]`},
			}),
			extract.NewKeywordStrategy(),
		),
	}
}

// zillowDescriptor expects groups photo hash and size token
func zillowDescriptor(g []string) (models.PhotoDescriptor, bool) {
	if len(g) < 3 || g[1] == "" {
		return models.PhotoDescriptor{}, false
	}
	return models.PhotoDescriptor{
		ProviderID: g[1],
		Name:       g[1],
		SizeHint:   g[2],
	}, true
}

func (z *Zillow) Name() string    { return "zillow" }
func (z *Zillow) Hosts() []string { return []string{"zillow.com"} }

func (z *Zillow) Identify(listingURL string) bool {
	return matchHost(listingURL, z.Hosts())
}

func (z *Zillow) Identifiers() *extract.IdentifierChain { return z.identifiers }
func (z *Zillow) Metadata() *extract.MetadataExtractor { return z.metadata }
func (z *Zillow) URLBuilder() URLBuilder               { return URLBuilderFunc(zillowCandidates) }

var zillowPreferredSizes = []string{"uncropped_scaled_within_1536_1152", "cc_ft_1536"}

// zillowCandidates tries the large renditions as webp then jpg, and finally
// the size seen on the page
func zillowCandidates(d models.PhotoDescriptor) []models.Candidate {
	var out []models.Candidate
	for _, ext := range []string{"webp", "jpg"} {
		for _, size := range zillowPreferredSizes {
			out = append(out, models.Candidate{URL: zillowCDN + d.ProviderID + "-" + size + "." + ext, Ext: ext})
		}
	}

	if d.SizeHint != "" && !slices.Contains(zillowPreferredSizes, d.SizeHint) {
		out = append(out, models.Candidate{URL: zillowCDN + d.ProviderID + "-" + d.SizeHint + ".jpg", Ext: "jpg"})
	}
	return out
}
