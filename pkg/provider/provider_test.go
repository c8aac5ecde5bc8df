package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"listingscraper/pkg/errors"
	"listingscraper/pkg/models"
)

func TestSelectorSelect(t *testing.T) {
	s := DefaultSelector()

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.redfin.com/IL/Springfield/123-Main-St-62704/home/1234", "redfin"},
		{"http://redfin.com/home/1", "redfin"},
		{"https://www.zillow.com/homedetails/123-Main-St/1_zpid/", "zillow"},
		{"https://ZILLOW.com/homedetails/x", "zillow"},
	}
	for _, tt := range tests {
		p, err := s.Select(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, p.Name())
	}
}

func TestSelectorRejectsUnknownHosts(t *testing.T) {
	s := DefaultSelector()

	for _, u := range []string{
		"https://example.com/home/1",
		"https://notredfin.com/home/1",
		"https://redfin.com.evil.net/home/1",
		"ftp://www.redfin.com/home/1",
		"not a url",
		"",
	} {
		_, err := s.Select(u)
		require.Error(t, err, u)
		assert.True(t, errors.Is(err, errors.ErrorTypeConfiguration), u)
	}
}

func TestRedfinIdentifiers(t *testing.T) {
	page := `
		<img src="https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_0.jpg">
		<img src="https://ssl.cdn-redfin.com/photo/68/mbphoto/123/1234567_1_0.jpg">
		<link href="https://ssl.cdn-redfin.com/photo/68/mbphotov3/123/1234567_2.jpg">
		"https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_0.jpg"
		"https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_1_0.webp"
		"https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_2.jpg"`

	got := NewRedfin().Identifiers().Extract(page)

	require.Len(t, got, 3)
	assert.Equal(t, models.PhotoDescriptor{ProviderID: "123/1234567_0", Name: "1234567_0", SizeHint: "68", Index: 1}, got[0])
	assert.Equal(t, "1234567_1_0", got[1].Name)
	assert.Equal(t, "1234567_2", got[2].Name)
	assert.Equal(t, 3, got[2].Index)
}

func TestRedfinEmbeddedJSONFallback(t *testing.T) {
	page := `<script>window.data = {"photos":[{"url":"https://ssl.cdn-redfin.com/photo/92/bigphoto/555/abc_def.jpg"},` +
		`{"url":"https://ssl.cdn-redfin.com/photo/92/bigphoto/555/abc_xyz.jpg"}]}</script>`

	got := NewRedfin().Identifiers().Extract(page)

	require.Len(t, got, 2)
	assert.Equal(t, "555/abc_def", got[0].ProviderID)
	assert.Equal(t, "92", got[0].SizeHint)
}

func TestRedfinEscapedJSON(t *testing.T) {
	page := `<script>window.__reactServerState = "{\"photos\":[` +
		`{\"url\":\"https:\/\/ssl.cdn-redfin.com\/photo\/68\/bigphoto\/123\/1234567_0.jpg\"},` +
		`{\"url\":\"https:\u002F\u002Fssl.cdn-redfin.com\u002Fphoto\u002F68\u002Fmbphotov3\u002F123\u002F1234567_1_0.jpg\"}]}"</script>`

	got := NewRedfin().Identifiers().Extract(page)

	require.Len(t, got, 2)
	assert.Equal(t, models.PhotoDescriptor{ProviderID: "123/1234567_0", Name: "1234567_0", SizeHint: "68", Index: 1}, got[0])
	assert.Equal(t, "123/1234567_1_0", got[1].ProviderID)
}

func TestRedfinLazyImageFallback(t *testing.T) {
	page := `<img data-lazy-src="//ssl.cdn-redfin.com/photo/7/bigphoto/42/lower_case_1.jpg">`

	got := NewRedfin().Identifiers().Extract(page)

	require.Len(t, got, 1)
	assert.Equal(t, "lower_case_1", got[0].Name)
}

func TestRedfinCandidates(t *testing.T) {
	d := models.PhotoDescriptor{ProviderID: "123/1234567_0", Name: "1234567_0", SizeHint: "68", Index: 1}
	got := NewRedfin().URLBuilder().Build(d)

	assert.Equal(t, []models.Candidate{
		{URL: "https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_0.webp", Ext: "webp"},
		{URL: "https://ssl.cdn-redfin.com/photo/68/bigphoto/123/1234567_0.jpg", Ext: "jpg"},
	}, got)
}

func TestZillowIdentifiers(t *testing.T) {
	page := `<img src="https://photos.zillowstatic.com/fp/aaa111-p_e.jpg">
		<img src="https://photos.zillowstatic.com/fp/bbb222-cc_ft_384.webp">
		<img src="https://photos.zillowstatic.com/fp/aaa111-cc_ft_1536.jpg">`

	got := NewZillow().Identifiers().Extract(page)

	require.Len(t, got, 2)
	assert.Equal(t, models.PhotoDescriptor{ProviderID: "aaa111", Name: "aaa111", SizeHint: "p_e", Index: 1}, got[0])
	assert.Equal(t, "bbb222", got[1].ProviderID)
}

func TestZillowEscapedJSON(t *testing.T) {
	page := `{"mixedSources":{"jpeg":[{"url":"https:\/\/photos.zillowstatic.com\/fp\/ccc333-cc_ft_960.jpg"}]}}`

	got := NewZillow().Identifiers().Extract(page)

	require.Len(t, got, 1)
	assert.Equal(t, "ccc333", got[0].ProviderID)
	assert.Equal(t, "cc_ft_960", got[0].SizeHint)
}

func TestZillowCandidates(t *testing.T) {
	b := NewZillow().URLBuilder()
	d := models.PhotoDescriptor{ProviderID: "abc", Name: "abc", SizeHint: "cc_ft_960", Index: 4}

	got := b.Build(d)
	require.Len(t, got, 5)
	assert.Equal(t, "https://photos.zillowstatic.com/fp/abc-uncropped_scaled_within_1536_1152.webp", got[0].URL)
	assert.Equal(t, "https://photos.zillowstatic.com/fp/abc-cc_ft_1536.webp", got[1].URL)
	assert.Equal(t, "jpg", got[2].Ext)
	assert.True(t, strings.HasSuffix(got[4].URL, "abc-cc_ft_960.jpg"))

	// a preferred size on the page does not add a duplicate
	d.SizeHint = "cc_ft_1536"
	assert.Len(t, b.Build(d), 4)
}

func TestBuildersAreNonEmptyAndDeterministic(t *testing.T) {
	descriptors := []models.PhotoDescriptor{
		{ProviderID: "1/x_0", Name: "x_0", SizeHint: "1", Index: 1},
		{ProviderID: "h", Name: "h", Index: 2},
	}
	for _, p := range DefaultSelector().Providers() {
		for _, d := range descriptors {
			first := p.URLBuilder().Build(d)
			assert.NotEmpty(t, first, p.Name())
			assert.Equal(t, first, p.URLBuilder().Build(d), p.Name())
		}
	}
}

func TestProviderMetadata(t *testing.T) {
	page := `<html><head><title>123 Main St, Springfield, IL 62704 | Redfin</title></head><body>
		<div data-rf-test-id="abp-price"><div class="statsValue">$315,000</div></div>
		<div data-rf-test-id="abp-beds"><div class="statsValue">3</div></div>
		<div data-rf-test-id="abp-baths"><div class="statsValue">2</div></div>
		<div data-rf-test-id="abp-sqFt"><span class="statsValue">1,820</span></div>
		</body></html>`

	m := NewRedfin().Metadata().Extract(page, "https://www.redfin.com/home/1")

	assert.Equal(t, "123 Main St, Springfield, IL 62704", m.Address)
	assert.Equal(t, "$315,000", m.Price)
	assert.Equal(t, "3", m.Beds)
	assert.Equal(t, "2", m.Baths)
	assert.Equal(t, "1,820", m.Sqft)
	assert.Equal(t, models.Unavailable, m.Description)
}
