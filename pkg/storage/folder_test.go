package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"listingscraper/pkg/errors"
	"listingscraper/pkg/models"
)

func TestSanitizeAddress(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"title with site suffix", `123 Main St, Springfield, IL 62704 | Sitename"`, "123 Main St Springfield IL 62704"},
		{"plain", "9 Elm Rd", "9 Elm Rd"},
		{"illegal characters", `Unit 4/B: "Loft" <east>?*`, "Unit 4B Loft east"},
		{"semicolons and tabs", "1 A St;\tApt\n2", "1 A St Apt 2"},
		{"trailing dots", "12 Oak Ave...", "12 Oak Ave"},
		{"empty", "", DefaultFolderName},
		{"only junk", ` |Sitename`, DefaultFolderName},
		{"unavailable sentinel", models.Unavailable, DefaultFolderName},
		{"decomposed accents", "12 Rue Rene\u0301", "12 Rue Ren\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeAddress(tt.in))
		})
	}
}

func TestSanitizeAddressTruncates(t *testing.T) {
	got := SanitizeAddress(strings.Repeat("é", 200))
	assert.LessOrEqual(t, len(got), maxFolderBytes)
	assert.NotEmpty(t, got)
}

func TestResolveFolder(t *testing.T) {
	root := t.TempDir()

	dir, err := ResolveFolder(root, "123 Main St, Springfield, IL 62704 | Sitename")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "123 Main St Springfield IL 62704"), dir)
	assert.DirExists(t, dir)

	// reuse leaves existing content alone
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_a.jpg"), []byte("x"), 0644))
	again, err := ResolveFolder(root, "123 Main St, Springfield, IL 62704")
	require.NoError(t, err)
	assert.Equal(t, dir, again)
	assert.FileExists(t, filepath.Join(dir, "001_a.jpg"))
}

func TestResolveFolderOverFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "property"), []byte("x"), 0644))

	_, err := ResolveFolder(root, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeStorage))
}

func TestPhotoFileName(t *testing.T) {
	d := models.PhotoDescriptor{Name: "1234567_0", Index: 12}
	assert.Equal(t, "012_1234567_0.webp", PhotoFileName(d, "webp"))
}
