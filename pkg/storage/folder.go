package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"listingscraper/pkg/errors"
	"listingscraper/pkg/models"
)

// DefaultFolderName is used when an address sanitizes to nothing
const DefaultFolderName = "property"

// maxFolderBytes keeps folder names well under common filesystem limits
const maxFolderBytes = 150

// SanitizeAddress turns a display address into a portable directory name.
// Anything after the first "|" is treated as a site suffix and dropped.
func SanitizeAddress(address string) string {
	address = norm.NFC.String(address)
	if address == models.Unavailable {
		return DefaultFolderName
	}
	address, _, _ = strings.Cut(address, "|")

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r):
			return -1
		case r == ',' || r == ';':
			return -1
		case unicode.IsControl(r):
			return ' '
		}
		return r
	}, address)

	name := strings.Join(strings.Fields(cleaned), " ")
	name = strings.TrimRight(name, ". ")
	name = truncate(name, maxFolderBytes)

	if name == "" {
		return DefaultFolderName
	}
	return name
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return strings.TrimSpace(s)
}

// ResolveFolder creates root/<sanitized address> if needed and returns it.
// An existing folder is reused as is.
func ResolveFolder(root, address string) (string, error) {
	dir := filepath.Join(root, SanitizeAddress(address))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrorTypeStorage, err, "creating listing folder %s", dir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypeStorage, err, "checking listing folder %s", dir)
	}
	if !info.IsDir() {
		return "", errors.New(errors.ErrorTypeStorage, "%s exists and is not a directory", dir)
	}
	return dir, nil
}

// PhotoFileName is the on-disk name of a photo variant
func PhotoFileName(d models.PhotoDescriptor, ext string) string {
	return fmt.Sprintf("%s.%s", d.FileStem(), ext)
}
