// Package config loads scraper settings from defaults, a YAML file, .env files,
// LISTINGSCRAPER_* environment variables and command line flags, in increasing
// order of precedence.
//
// The YAML file is looked up in the working directory (.listingscraper.yaml)
// and then in the XDG config directories (listingscraper/config.yaml).
//
//	cfg, err := config.Load("", map[string]interface{}{
//	    "output":     "./photos",
//	    "concurrent": 5,
//	})
package config
