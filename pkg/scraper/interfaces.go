package scraper

import "context"

// ListingClient fetches listing pages and photo variants
type ListingClient interface {
	FetchPage(ctx context.Context, url string) (string, error)
	FetchPhoto(ctx context.Context, url string) ([]byte, error)
}
