// Package scraper coordinates a run for one listing URL.
//
// A run selects the provider for the URL's host, fetches the page once, and
// hands it to the provider's identifier and metadata extractors. The address
// decides the folder, the listing details are written to the sidecar file,
// and the photos go through the download worker pool:
//
//	s := scraper.New(cfg, log)
//	res, err := s.Run(ctx, "https://www.redfin.com/...", token, progress)
//	fmt.Printf("%d of %d downloaded\n", res.Summary.Succeeded, res.Summary.Total)
//
// Run-level failures (unsupported URL, page fetch, no photos, folder or
// sidecar write) are returned as typed errors from pkg/errors.
package scraper
