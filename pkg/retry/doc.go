// Package retry runs operations again after transient failures.
//
// Listing page requests are retried with exponential backoff when they fail
// with network, rate limit or server errors. Photo downloads are not retried
// here; their fallback is the next candidate URL, paced by a ConstantBackoff.
//
//	page, err := retry.DoWithResult(ctx, func(ctx context.Context) (string, error) {
//	    return fetch(ctx, url)
//	}, retry.FromSettings(cfg.Retry, log))
package retry
