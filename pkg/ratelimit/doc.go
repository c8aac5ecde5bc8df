// Package ratelimit caps photo request starts across all download workers.
//
// The per-worker politeness delay spaces out the candidates of one photo;
// a Limiter additionally bounds the total request rate to a CDN host:
//
//	limiter := ratelimit.PerMinute(120)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
