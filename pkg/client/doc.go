// Package client retrieves listing pages and photo variants over HTTP.
//
// Requests carry a static browser-like header set and no cookies. Page
// fetches are retried on network errors, 429 and 5xx responses; photo
// fetches are single attempts because the caller falls back to the next
// candidate URL instead.
package client
