// Package logger wraps zerolog behind a small Logger interface.
//
// Components receive a Logger explicitly; the package-level functions use a
// global instance set up by Initialize for code that has none at hand.
//
//	log, err := logger.New(&cfg.Logging)
//	log.WithField("provider", "redfin").Info("Listing page fetched")
//
// NewNopLogger discards everything and NewTestLogger captures calls for
// assertions in tests.
package logger
