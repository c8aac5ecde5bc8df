// Package storage owns the on-disk layout of a run:
//
//	<output root>/<sanitized address>/<NNN>_<name>.<ext>
//
// SanitizeAddress and ResolveFolder turn the listing address into a folder;
// Manager answers existence checks and performs atomic writes (temp file
// plus rename) inside it.
package storage
