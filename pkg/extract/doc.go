// Package extract finds photo identifiers and listing attributes in raw page
// markup.
//
// Identifiers come from an IdentifierChain: strategies are tried in priority
// order and the first one with any match decides the result, which is then
// deduplicated on ProviderID in first-seen order.
//
// Metadata is resolved per field by a MetadataExtractor. Strategies usually
// run structured data first (JSONLDStrategy), then element lookups
// (AttributeStrategy), then free text (KeywordStrategy). Extraction never
// fails: a panicking strategy is skipped and missing fields are
// models.Unavailable.
package extract
