// Package sink persists scrape output: the append-only JSONL catalog,
// the resume cursor derived from its last record, and the plain-text
// error log for skipped rows.
//
// The JSONL writer appends one JSON object per line and never rewrites
// existing lines; downstream consumers deduplicate by event_id, so a
// re-scraped record is an upsert, not a conflict. ResumeFrom reads only
// the final line of the catalog, which keeps resumption O(1) no matter
// how large the backfill has grown.
package sink
