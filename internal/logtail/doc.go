// Package logtail reads the tail of sift's diagnostic log and parses the
// slog text-handler records it contains.
//
// Read extracts the last N lines with a ring buffer, so memory stays bounded
// by N regardless of file size. Parse turns a line such as
//
//	time=2026-10-17T09:30:01.250+02:00 level=WARN msg="search failed" query=rust
//
// into an Entry with the time, level, message and remaining attributes.
// Anything that does not look like key=value pairs is kept verbatim as the
// message so panics and stray writes still show up in the diagnostics view.
package logtail
