// Package indexd provides an HTTP client for the local index server.
//
// # Overview
//
// The index server crawls and stores documents and answers free-text queries.
// This package covers the subset of its API sift talks to: searching, per-item
// attribute and tag writes, system settings, and raw content retrieval.
//
// # Architecture
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the server's JSON schema
//
// # Client Usage
//
//	client, err := indexd.NewClient("localhost:7172", 10*time.Second)
//	if err != nil {
//		return err
//	}
//
//	result, err := client.Search(ctx, "golang generics")
//	if err != nil {
//		slog.Warn("search failed", "err", err)
//	}
//
// # API Endpoints
//
//   - GET  /search?q=<query>                      → SearchResult
//   - GET  /attributes?url=&field=&value=          → ack
//   - GET  /attributes_array?url=&field=tag&value=&action=add|remove → ack
//   - GET  /settings                               → Settings
//   - POST /settings                               → ack
//   - GET  /view/<id>                              → raw stored content
//
// Query parameters are percent-encoded with url.Values, so callers pass plain
// URLs and tag strings.
//
// # Wire Quirks
//
// The four flag-like fields on SearchItem (bookmarked, pinned, duplicate and
// the accessed counter) are integers on the wire, not booleans. Helper methods
// such as IsPinned hide that detail. Item ids arrive as either JSON numbers or
// strings and are normalized to ItemID.
//
// # Error Handling
//
// Every call returns a wrapped error for transport failures ("execute
// request"), HTTP status codes >= 400 ("api <path> returned status N") and
// malformed bodies ("decode response"). The search core treats all of them
// the same way; the distinction only matters for diagnostics.
package indexd
