// Package app is the composition root for sift.
//
// Resolve reads the TOML config and applies command-line overrides. Run then
// wires everything together:
//
//  1. Load display preferences (theme, compact rows)
//  2. Build the index server HTTP client
//  3. Create the ants worker pool that executes attribute and tag writes
//  4. Start the health poller, which calls GET /settings every
//     poll_interval and records the outcome in a shared state.Store
//  5. Run the Bubble Tea UI until the user quits
//
// The poller never retries faster than its interval and does not back off;
// two consecutive failures mark the server offline in the header until a poll
// succeeds again. A cancelled context stops the poller without recording a
// failure.
package app
