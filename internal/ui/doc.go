// Package ui provides the Bubble Tea terminal interface for sift.
//
// The Bubble Tea update loop is the single execution context for the search
// core: the Model owns a session.Scheduler and session.Dispatcher and only
// touches them from Update. Network calls run as tea.Cmd functions and come
// back as messages:
//
//   - searchResultMsg carries a session.Outcome into Scheduler.OnResponse
//   - mutationDoneMsg reports a finished write to Dispatcher.Complete,
//     which yields the forced refetch
//   - viewContentMsg hands stored page text to the ov pager via tea.Exec
//   - settingsSavedMsg and logEntriesMsg drive the settings and
//     diagnostics screens
//
// Writes are executed on a bounded worker pool (any Submitter, normally an
// *ants.Pool) so a burst of toggles cannot flood the server.
//
// # Screens
//
// ModeSearch shows the query input and result list. ModeTag routes typed
// text into the selected item's tag staging buffer. ModeSettings shows the
// server settings and toggles the indexer. ModeLogs tails sift's own log.
//
// Server health comes from state.Store, refreshed by the app poller and read
// on every tick.
package ui
