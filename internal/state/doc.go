// Package state holds the data the UI renders.
//
// Session is the search session: the query the displayed results answer,
// the result set itself and a loading flag. It has no lock. Exactly one
// goroutine, the Bubble Tea update loop, reads and writes it through the
// session.Scheduler.
//
// Store is the server health snapshot. The app poller writes it from its own
// goroutine and the UI reads it on every tick, so it is guarded by a
// sync.RWMutex and Snapshot returns copies:
//
//	poller goroutine             UI update loop
//	GET /settings                tick
//	store.Update(settings, err)  store.Snapshot()
//	                             render header
//
// A snapshot counts consecutive failures; IsOffline reports true from the
// second one on and a successful poll resets the count.
package state
