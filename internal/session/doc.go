// Package session implements the request orchestration behind a search
// surface: the Scheduler owning the single search request slot and the
// Dispatcher issuing attribute and tag writes.
//
// Neither type performs I/O. Each operation returns a descriptor (Fetch or
// Mutation) that the host executes, and the host feeds the outcome back
// (Scheduler.OnResponse, Dispatcher.Complete). The host must serialize every
// call onto one goroutine; in sift that is the Bubble Tea update loop.
//
// Slot states:
//
//	Idle      --Submit(q)-->        InFlight   (fetch q)
//	InFlight  --Submit(q)-->        Queued(q)
//	Queued(p) --Submit(q)-->        Queued(q)
//	InFlight  --OnResponse(ok)-->   Idle       (result applied)
//	InFlight  --OnResponse(err)-->  Idle       (result kept)
//	Queued(q) --OnResponse(_)-->    InFlight   (response dropped, fetch q)
//	any       --Submit("")-->       Idle       (result cleared)
//	any       --ForceRefetch(q)-->  InFlight   (fetch q, queue dropped)
//
// Every Fetch carries a sequence number. Only the newest issued fetch is
// recognized; a response for anything older (one superseded by ForceRefetch,
// or outstanding when the input was cleared) is dropped on arrival.
package session
