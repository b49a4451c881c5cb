// Package xq implements the exchange queue: cross-session task handoff
// over a shared Vikunja project used as a mailbox.
//
// The queue projects a three-state lifecycle onto the project's kanban
// board: items arrive in the Handoff bucket, a session claims one into
// Review, and completion files it into Filed with its destination
// recorded. Ownership is encoded as a marker line in the task
// description, since Vikunja has no native claim field. All shared state
// lives on the remote service; the queue keeps nothing locally and holds
// no locks. Concurrent claimers are resolved by writing the marker and
// re-reading: the session whose marker survives owns the task, the other
// gets LostRace.
package xq
