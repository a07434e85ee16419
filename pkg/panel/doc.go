// Package panel is the session context of the control panel: it owns the
// droplet cache, committed metadata, the OS/version picker and the current
// selection, and exposes the operations a presentation layer drives.
//
// Every operation returns data or a typed error and never renders anything.
// Failures are scoped to the call that produced them; cached state is left
// at its last successful value.
//
// Overlapping droplet refreshes are sequenced: each refresh takes a ticket
// when it is issued, and a response is only committed if no newer refresh
// has been committed before it lands.
package panel
