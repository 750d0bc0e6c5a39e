/*
Package ports defines the driven ports (interfaces) for the Charter wizard.

These interfaces decouple the booking flow from external implementations, allowing
the engine to work with various session backends, catalogs, renderers and messengers.

# Key Interfaces

  - SessionStore: Responsible for persisting and loading per-user Sessions.
  - Catalog: Read-only lookup of boats by name.
  - Renderer: Turns a completed Draft into a booking card document.
  - Journal: Append-only record of delivered bookings.
  - Sender: Delivers outbound Actions to a user.
  - EventHandler: Entry point transports call with inbound user events.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
