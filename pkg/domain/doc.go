/*
Package domain contains the core domain models of the Charter booking wizard.

It defines the entities the wizard works with: the boat Catalog entries, the
per-user Session with its accumulating Draft, the inbound Event and outbound
Action contracts, and the Flow configuration that selects between the wizard
variants. This package is kept pure and free of I/O, following the Hexagonal
Architecture principles of the rest of the module.

# Key Entities

  - Boat / Captain: read-only catalog data, loaded once at startup.
  - Draft: the booking record, filled one step at a time.
  - Session: the pairing of the current Step and the Draft for one user.
  - Event: what the transport received (command, text, button).
  - Action: what the transport should send back (text, buttons, photo, document).
*/
package domain
