// Package store persists shipment records and the carrier registry in a
// single SQLite database. One row per bill of lading; re-tracking a shipment
// overwrites its row. The schema is migrated additively on open so databases
// written by older releases keep working.
package store
