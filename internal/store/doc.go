// Package store persists templates, episodes, milestones, content versions,
// feedback, stories and topic proposals in a single SQLite database.
//
// The schema is embedded and gated by a schema_version row. Writes that span
// rows (milestone batches, version saves, reschedules) run in one transaction
// and the whole transaction is retried when SQLite reports the database busy.
// Lookups of missing rows return errors carrying services.ErrNotFound.
package store
