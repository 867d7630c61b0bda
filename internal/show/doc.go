// Package show persists the telenovela pipeline entities in SQLite and
// exposes helpers for driving their lifecycle.
//
// The Store manages database connections, schema initialization, the
// project ownership tree (cascade deletes flow from projects down to
// dialogue lines and generated media), validated state transitions, and
// stuck-entity recovery. The step gate computes whether a project may
// unlock its next pipeline step from the aggregate state of its
// descendants; no separate readiness flag is persisted, so the gate can
// never drift from the entity states.
//
// Treat this package as the single source of truth for pipeline semantics;
// when you add new entity families or states, update schema.sql and bump
// schemaVersion.
package show
