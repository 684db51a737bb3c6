// Command contentops is the operator CLI for the contentops workflow engine.
//
// Commands work directly against the workflow database named by the
// configuration, so they are usable with or without a running daemon:
// scheduling episodes, moving milestones along, saving and approving content,
// resolving feedback and turning flagged stories into topic proposals. The
// daily proposal run is `contentops clusters generate` from cron.
//
// `contentops serve` runs the HTTP daemon in the foreground. Every listing
// accepts --json and prints the same camelCase payloads as the HTTP API.
package main
