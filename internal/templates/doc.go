// Package templates defines workflow templates: named, ordered sets of
// milestone offsets keyed by timeline type.
//
// A template never carries dates. Each offset is a signed day count relative
// to an episode's TX date; the schedule package turns offsets into deadlines.
// Templates are validated on every write and when a YAML catalog is loaded, so
// the scheduler can assume well-formed input.
//
// The built-in catalog (builtin.yaml) seeds an empty store with one default
// template per timeline type.
package templates
