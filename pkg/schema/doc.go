// Package schema defines the step/field document that drives a multi-step
// form. A Schema is an ordered list of Steps; each Step holds an ordered list
// of Fields. Fields form a tree through the `group` type, and every field is
// addressed by its dotted path (ancestor group keys followed by its own key).
// The last step of a schema is reserved for the review screen and carries no
// editable fields of its own.
//
// Schemas are loaded once (Parse, LoadFile, LoadFS) from JSON or YAML and are
// treated as read-only afterwards. Check lints a schema for authoring
// mistakes such as duplicate sibling keys or dependencies on unknown paths.
package schema
