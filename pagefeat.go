// Package pagefeat extracts the features of a web page from its HTML. A remote
// language model reads the page and reports interactive Actions and read-only
// Information through a single forced tool call; this package holds the
// result types, the schema the model fills in, and the rules a result must
// satisfy before it is accepted.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., gemini/, openai/, jsonschema/, rod/).
package pagefeat
