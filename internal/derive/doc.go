// Package derive generates Go builders and String methods from a TOML struct schema.
//
// A builder `<Name>Builder` has one setter per field and a Build method that
// fails on unset required fields. Pointer fields are optional, slice fields
// default to empty and may get a per-element appender through `each`.
package derive
