// Package model defines the typed data shared by the collection engine, the
// renderers and the schema loaders. A Definition lists the ordered
// FieldSchema entries of a repeatable row; the ordinal position of a schema
// inside that slice is what reorder operations match on. Identifiers are
// never stored: FieldID and FieldName derive them from a row index on demand,
// so a row that moves simply reports new identifiers. ReindexID and
// ReindexName exist for hosts that still hold identifier strings captured
// before a mutation and need to translate them.
package model
