/*
Package document implements the in-memory JSON tree that backs a LumeDB store.

A document is a plain map[string]any whose values are restricted to the
shapes produced by encoding/json: map[string]any, []any, string, float64,
bool and nil. Nested locations are addressed with dot-separated paths
("users.alice.tags"); every operation is a pure function over the tree and
performs no I/O.

# Path Semantics

Paths are split on "." with no escaping. Reads descend through maps only:
a missing segment, a non-map intermediate, or a missing terminal key all
report "absent" rather than an error. Writes create missing intermediate
maps on the way down and overwrite a non-map intermediate with a fresh map.
Deletes optionally prune ancestor maps that the removal left empty, walking
toward the root but never removing the root itself.

# Value Normalization

Values entering the tree go through Normalize, a JSON round trip that
rewrites arbitrary Go values into the canonical shapes above. This keeps the
in-memory tree indistinguishable from a freshly parsed file, makes deep
equality well defined (Unpush relies on it), and guarantees that a value
read back after a save/load cycle compares equal to the value written.
*/
package document
