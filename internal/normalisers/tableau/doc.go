// Package tableau normalises raw platform payloads into canonical
// metadata records ready for quality checks, storage and embedding.
//
// Record builders are pure functions of their inputs: the same payload
// always produces the same record, including its text blob. Downstream
// change detection depends on that determinism.
package tableau
