// Package order holds the Order aggregate of the production pipeline: its stages, the
// per-role assignment slots, the finishing checklist and the write-once stage timestamps.
//
// Writes to an order are expressed as an Expectation (what must still hold at commit time)
// paired with a Patch (the fields that change). The workflow engine produces both; stores
// apply them atomically.
package order
