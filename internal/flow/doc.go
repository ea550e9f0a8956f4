// Package flow implements the flow editor state machine
//
// An Editor owns exactly one Store holding the ordered collection of flow
// items. All mutations run on the editor's serial loop and reach the store
// through Replace, which rejects sequences that break ID uniqueness. The
// Reorder and Insert operations compute full replacement sequences, and the
// preview projection is re-derived from every change event the store raises
package flow
