// Package vdom implements the virtual tree model and reconciliation core of
// Zylix: arena-owned node trees, the diff algorithm that turns two tree
// generations into an ordered patch list, the verdict and memo caches that
// let repeated comparisons short-circuit, and the Reconciler that drives one
// commit cycle.
//
// # Core Types
//
// VNode is one node of a declared UI tree; VTree is a capacity-bounded arena
// owning all VNodes of one render generation. Patch is a single mutation
// instruction against the rendered output, and DiffResult is the bounded
// ordered patch sequence produced by one pass. PatchBatch regroups a
// DiffResult into remove/create/update phases for safe ordered application.
//
// # Diffing
//
// Differ.Diff compares an old and a new VTree and emits patches in pre-order
// discovery order. Child reconciliation is positional for unkeyed children
// and identity-based for keyed children. A content-hash verdict cache skips
// comparisons already proven equal; hash matches are always confirmed by
// full equality before they count.
//
// # Ownership
//
// Trees, caches, and the Reconciler are explicitly constructed and owned by
// the embedding application; there is no process-wide default instance. A
// single Reconciler is single-threaded and needs no internal locking.
package vdom
