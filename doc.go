// Package statetree implements a hierarchical, permission-gated key/value
// store: a tree of named fields addressed by colon-delimited paths, where
// each field independently declares whether it is readable and/or writable.
//
// Responsibilities:
//   - Tree owns an ordered field mapping plus one default policy; explicit
//     per-field permissions override the default on that node only, and
//     every nested node applies its own policy to its own fields.
//   - Read/Find walk paths left to right, checking read permission at each
//     node segment and resolving producer functions transparently. Absent
//     keys degrade to nil; permission violations never do.
//   - Write resolves the parent with full read semantics, requires write
//     permission on the terminal field, and mutates in place. Failure occurs
//     before any mutation.
//   - Entries produces the permission-filtered JSON-compatible snapshot,
//     the tree's only wire format. Entries does not invoke producers; only
//     Read does. The asymmetry is kept as-is because consumers may depend
//     on either behaviour.
//
// Path segments must not contain the ':' separator; no escaping scheme
// exists and a segment containing the separator is silently misparsed.
//
// A tree is logically single-owner. Operations are synchronous traversals
// with no internal locking; callers sharing an instance across goroutines
// must serialize access themselves.
package statetree
