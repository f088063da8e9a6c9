// Package pullread turns arbitrary URLs into clean, structured article
// records: URL classification and normalization, a resilient fetch layer
// with typed error classification and archive fallback, per-content-type
// extraction (HTML boilerplate removal, PDF text reconstruction, video
// transcripts, academic papers), and browser-cookie based session state.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., readability/, pdf/, cookies/).
package pullread
