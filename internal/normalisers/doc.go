// Package normalisers turns fetched documents into plain text.
// Each normaliser handles specific MIME types; the Registry picks the
// highest-priority one for a document.
package normalisers
