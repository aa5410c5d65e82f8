// Package rag builds per-document semantic indexes and answers questions
// against them.
//
// Builder normalises fetched bytes, chunks them through the post-processor
// pipeline, embeds every chunk and loads the vectors into an HNSW graph.
// Engine retrieves the closest chunks for a query and synthesises an answer
// with the LLM, either in one call (compact) or by answering groups of chunks
// and merging the partial answers level by level (tree_summarize).
package rag
