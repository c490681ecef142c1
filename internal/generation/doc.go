// Package generation provides the prompt-analysis heuristics and the
// interfaces for interacting with external AI services. It abstracts the
// details of the text and image backends, allowing the pipeline to turn a
// free-text property description into brochure copy and images without
// coupling to specific external services.
package generation
