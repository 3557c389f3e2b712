// Package fill routes box filling to the mechanism the box type
// demands.
//
// Drag boxes are filled by running a crawl session against their
// configured seed URL. Rag and bag boxes are filled by importing
// files from the local filesystem. The Service resolves the box,
// picks the mechanism, and returns one result shape for all three
// types so the CLI can report uniformly.
package fill
