// Package main provides the entry point for the bablib CLI.
//
// bablib organizes documentation into shelves of typed boxes and
// fills them by crawling documentation sites or importing local
// files.
//
// Usage:
//
//	bablib shelf create <name>
//	bablib box create <shelf> <name> --type drag --url <seed-url>
//	bablib fill <box>
//
// See --help for all available options.
package main

// main is the entry point for bablib.
func main() {
	Execute()
}
