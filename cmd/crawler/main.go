// Package main provides the entry point for the Site Weaver CLI.
//
// Site Weaver crawls a website breadth-first from a seed URL, level by level,
// and writes the link graph it discovers to a GEXF file.
//
// Usage:
//
//	site-weaver --start-url https://example.com/ --max-depth 2 --output graph.gexf
//
// See --help for all available options.
package main

func main() {
	Execute()
}
