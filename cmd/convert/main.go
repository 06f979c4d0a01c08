// Convert prints the Markdown form of a saved wiki page.
//
// Usage: convert [file.html]
//
// Reads standard input when no file is given.
package main

import (
	"fmt"
	"io"
	"os"

	"scpterm/document"
)

func main() {
	var in io.Reader = os.Stdin
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	doc, err := document.ExtractReader(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(doc.String())
}
