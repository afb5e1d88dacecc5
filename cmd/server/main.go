// Package main is the entry point for the midi2song API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/midi2song/pkg/api"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	soundFont := flag.String("soundfont", "", "Default soundfont for imported instrument tracks")
	patchDir := flag.String("patch-dir", "", "Directory searched for NNN*.pat resources on program changes")
	flag.Parse()

	fmt.Printf("Starting midi2song API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	cfg := api.Config{SoundFontPath: *soundFont, PatchDir: *patchDir}
	if err := api.StartServer(*port, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
