// Command presskit-mcp is an MCP (Model Context Protocol) server that
// exposes press kit rendering to AI assistants over stdio.
//
// # Installation
//
//	go install github.com/lvillar/presskit/cmd/presskit-mcp@latest
//
// # Configuration
//
//	{
//	  "mcpServers": {
//	    "presskit": {
//	      "command": "presskit-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - render_presskit: Render a filled-in form to PDF
//   - list_variants: List the form variants
//   - describe_variant: Show the inputs and blocks of a variant
//   - read_presskit: Page count and text of a rendered PDF
//
// # Available Resources
//
//   - presskit://variants : Variant summaries
//   - presskit://variant?name=... : Variant definition
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lvillar/presskit/logging"
	"github.com/lvillar/presskit/mcp"
)

func main() {
	verbose := flag.Bool("v", false, "log tool calls to stderr")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr.
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	server := mcp.NewServer()

	mcp.RegisterDefaultTools(server)
	mcp.RegisterDefaultResources(server)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "presskit-mcp: %v\n", err)
		os.Exit(1)
	}
}
