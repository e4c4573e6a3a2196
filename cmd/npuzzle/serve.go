package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/pflow-xyz/go-npuzzle/server"
)

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "Listen address")
	size := fs.Int("size", 4, "Board side length")
	count := fs.Int("count", 5, "Puzzles per chain")
	shuffle := fs.Int("shuffle", 30, "Scramble walk length per puzzle")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: npuzzle serve [options]

Host a local practice chain. POST /chain starts a session; each puzzle page
embeds its board literal and accepts move submissions at the same URL.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *size < 2 {
		return fmt.Errorf("--size must be at least 2")
	}
	if *count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	srv := server.New(
		server.WithSize(*size),
		server.WithCount(*count),
		server.WithShuffle(*shuffle),
		server.WithLogger(logger),
	)

	logger.Printf("practice chain listening on %s (size %d, %d puzzles per chain)", *addr, *size, *count)
	return http.ListenAndServe(*addr, srv.Handler())
}
