package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/pflow-xyz/go-npuzzle/chain"
	"github.com/pflow-xyz/go-npuzzle/runlog"
	"github.com/pflow-xyz/go-npuzzle/solver"
	"github.com/pflow-xyz/go-npuzzle/storage"
)

func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	startURL := fs.String("url", "", "First puzzle URL of the chain (required)")
	dbPath := fs.String("db", "", "Record solves to this SQLite database")
	logPath := fs.String("log", "", "Append solve records to this JSONL file")
	timeout := fs.Duration("timeout", 30*time.Second, "Per-request HTTP timeout")
	maxPuzzles := fs.Int("max", 0, "Stop after this many puzzles (0 = follow the chain to the end)")
	maxExpand := fs.Int("max-expand", 0, "Per-puzzle expansion budget (0 = unlimited)")
	quiet := fs.Bool("quiet", false, "Suppress progress logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: npuzzle run --url <first-puzzle-url> [options]

Walk a puzzle chain: fetch each page, solve the embedded board, submit the
moves, and follow the next link until the chain ends.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *startURL == "" {
		fs.Usage()
		return fmt.Errorf("--url required")
	}

	opts := []chain.RunnerOption{chain.WithMaxPuzzles(*maxPuzzles)}
	if !*quiet {
		opts = append(opts, chain.WithLogger(log.New(os.Stderr, "", log.LstdFlags)))
	}
	if *maxExpand > 0 {
		opts = append(opts, chain.WithSolveOptions(solver.WithMaxExpansions(*maxExpand)))
	}

	if *dbPath != "" {
		store, err := storage.Open(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, chain.WithRecorder(store))
	}
	if *logPath != "" {
		w, f, err := runlog.OpenFile(*logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		opts = append(opts, chain.WithRecorder(w))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := chain.NewRunner(chain.NewClient(*timeout), opts...)
	sum, err := runner.Run(ctx, *startURL)
	if err != nil {
		return err
	}

	fmt.Printf("session %s: %d puzzles, %d moves, %d nodes expanded in %s\n",
		sum.Session, sum.Puzzles, sum.Moves, sum.Expanded, sum.Duration.Round(time.Millisecond))
	if sum.FinalNote != "" {
		fmt.Println(sum.FinalNote)
	}
	return nil
}
