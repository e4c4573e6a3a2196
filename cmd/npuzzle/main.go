package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "solve":
		if err := solve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "run":
		if err := run(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "stats":
		if err := stats(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("npuzzle version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`npuzzle - sliding-tile puzzle solver and challenge-chain runner

Usage:
  npuzzle <command> [options]

Commands:
  solve      Solve a single board and print the move sequence
  run        Walk a remote puzzle chain, solving and submitting each board
  serve      Host a local practice chain server
  stats      Summarize recorded runs from a results database or run log
  help       Show this help message
  version    Show version information

Examples:
  # Solve a board literal
  npuzzle solve "[[1,2,3,4],[5,6,7,8],[9,10,11,0],[13,14,15,12]]"

  # Walk a remote chain, recording results
  npuzzle run --url http://challenge.example/start --db runs.db

  # Host a practice chain and point the runner at it
  npuzzle serve --addr :8080 --size 4 --count 10

  # Summarize recorded runs
  npuzzle stats --db runs.db

For command-specific help, run:
  npuzzle <command> --help`)
}
