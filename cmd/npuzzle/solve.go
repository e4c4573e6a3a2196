package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pflow-xyz/go-npuzzle/board"
	"github.com/pflow-xyz/go-npuzzle/solver"
)

func solve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	file := fs.String("file", "", "Read the board from a file instead of the argument ('-' for stdin)")
	maxExpand := fs.Int("max-expand", 0, "Abort after this many node expansions (0 = unlimited)")
	quiet := fs.Bool("quiet", false, "Print only the move letters")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: npuzzle solve [options] [board]

Solve one sliding-tile board and print a minimal move sequence.
The board is a grid literal like [[1,2],[3,0]] or whitespace rows.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	input, err := boardInput(fs, *file)
	if err != nil {
		return err
	}
	b, err := board.Parse(input)
	if err != nil {
		return err
	}

	var opts []solver.Option
	if *maxExpand > 0 {
		opts = append(opts, solver.WithMaxExpansions(*maxExpand))
	}

	res, err := solver.Solve(b, opts...)
	if err != nil {
		return err
	}

	fmt.Println(board.FormatMoves(res.Moves))
	if !*quiet {
		fmt.Printf("%d moves, %d nodes expanded, %s\n",
			len(res.Moves), res.Expanded, res.Duration.Round(time.Microsecond))
	}
	return nil
}

func boardInput(fs *flag.FlagSet, file string) (string, error) {
	switch {
	case file == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read board file: %w", err)
		}
		return string(data), nil
	case fs.NArg() > 0:
		return fs.Arg(0), nil
	}
	fs.Usage()
	return "", fmt.Errorf("board required")
}
