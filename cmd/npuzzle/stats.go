package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pflow-xyz/go-npuzzle/runlog"
	"github.com/pflow-xyz/go-npuzzle/storage"
)

func stats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite results database to summarize")
	logPath := fs.String("log", "", "JSONL run log to summarize")
	sessionID := fs.String("session", "", "Show per-puzzle detail for one session (with --db)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: npuzzle stats [--db runs.db | --log runs.jsonl]

Summarize recorded chain runs.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *dbPath != "":
		return dbStats(*dbPath, *sessionID)
	case *logPath != "":
		return logStats(*logPath)
	}
	fs.Usage()
	return fmt.Errorf("--db or --log required")
}

func dbStats(path, sessionID string) error {
	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if sessionID != "" {
		solves, err := store.Solves(sessionID)
		if err != nil {
			return err
		}
		if len(solves) == 0 {
			return fmt.Errorf("no solves recorded for session %s", sessionID)
		}
		for _, rec := range solves {
			status := "ok"
			if !rec.Solved {
				status = "rejected"
			}
			fmt.Printf("%3d  %-8s %4d moves  %8d expanded  %8s  %s\n",
				rec.Seq, status, rec.Length, rec.Expanded,
				rec.Duration.Round(time.Millisecond), rec.Board)
		}
		return nil
	}

	sessions, err := store.Sessions()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions recorded")
		return nil
	}
	fmt.Printf("%-36s  %-19s  %7s  %7s  %9s  %9s\n",
		"SESSION", "STARTED", "PUZZLES", "MOVES", "AVG MOVES", "AVG NODES")
	for _, st := range sessions {
		fmt.Printf("%-36s  %-19s  %7d  %7d  %9.1f  %9.1f\n",
			st.ID, st.StartedAt.Format("2006-01-02 15:04:05"),
			st.Puzzles, st.TotalMoves, st.AvgMoves, st.AvgExpanded)
	}
	return nil
}

func logStats(path string) error {
	records, err := runlog.ReadFile(path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("run log is empty")
		return nil
	}

	bySession := make(map[string]int)
	totalMoves, totalExpanded := 0, 0
	var totalTime time.Duration
	for _, rec := range records {
		bySession[rec.Session]++
		totalMoves += rec.Length
		totalExpanded += rec.Expanded
		totalTime += rec.Duration
	}

	fmt.Printf("%d solves across %d sessions\n", len(records), len(bySession))
	fmt.Printf("%d moves, %d nodes expanded, %s solving time\n",
		totalMoves, totalExpanded, totalTime.Round(time.Millisecond))
	fmt.Printf("%.1f moves per puzzle on average\n", float64(totalMoves)/float64(len(records)))
	return nil
}
