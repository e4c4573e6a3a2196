package chain

import (
	"errors"
	"testing"

	"github.com/pflow-xyz/go-npuzzle/board"
)

func TestExtractBoard(t *testing.T) {
	page := `<!DOCTYPE html>
<html><body>
<h1>Puzzle 3 of 10</h1>
<pre id="board">[[1,2,3,4],[5,6,7,8],[9,10,11,0],[13,14,15,12]]</pre>
</body></html>`

	b, err := ExtractBoard(page)
	if err != nil {
		t.Fatalf("ExtractBoard: %v", err)
	}
	want := board.MustParse("[[1,2,3,4],[5,6,7,8],[9,10,11,0],[13,14,15,12]]")
	if !b.Equals(want) {
		t.Errorf("extracted wrong board:\n%s", b)
	}
}

func TestExtractBoardSkipsDecoys(t *testing.T) {
	// Earlier bracket spans that are not valid grids must be skipped.
	page := `var scores = [[1,a],[2,b]];
var ragged = [[1,2],[3]];
var real = [[1,2],[3,0]];`

	b, err := ExtractBoard(page)
	if err != nil {
		t.Fatalf("ExtractBoard: %v", err)
	}
	if !b.Equals(board.MustParse("[[1,2],[3,0]]")) {
		t.Errorf("extracted wrong board:\n%s", b)
	}
}

func TestExtractBoardWhitespace(t *testing.T) {
	page := "board = [[1, 2],\n         [3, 0]]"
	b, err := ExtractBoard(page)
	if err != nil {
		t.Fatalf("ExtractBoard: %v", err)
	}
	if b.Size() != 2 {
		t.Errorf("Size = %d, want 2", b.Size())
	}
}

func TestExtractBoardMissing(t *testing.T) {
	cases := []string{
		"",
		"<html><body>nothing here</body></html>",
		"almost: [[1,2],[3,4]]",      // not a permutation
		"open ended: [[1,2],[3,0",    // unbalanced
		"function call: [[f(1),2]]",  // non-grid characters
	}
	for _, page := range cases {
		if _, err := ExtractBoard(page); !errors.Is(err, ErrNoBoard) {
			t.Errorf("ExtractBoard(%q) err = %v, want ErrNoBoard", page, err)
		}
	}
}
