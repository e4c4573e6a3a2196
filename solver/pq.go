package solver

import "github.com/pflow-xyz/go-npuzzle/board"

// node is a frontier entry: a board, its cost-so-far, its priority and the
// move path that produced it. seq is an insertion counter used to break
// priority ties FIFO, which keeps expansion order deterministic.
type node struct {
	b     board.Board
	g     int
	f     int
	seq   uint64
	moves []board.Move
	index int
}

type frontier []*node

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q frontier) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *frontier) Push(x any) {
	item := x.(*node)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
