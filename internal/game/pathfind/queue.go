package pathfind

import "container/heap"

type item struct {
	cell     int
	priority int
	index    int
}

// frontier is a min-heap of cells keyed by priority.
type frontier []*item

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool { return f[i].priority < f[j].priority }

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	it := x.(*item)
	it.index = len(*f)
	*f = append(*f, it)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*f = old[:n-1]
	return it
}

func (f *frontier) push(cell, priority int) {
	heap.Push(f, &item{cell: cell, priority: priority})
}

func (f *frontier) pop() *item {
	return heap.Pop(f).(*item)
}
