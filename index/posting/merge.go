package posting

import (
	"container/heap"
)

// unionK merges k ascending duplicate-free lists into one using a min-heap
// over the list heads. Each pop emits the globally smallest pending id;
// consecutive duplicates across lists collapse on emit.
func unionK(lists [][]uint32) []uint32 {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	out := make([]uint32, 0, total)

	h := make(listHeap, 0, len(lists))
	for _, l := range lists {
		h = append(h, l)
	}
	heap.Init(&h)

	for h.Len() > 0 {
		l := h[0]
		id := l[0]
		if n := len(out); n == 0 || out[n-1] != id {
			out = append(out, id)
		}
		if len(l) > 1 {
			h[0] = l[1:]
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}
	return out
}

// listHeap orders non-empty ascending lists by their head id.
type listHeap [][]uint32

func (h listHeap) Len() int           { return len(h) }
func (h listHeap) Less(i, j int) bool { return h[i][0] < h[j][0] }
func (h listHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *listHeap) Push(x any) {
	*h = append(*h, x.([]uint32))
}

func (h *listHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
