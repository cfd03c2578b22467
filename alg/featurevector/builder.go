package featurevector

import "sort"

// Builder assembles a binary feature vector block by block. Each block
// reserves a range of indices; ids inside a block are 1-based and the
// first block starts at index 1, leaving 0 for the bias.
type Builder struct {
	Indices []int
	begin   int
}

func NewBuilder() *Builder {
	return &Builder{Indices: make([]int, 0, 64), begin: 1}
}

// Add records id of the current block, ids < 1 are ignored.
func (b *Builder) Add(id int) {
	if id > 0 {
		b.Indices = append(b.Indices, b.begin+id-1)
	}
}

// AddSet records several ids of the current block in ascending order.
func (b *Builder) AddSet(ids []int) {
	sorted := make([]int, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			sorted = append(sorted, id)
		}
	}
	sort.Ints(sorted)
	for _, id := range sorted {
		b.Add(id)
	}
}

// Skip closes the current block of the given size.
func (b *Builder) Skip(size int) {
	b.begin += size
}

// Begin returns the first index of the current block.
func (b *Builder) Begin() int {
	return b.begin
}

func (b *Builder) Vector() []int {
	return b.Indices
}
