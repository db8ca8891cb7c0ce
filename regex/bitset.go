package regex

import (
	"encoding/binary"
	"math/bits"
	"strings"
)

// bitset is a set of positions.
type bitset struct {
	words []uint64
}

func newBitset(size int) *bitset {
	return &bitset{words: make([]uint64, (size+63)/64)}
}

func (b *bitset) set(i int) {
	b.grow(i)
	b.words[i/64] |= 1 << (i % 64)
}

func (b *bitset) has(i int) bool {
	w := i / 64
	return w < len(b.words) && b.words[w]&(1<<(i%64)) != 0
}

func (b *bitset) or(other *bitset) {
	if other == nil {
		return
	}
	if len(other.words) > len(b.words) {
		b.grow(len(other.words)*64 - 1)
	}
	for i, w := range other.words {
		b.words[i] |= w
	}
}

func (b *bitset) grow(i int) {
	if need := i/64 + 1; need > len(b.words) {
		b.words = append(b.words, make([]uint64, need-len(b.words))...)
	}
}

func (b *bitset) forEach(f func(int)) {
	for i, w := range b.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			f(i*64 + bit)
			w &^= 1 << bit
		}
	}
}

func (b *bitset) slice() []int {
	var out []int
	b.forEach(func(p int) { out = append(out, p) })
	return out
}

// key identifies the set by content, trailing zero words are ignored so that
// equal sets of different capacity share a key.
func (b *bitset) key() string {
	n := len(b.words)
	for n > 0 && b.words[n-1] == 0 {
		n--
	}
	var sb strings.Builder
	sb.Grow(n * 8)
	var buf [8]byte
	for _, w := range b.words[:n] {
		binary.LittleEndian.PutUint64(buf[:], w)
		_, _ = sb.Write(buf[:])
	}
	return sb.String()
}
