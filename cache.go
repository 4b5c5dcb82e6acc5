package itss

// blockCache is a small, fixed-capacity, direct-mapped cache of decompressed
// blocks. Block n lives in slot n mod capacity; on collision the newcomer
// wins and the previous occupant of that slot is discarded. This is a pure
// hint — every caller can reproduce a missing block by decompressing it
// again — so the policy only needs to be cheap and correct under resize,
// not optimal.
//
// It is deliberately a separate structure from the "last decoded block"
// memo in the decompression driver: that memo is what keeps sequential
// reads independent of the cache's capacity and replacement behavior.
type blockCache struct {
	buffers []([]byte)
	indices []int64
	valid   []bool
}

func newBlockCache(capacity int) *blockCache {
	capacity = clampCacheCapacity(capacity)
	return &blockCache{
		buffers: make([][]byte, capacity),
		indices: make([]int64, capacity),
		valid:   make([]bool, capacity),
	}
}

func clampCacheCapacity(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxCacheBlocks {
		return maxCacheBlocks
	}
	return n
}

func (c *blockCache) capacity() int { return len(c.buffers) }

// lookup returns the cached buffer for block, or nil on a miss.
func (c *blockCache) lookup(block int64) []byte {
	if c.capacity() == 0 {
		return nil
	}
	idx := int(block % int64(c.capacity()))
	if idx < 0 {
		idx += c.capacity()
	}
	if c.valid[idx] && c.indices[idx] == block {
		return c.buffers[idx]
	}
	return nil
}

// install returns a buffer of size blockLen to decode block into,
// overwriting whatever previously occupied that slot. The slot's existing
// buffer is reused when present so that repeated decodes of colliding
// blocks do not keep reallocating.
func (c *blockCache) install(block int64, blockLen int64) []byte {
	if c.capacity() == 0 {
		return make([]byte, blockLen)
	}
	idx := int(block % int64(c.capacity()))
	if idx < 0 {
		idx += c.capacity()
	}
	if c.buffers[idx] == nil || int64(len(c.buffers[idx])) != blockLen {
		c.buffers[idx] = make([]byte, blockLen)
	}
	c.indices[idx] = block
	c.valid[idx] = true
	return c.buffers[idx]
}

// resize rehashes every currently valid entry into a fresh table of the
// given capacity. On a collision in the new table, the entry already
// placed there wins and the later one is dropped — the mirror image of
// install's "newcomer wins", because resize processes old slots in a fixed
// order rather than in recency order and there is no reason to prefer one
// displaced entry over another. Capacity is clamped to maxCacheBlocks; a
// capacity of zero frees every entry.
func (c *blockCache) resize(newCapacity int) {
	newCapacity = clampCacheCapacity(newCapacity)
	newBuffers := make([][]byte, newCapacity)
	newIndices := make([]int64, newCapacity)
	newValid := make([]bool, newCapacity)

	if newCapacity > 0 {
		for i := range c.buffers {
			if !c.valid[i] {
				continue
			}
			slot := int(c.indices[i] % int64(newCapacity))
			if slot < 0 {
				slot += newCapacity
			}
			if newValid[slot] {
				continue
			}
			newBuffers[slot] = c.buffers[i]
			newIndices[slot] = c.indices[i]
			newValid[slot] = true
		}
	}

	c.buffers = newBuffers
	c.indices = newIndices
	c.valid = newValid
}
