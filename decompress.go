package itss

// decompressor drives the LZX codec across sequential and random access
// reads of the compressed content stream. It owns the one-slot "last
// decoded block" memo, the LZX state (created lazily on first use), and a
// reference to the shared block cache.
type decompressor struct {
	src  ByteSource
	itsf *itsfHeader
	meta *compressionMetadata

	codec LZXCodec
	state LZXState

	cache     *blockCache
	lastBlock int64
	lastBuf   []byte
}

func newDecompressor(src ByteSource, itsf *itsfHeader, meta *compressionMetadata, codec LZXCodec, cache *blockCache) *decompressor {
	return &decompressor{
		src:       src,
		itsf:      itsf,
		meta:      meta,
		codec:     codec,
		cache:     cache,
		lastBlock: -1,
	}
}

func (d *decompressor) teardown() {
	if d.state != nil {
		d.state.Teardown()
		d.state = nil
	}
}

func (d *decompressor) ensureState() error {
	if d.state != nil {
		return nil
	}
	state, err := d.codec.Init(windowBitsFromSize(d.meta.windowSize))
	if err != nil {
		return newErr(KindOOM, "ensureState", "", err)
	}
	d.state = state
	d.lastBlock = -1
	return nil
}

// uncompressBlock returns the decompressed contents of block, decoding it
// fresh unless it is already the memoized last-decoded block. It does not
// attempt to satisfy the LZX history requirement on its own — callers must
// ensure the blocks since the last reset have already been decoded, via
// decompressBlock.
func (d *decompressor) uncompressBlock(block int64) ([]byte, error) {
	if block == d.lastBlock {
		return d.lastBuf, nil
	}

	blockLen := d.meta.resetTable.BlockLen
	if block%d.meta.resetBlkCount == 0 {
		d.state.Reset()
	}

	scratch := make([]byte, blockLen+lzxInputSlack)
	dst := d.cache.install(block, blockLen)

	cmpStart, cmpLen, err := compressedBlockBounds(d.src, d.itsf, d.meta, block)
	if err != nil {
		return nil, err
	}

	n := readUpTo(d.src, scratch[:cmpLen], cmpStart)
	if int64(n) != cmpLen {
		return nil, newErr(KindIO, "uncompressBlock", "", errShortBuffer)
	}

	if status := d.state.Decompress(scratch[:cmpLen], dst); status != LZXStatusOK {
		return nil, newErr(KindDecompress, "uncompressBlock", "", errDecompressFailed)
	}

	d.lastBlock = block
	d.lastBuf = dst
	return dst, nil
}

// decompressBlock decodes block, first replaying whatever history LZX
// needs since the last reset boundary. block's reset-aligned predecessors
// are decoded in order unless the last-decoded-block memo already covers
// part of that span, in which case only the gap since the memo is redone.
func (d *decompressor) decompressBlock(block int64) ([]byte, error) {
	align := block % d.meta.resetBlkCount

	if block-align <= d.lastBlock && block >= d.lastBlock {
		align = block - d.lastBlock
	}

	for i := align; i > 0; i-- {
		if _, err := d.uncompressBlock(block - i); err != nil {
			return nil, err
		}
	}
	return d.uncompressBlock(block)
}

// decompressRegion copies up to len(buf) bytes of decompressed content
// starting at the logical offset start (measured in the compressed
// space's uncompressed coordinates) into buf, clipped to a single block's
// worth of data. It returns the number of bytes actually copied.
func (d *decompressor) decompressRegion(buf []byte, start int64, length int64) (int, error) {
	if length <= 0 {
		return 0, nil
	}
	blockLen := d.meta.resetTable.BlockLen
	block := start / blockLen
	off := start % blockLen
	n := length
	if n > blockLen-off {
		n = blockLen - off
	}

	if cached := d.cache.lookup(block); cached != nil {
		copy(buf[:n], cached[off:off+n])
		return int(n), nil
	}

	if err := d.ensureState(); err != nil {
		return 0, err
	}

	data, err := d.decompressBlock(block)
	if err != nil {
		return 0, err
	}
	copy(buf[:n], data[off:off+n])
	return int(n), nil
}
