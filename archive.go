package itss

import "io"

// Handle is an open ITSS archive. It owns the byte source, the parsed
// headers and directory, the optional compression context, and the block
// cache. A Handle is not safe for concurrent use — callers needing
// concurrency must either serialize access externally or open one Handle
// per goroutine.
type Handle struct {
	src ByteSource

	itsf *itsfHeader
	itsp *itspHeader

	entries []Entry
	byPath  map[string]int

	compressionEnabled bool
	meta                *compressionMetadata
	codec               LZXCodec
	decomp              *decompressor

	cache *blockCache
}

// Open parses the archive headers and directory from src and, if the
// archive carries a compressed content stream, loads its LZX metadata.
// codec may be nil when the archive is known to contain no compressed
// entries; a compressed read against a nil codec simply yields zero bytes,
// the same as any other NOT_APPLICABLE case. On any failure, Open tears
// down everything it acquired and returns an error — the returned *Handle
// is always nil in that case.
func Open(src ByteSource, codec LZXCodec) (*Handle, error) {
	h := &Handle{src: src, codec: codec}

	itsf, err := parseITSFHeader(src)
	if err != nil {
		h.Close()
		return nil, err
	}
	h.itsf = itsf

	itsp, err := parseITSPHeader(src, itsf.DirOffset)
	if err != nil {
		h.Close()
		return nil, err
	}
	h.itsp = itsp

	entries, err := parseDirectory(src, itsf, itsp)
	if err != nil {
		h.Close()
		return nil, err
	}
	h.entries = entries
	h.byPath = make(map[string]int, len(entries))
	for i, e := range entries {
		h.byPath[e.Path] = i
	}

	if meta, ok := loadCompressionMetadata(src, itsf, entries); ok && codec != nil {
		h.meta = meta
		h.compressionEnabled = true
	}

	h.cache = newBlockCache(defaultCacheBlocks)
	if h.compressionEnabled {
		h.decomp = newDecompressor(h.src, h.itsf, h.meta, h.codec, h.cache)
	}

	dbgf("open: %d entries, compression_enabled=%v", len(entries), h.compressionEnabled)
	return h, nil
}

// Close tears down the LZX state (if any) and releases the byte source if
// it implements io.Closer. Close on a partially-initialized or already
// closed Handle is safe.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	if h.decomp != nil {
		h.decomp.teardown()
	}
	h.cache = nil
	h.entries = nil
	h.byPath = nil

	if c, ok := h.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Entries returns the archive's directory in enumeration order. The
// returned slice must not be mutated.
func (h *Handle) Entries() []Entry {
	return h.entries
}

// Lookup returns the entry at path and whether it was found.
func (h *Handle) Lookup(path string) (Entry, bool) {
	i, ok := h.byPath[path]
	if !ok {
		return Entry{}, false
	}
	return h.entries[i], true
}

// CompressionEnabled reports whether the archive's compressed content
// stream is usable. It is false when any of the three reserved
// compression-metadata entries is missing or fails to parse, or when Open
// was called without an LZXCodec.
func (h *Handle) CompressionEnabled() bool {
	return h.compressionEnabled
}

// SetCacheSize changes the decompressed-block cache's capacity, clamped to
// [0, maxCacheBlocks]. Shrinking or growing the cache never affects read
// correctness, only how often a block must be re-decoded.
func (h *Handle) SetCacheSize(n int) {
	h.cache.resize(n)
}

// Read fills buf with up to len(buf) bytes of entry e's content starting
// at offset, returning the number of bytes actually produced. It never
// returns an error: any failure — entry bounds, disabled compression, a
// malformed archive, a decompression fault — collapses to a short or zero
// result, per the format's error-handling design. offset and len(buf) are
// clipped to the entry's length before the underlying read or decompress
// call is made.
func (h *Handle) Read(e Entry, offset int64, buf []byte) int {
	if offset < 0 || offset >= e.Length {
		return 0
	}
	length := int64(len(buf))
	if offset+length > e.Length {
		length = e.Length - offset
	}
	buf = buf[:length]

	if e.Space == Uncompressed {
		return readUpTo(h.src, buf, int64(h.itsf.DataOffset)+e.Start+offset)
	}

	if !h.compressionEnabled {
		return 0
	}

	var total int
	for length > 0 {
		n, err := h.decomp.decompressRegion(buf, e.Start+offset, length)
		if err != nil || n == 0 {
			dbgf("read: decompress_region failed at entry=%q offset=%d: %v", e.Path, offset, err)
			return total
		}
		total += n
		length -= int64(n)
		offset += int64(n)
		buf = buf[n:]
	}
	return total
}

// ReadAll reads an entry's full contents into a freshly allocated slice.
// It is a convenience built on Read, not part of the core read path: any
// short read (a malformed archive, a disabled compressed stream) yields a
// correspondingly short slice rather than an error.
func (h *Handle) ReadAll(e Entry) []byte {
	buf := make([]byte, e.Length)
	n := h.Read(e, 0, buf)
	return buf[:n]
}
