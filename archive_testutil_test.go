package itss

import "encoding/binary"

var int32NegOne = int32(-1)

// testEntrySpec describes one entry to bake into a synthetic archive built
// by buildArchive. For an Uncompressed entry, content is written verbatim
// into the archive's data region and start is computed automatically. For
// a Compressed entry, content's bytes are not written anywhere (they live
// inside the reserved Content entry's stream instead) and only len(content)
// is used, as the entry's length; start is used as given — callers set it
// to the entry's logical offset into the decompressed content stream.
type testEntrySpec struct {
	path    string
	space   Space
	start   int64
	content []byte
}

// passthroughCodec is a stand-in LZX implementation for tests: it treats
// "decompression" as a byte-for-byte copy, so the archive builder can
// fabricate compressed blocks by writing the expected plaintext directly
// into the content stream. This lets the decompression driver, the reset
// table resolver, and the cache be exercised without a real LZX decoder,
// which this package treats as an external dependency it never ships.
type passthroughCodec struct{}

func (passthroughCodec) Init(windowBits int) (LZXState, error) {
	return &passthroughState{}, nil
}

type passthroughState struct{ resets int }

func (s *passthroughState) Reset() { s.resets++ }

func (s *passthroughState) Decompress(in, out []byte) LZXStatus {
	n := copy(out, in)
	if n != len(out) {
		return LZXStatusError
	}
	return LZXStatusOK
}

func (s *passthroughState) Teardown() {}

func le32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func le64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }

func appendLE32(buf []byte, v uint32) []byte {
	var b [4]byte
	le32(b[:], v)
	return append(buf, b[:]...)
}

func appendLE64(buf []byte, v uint64) []byte {
	var b [8]byte
	le64(b[:], v)
	return append(buf, b[:]...)
}

// appendCword encodes v as a big-endian base-128 varint: the minimum number
// of 7-bit groups, most-significant first, with the continuation bit set
// on every group but the last.
func appendCword(buf []byte, v int64) []byte {
	var groups []byte
	groups = append(groups, byte(v&0x7f))
	v >>= 7
	for v > 0 {
		groups = append(groups, byte(v&0x7f)|0x80)
		v >>= 7
	}
	for i := len(groups) - 1; i >= 0; i-- {
		buf = append(buf, groups[i])
	}
	return buf
}

func encodePMGLEntry(path string, space Space, start, length int64) []byte {
	var rec []byte
	rec = appendCword(rec, int64(len(path)))
	rec = append(rec, path...)
	sp := int64(0)
	if space == Compressed {
		sp = 1
	}
	rec = appendCword(rec, sp)
	rec = appendCword(rec, start)
	rec = appendCword(rec, length)
	return rec
}

// buildPMGLPage encodes a single directory page containing recs, zero-
// padded out to blockLen with a matching free_space trailer.
func buildPMGLPage(blockLen uint32, recs []byte, blockPrev, blockNext int32) []byte {
	page := make([]byte, 0, blockLen)
	page = append(page, "PMGL"...)
	freeSpace := int(blockLen) - pmglLen - len(recs)
	page = appendLE32(page, uint32(freeSpace))
	page = appendLE32(page, 0)
	page = appendLE32(page, uint32(blockPrev))
	page = appendLE32(page, uint32(blockNext))
	page = append(page, recs...)
	for len(page) < int(blockLen) {
		page = append(page, 0)
	}
	return page
}

// buildArchive lays out an ITSF v3 + ITSP v1 header, one PMGL directory
// page (blockLen must be large enough to hold every entry record) holding
// every entry in specs, and the Uncompressed entries' bytes packed into
// the data region that follows. It returns the assembled archive.
func buildArchive(blockLen int64, specs []testEntrySpec) []byte {
	headerLen := int64(itsfV3Len)
	itspOffset := headerLen
	dirPagesOffset := itspOffset + itspV1Len
	dataOffset := dirPagesOffset + blockLen

	starts := make([]int64, len(specs))
	cursor := int64(0)
	for i, s := range specs {
		if s.space == Compressed {
			starts[i] = s.start
			continue
		}
		starts[i] = cursor
		cursor += int64(len(s.content))
	}

	var recs []byte
	for i, s := range specs {
		recs = append(recs, encodePMGLEntry(s.path, s.space, starts[i], int64(len(s.content)))...)
	}
	page := buildPMGLPage(uint32(blockLen), recs, -1, -1)

	buf := make([]byte, dataOffset+cursor)

	copy(buf[0:4], "ITSF")
	le32(buf[4:8], 3)
	le32(buf[8:12], uint32(headerLen))
	le32(buf[12:16], 0)
	le32(buf[16:20], 0)
	le32(buf[20:24], 0)
	le64(buf[56:64], 0)
	le64(buf[64:72], 0)
	le64(buf[72:80], uint64(itspOffset))
	le64(buf[80:88], uint64(itspV1Len+blockLen))
	le64(buf[88:96], uint64(dataOffset))

	itsp := buf[itspOffset:]
	copy(itsp[0:4], "ITSP")
	le32(itsp[4:8], 1)
	le32(itsp[8:12], itspV1Len)
	le32(itsp[12:16], 0)
	le32(itsp[16:20], uint32(blockLen))
	le32(itsp[20:24], 0)
	le32(itsp[24:28], 0)
	le32(itsp[28:32], uint32(int32NegOne))
	le32(itsp[32:36], 0)
	le32(itsp[36:40], 0)
	le32(itsp[40:44], 1)
	le32(itsp[44:48], 0)
	le32(itsp[48:52], 0)

	copy(buf[dirPagesOffset:dirPagesOffset+blockLen], page)

	for i, s := range specs {
		if s.space == Compressed {
			continue
		}
		start := dataOffset + starts[i]
		copy(buf[start:start+int64(len(s.content))], s.content)
	}

	return buf
}

// buildChainedDirectory lays out headers and a chain of small PMGL pages of
// pageBlockLen bytes each, packing entries into pages in order (as many as
// fit per page), to exercise block_next traversal. Every entry is
// Uncompressed with trivial content.
func buildChainedDirectory(pageBlockLen int64, paths []string) []byte {
	type placedEntry struct {
		path  string
		start int64
		page  int
	}

	var placed []placedEntry
	contentCursor := int64(0)
	for _, p := range paths {
		placed = append(placed, placedEntry{path: p, start: contentCursor})
		contentCursor += int64(len(p)) // arbitrary distinct small length per entry
	}

	// Greedily pack entries into pages in order, starting a new page
	// whenever the next record would not fit.
	var pageRecs [][]byte
	cur := []byte{}
	for _, pe := range placed {
		rec := encodePMGLEntry(pe.path, Uncompressed, pe.start, int64(len(pe.path)))
		if pmglLen+len(cur)+len(rec) > int(pageBlockLen) && len(cur) > 0 {
			pageRecs = append(pageRecs, cur)
			cur = nil
		}
		cur = append(cur, rec...)
	}
	if len(cur) > 0 {
		pageRecs = append(pageRecs, cur)
	}

	headerLen := int64(itsfV3Len)
	itspOffset := headerLen
	dirPagesOffset := itspOffset + itspV1Len
	dataOffset := dirPagesOffset + pageBlockLen*int64(len(pageRecs))

	buf := make([]byte, dataOffset+contentCursor)
	copy(buf[0:4], "ITSF")
	le32(buf[4:8], 3)
	le32(buf[8:12], uint32(headerLen))
	le64(buf[72:80], uint64(itspOffset))
	le64(buf[80:88], uint64(itspV1Len+pageBlockLen*int64(len(pageRecs))))
	le64(buf[88:96], uint64(dataOffset))

	itsp := buf[itspOffset:]
	copy(itsp[0:4], "ITSP")
	le32(itsp[4:8], 1)
	le32(itsp[8:12], itspV1Len)
	le32(itsp[16:20], uint32(pageBlockLen))
	le32(itsp[28:32], uint32(int32NegOne))
	le32(itsp[32:36], 0)
	le32(itsp[40:44], uint32(len(pageRecs)))

	for i, recs := range pageRecs {
		next := int32(-1)
		if i < len(pageRecs)-1 {
			next = int32(i + 1)
		}
		prev := int32(-1)
		if i > 0 {
			prev = int32(i - 1)
		}
		page := buildPMGLPage(uint32(pageBlockLen), recs, prev, next)
		off := dirPagesOffset + int64(i)*pageBlockLen
		copy(buf[off:off+pageBlockLen], page)
	}

	for _, pe := range placed {
		start := dataOffset + pe.start
		copy(buf[start:start+int64(len(pe.path))], pe.path)
	}

	return buf
}

// lzxcResetTableBytes encodes a reset-table entry's content: the 40-byte
// header followed immediately by blockCount little-endian u64 offsets.
func lzxcResetTableBytes(blockLen int64, blockOffsets []int64, compressedLen int64) []byte {
	buf := appendLE32(nil, 2) // version
	buf = appendLE32(buf, uint32(len(blockOffsets)))
	buf = appendLE32(buf, 0) // unknown
	buf = appendLE32(buf, lzxcResetTableV1Len)
	buf = appendLE64(buf, uint64(blockLen*int64(len(blockOffsets))))
	buf = appendLE64(buf, uint64(compressedLen))
	buf = appendLE64(buf, uint64(blockLen))
	for _, off := range blockOffsets {
		buf = appendLE64(buf, uint64(off))
	}
	return buf
}

// lzxcControlDataBytes encodes a v1 control-data entry's content (28
// bytes, no 0x8000 multiplier applied).
func lzxcControlDataBytes(resetInterval, windowSize, windowsPerReset uint32) []byte {
	buf := appendLE32(nil, lzxcControlV2Len)
	buf = append(buf, "LZXC"...)
	buf = appendLE32(buf, 1)
	buf = appendLE32(buf, resetInterval)
	buf = appendLE32(buf, windowSize)
	buf = appendLE32(buf, windowsPerReset)
	buf = appendLE32(buf, 0)
	return buf
}

// compressedTestArchive is a synthetic archive whose content entry is
// compressed under passthroughCodec: its "compressed" blocks are exactly
// its plaintext blocks, so plainBlocks is both the fabricated wire format
// and the expected decompressed output.
type compressedTestArchive struct {
	bytes       []byte
	entryPath   string
	blockLen    int64
	plainBlocks [][]byte
}

// buildCompressedArchive assembles an archive with the three reserved
// compression-metadata entries plus one user entry ("/big.bin") whose
// content spans len(plainBlocks) blocks of blockLen bytes each, reset
// every resetBlkCount blocks (windowSize/2 == resetInterval/resetBlkCount,
// windowsPerReset == 1).
func buildCompressedArchive(blockLen int64, plainBlocks [][]byte, resetBlkCount int64) compressedTestArchive {
	var content []byte
	offsets := make([]int64, len(plainBlocks))
	for i, b := range plainBlocks {
		offsets[i] = int64(i) * blockLen
		content = append(content, b...)
	}
	compressedLen := int64(len(plainBlocks)) * blockLen

	windowSize := uint32(4)
	resetInterval := uint32(resetBlkCount) * (windowSize / 2)

	specs := []testEntrySpec{
		{path: pathResetTable, space: Uncompressed, content: lzxcResetTableBytes(blockLen, offsets, compressedLen)},
		{path: pathControl, space: Uncompressed, content: lzxcControlDataBytes(resetInterval, windowSize, 1)},
		{path: pathContent, space: Uncompressed, content: content},
		// A Compressed entry's content bytes are never written into the
		// data region (buildArchive skips them there); content only
		// supplies the PMGL record's logical length field.
		{path: "/big.bin", space: Compressed, start: 0, content: make([]byte, compressedLen)},
	}
	raw := buildArchive(1024, specs)

	return compressedTestArchive{
		bytes:       raw,
		entryPath:   "/big.bin",
		blockLen:    blockLen,
		plainBlocks: plainBlocks,
	}
}
