package itss

import "strings"

// compressionMetadata bundles everything the decompression driver needs
// beyond the raw archive handle: the three reserved entries, the decoded
// reset table and control data, and the derived reset block count.
type compressionMetadata struct {
	resetTableEntry *Entry
	contentEntry    *Entry
	controlEntry    *Entry

	resetTable resetTable
	windowSize uint32
	resetBlkCount int64
}

// findByPathCaseInsensitive returns a pointer into entries matching path,
// or nil. The directory is small enough (a handful of reserved paths out
// of the whole listing) that a linear scan is simpler than an index and
// runs once, at open.
func findByPathCaseInsensitive(entries []Entry, path string) *Entry {
	for i := range entries {
		if strings.EqualFold(entries[i].Path, path) {
			return &entries[i]
		}
	}
	return nil
}

// loadCompressionMetadata locates the three reserved compression-metadata
// entries and, if all three are present and well-formed, decodes the reset
// table and LZXC control data. Any failure along the way is reported to
// the caller as a plain false — per the invariant, a malformed compression
// section degrades the archive to uncompressed-only rather than failing
// Open outright.
func loadCompressionMetadata(src ByteSource, itsf *itsfHeader, entries []Entry) (*compressionMetadata, bool) {
	rt := findByPathCaseInsensitive(entries, pathResetTable)
	cn := findByPathCaseInsensitive(entries, pathContent)
	ctl := findByPathCaseInsensitive(entries, pathControl)

	if rt == nil || cn == nil || ctl == nil {
		return nil, false
	}
	// The compression metadata entries, and the Content entry describing
	// where the compressed blob itself lives, are all located by an
	// offset into the archive's raw (uncompressed) data region — none of
	// them can be measured in the compressed space they describe.
	if rt.Space == Compressed || cn.Space == Compressed || ctl.Space == Compressed {
		return nil, false
	}

	rtBuf := make([]byte, lzxcResetTableV1Len)
	if n := readUpTo(src, rtBuf, int64(itsf.DataOffset)+rt.Start); n != len(rtBuf) {
		return nil, false
	}
	table, err := parseResetTable(rtBuf)
	if err != nil {
		return nil, false
	}

	if ctl.Length > 256 {
		return nil, false
	}
	ctlBuf := make([]byte, ctl.Length)
	if n := readUpTo(src, ctlBuf, int64(itsf.DataOffset)+ctl.Start); int64(n) != ctl.Length {
		return nil, false
	}
	control, err := parseLZXCControlData(ctlBuf)
	if err != nil {
		return nil, false
	}

	meta := &compressionMetadata{
		resetTableEntry: rt,
		contentEntry:    cn,
		controlEntry:    ctl,
		resetTable:      *table,
		windowSize:      control.WindowSize,
	}
	meta.resetBlkCount = int64(control.ResetInterval) / (int64(control.WindowSize) / 2) * int64(control.WindowsPerReset)
	return meta, true
}

func parseResetTable(buf []byte) (*resetTable, error) {
	if len(buf) != lzxcResetTableV1Len {
		return nil, newErr(KindMalformed, "parseResetTable", "", errBadResetTable)
	}
	c := newCursor(buf)
	t := &resetTable{
		Version:     c.u32(),
		BlockCount:  c.u32(),
	}
	_ = c.u32() // unknown
	t.TableOffset = c.u32()
	t.UncompressedLen = c.i64()
	t.CompressedLen = c.i64()
	t.BlockLen = c.i64()
	if err := c.commit(); err != nil {
		return nil, err
	}

	if t.Version != 2 {
		return nil, newErr(KindMalformed, "parseResetTable", "", errBadResetTable)
	}
	if t.UncompressedLen > maxUint32 || t.CompressedLen > maxUint32 {
		return nil, newErr(KindMalformed, "parseResetTable", "", errHugeValue)
	}
	if t.BlockLen == 0 {
		return nil, newErr(KindMalformed, "parseResetTable", "", errZeroBlockLen)
	}
	if t.BlockLen < 0 || t.BlockLen > maxUint32 {
		return nil, newErr(KindMalformed, "parseResetTable", "", errHugeValue)
	}
	return t, nil
}

func parseLZXCControlData(buf []byte) (*lzxcControlData, error) {
	if len(buf) < lzxcControlMinLen {
		return nil, newErr(KindMalformed, "parseLZXCControlData", "", errBadControlData)
	}
	c := newCursor(buf)
	_ = c.u32() // size
	sig := c.str(4)
	d := &lzxcControlData{
		Version:         c.u32(),
		ResetInterval:   c.u32(),
		WindowSize:      c.u32(),
		WindowsPerReset: c.u32(),
	}
	if len(buf) >= lzxcControlV2Len {
		_ = c.u32() // unknown_18
	}
	if err := c.commit(); err != nil {
		return nil, err
	}

	if sig != "LZXC" {
		return nil, newErr(KindMalformed, "parseLZXCControlData", "", errBadSignature)
	}
	if d.Version != 1 && d.Version != 2 {
		return nil, newErr(KindUnsupported, "parseLZXCControlData", "", errBadVersion)
	}
	if d.Version == 2 {
		d.ResetInterval *= 0x8000
		d.WindowSize *= 0x8000
	}
	if d.WindowSize == 0 || d.ResetInterval == 0 {
		return nil, newErr(KindMalformed, "parseLZXCControlData", "", errBadControlData)
	}
	if d.WindowSize == 1 {
		return nil, newErr(KindUnsupported, "parseLZXCControlData", "", errBadControlData)
	}
	if d.ResetInterval%(d.WindowSize/2) != 0 {
		return nil, newErr(KindUnsupported, "parseLZXCControlData", "", errBadControlData)
	}
	return d, nil
}
