package itss

// dirOffset and dirLen derive the directory's page region from the two
// parsed headers, matching chm_init's dir_offset/dir_len adjustment.
func dirOffset(itsf *itsfHeader, itsp *itspHeader) int64 {
	return int64(itsf.DirOffset) + int64(itsp.HeaderLen)
}

func dirLen(itsf *itsfHeader, itsp *itspHeader) int64 {
	return int64(itsf.DirLen) - int64(itsp.HeaderLen)
}

// parseDirectory walks the PMGL page chain starting at itsp.IndexHead and
// decodes every entry record it contains. Enumeration order is the order
// entries are emitted across the chain, page by page, record by record.
func parseDirectory(src ByteSource, itsf *itsfHeader, itsp *itspHeader) ([]Entry, error) {
	base := dirOffset(itsf, itsp)
	blockLen := int64(itsp.BlockLen)

	var entries []Entry
	curPage := itsp.IndexHead

	for curPage != -1 {
		page := make([]byte, blockLen)
		if err := readExact(src, page, base+int64(curPage)*blockLen); err != nil {
			return nil, newErr(KindIO, "parseDirectory", "", err)
		}

		c := newCursor(page)
		hdr, err := parsePMGLHeader(c, itsp.BlockLen)
		if err != nil {
			return nil, err
		}

		// The trailing free_space bytes are unused; stop decoding
		// records before entering that region.
		usable := c.bytesLeft() - int(hdr.FreeSpace)
		for usable > 0 {
			before := c.bytesLeft()
			e, err := parsePMGLEntry(c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
			usable -= before - c.bytesLeft()
		}

		curPage = hdr.BlockNext
	}

	if len(entries) == 0 {
		return nil, newErr(KindMalformed, "parseDirectory", "", errEmptyDirectory)
	}
	return entries, nil
}

func parsePMGLHeader(c *cursor, blockLen uint32) (*pmglHeader, error) {
	if blockLen < pmglLen {
		return nil, newErr(KindMalformed, "parsePMGLHeader", "", errFreeSpaceRange)
	}
	sig := c.str(4)
	hdr := &pmglHeader{FreeSpace: c.u32()}
	_ = c.u32() // reserved
	hdr.BlockPrev = c.i32()
	hdr.BlockNext = c.i32()
	if err := c.commit(); err != nil {
		return nil, err
	}
	if sig != "PMGL" {
		return nil, newErr(KindMalformed, "parsePMGLHeader", "", errBadSignature)
	}
	if hdr.FreeSpace > blockLen-pmglLen {
		return nil, newErr(KindMalformed, "parsePMGLHeader", "", errFreeSpaceRange)
	}
	return hdr, nil
}

func parsePMGLEntry(c *cursor) (Entry, error) {
	nameLen := c.cword()
	if nameLen > maxPathLen || nameLen < 0 {
		return Entry{}, newErr(KindMalformed, "parsePMGLEntry", "", errPathTooLong)
	}
	path := c.str(int(nameLen))
	space := c.cword()
	start := c.cword()
	length := c.cword()
	if err := c.commit(); err != nil {
		return Entry{}, err
	}

	sp := Uncompressed
	if space == 1 {
		sp = Compressed
	}
	return Entry{
		Path:   path,
		Space:  sp,
		Start:  start,
		Length: length,
		Flags:  flagsFromPath(path),
	}, nil
}
