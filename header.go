package itss

// maxUint32 bounds fields the header parser treats as "must fit in 32
// bits" sanity guards against corrupt files reporting huge offsets.
const maxUint32 = 1<<32 - 1

// parseITSFHeader decodes the ITSF (file) header from the first itsfV3Len
// bytes of the archive. It always reads the v3-sized region up front
// (chm_init does the same) and only consumes the trailing data_offset
// field when the version turns out to be 3.
func parseITSFHeader(src ByteSource) (*itsfHeader, error) {
	buf := make([]byte, itsfV3Len)
	if err := readExact(src, buf, 0); err != nil {
		return nil, newErr(KindIO, "parseITSFHeader", "", err)
	}

	c := newCursor(buf)
	sig := c.str(4)
	hdr := &itsfHeader{
		Version:      c.u32(),
		HeaderLen:    c.u32(),
	}
	_ = c.u32() // reserved
	hdr.LastModified = c.u32()
	hdr.LangID = c.u32()
	hdr.DirUUID = c.uuidField()
	hdr.StreamUUID = c.uuidField()
	hdr.UnknownOff = c.u64()
	hdr.UnknownLen = c.u64()
	hdr.DirOffset = c.u64()
	hdr.DirLen = c.u64()
	if hdr.Version == 3 {
		hdr.DataOffset = c.u64()
	}
	if err := c.commit(); err != nil {
		return nil, err
	}

	if sig != "ITSF" {
		return nil, newErr(KindMalformed, "parseITSFHeader", "", errBadSignature)
	}
	if hdr.Version != 2 && hdr.Version != 3 {
		return nil, newErr(KindUnsupported, "parseITSFHeader", "", errBadVersion)
	}
	if hdr.Version == 2 && hdr.HeaderLen < itsfV2Len {
		return nil, newErr(KindMalformed, "parseITSFHeader", "", errHeaderTooShort)
	}
	if hdr.Version == 3 && hdr.HeaderLen < itsfV3Len {
		return nil, newErr(KindMalformed, "parseITSFHeader", "", errHeaderTooShort)
	}
	// Sanity guard: huge values are almost always a corrupt or
	// deliberately hostile file, not a legitimately large archive.
	if hdr.DirOffset > maxUint32 || hdr.DirLen > maxUint32 {
		return nil, newErr(KindMalformed, "parseITSFHeader", "", errHugeValue)
	}

	if hdr.Version == 2 {
		hdr.DataOffset = hdr.DirOffset + hdr.DirLen
	}

	return hdr, nil
}

// parseITSPHeader decodes the ITSP (directory) header at itsf.DirOffset.
func parseITSPHeader(src ByteSource, dirOffset uint64) (*itspHeader, error) {
	buf := make([]byte, itspV1Len)
	if err := readExact(src, buf, int64(dirOffset)); err != nil {
		return nil, newErr(KindIO, "parseITSPHeader", "", err)
	}

	c := newCursor(buf)
	sig := c.str(4)
	hdr := &itspHeader{
		Version:   c.u32(),
		HeaderLen: c.u32(),
	}
	_ = c.u32() // reserved
	hdr.BlockLen = c.u32()
	hdr.BlockIdxIntvl = c.i32()
	hdr.IndexDepth = c.i32()
	hdr.IndexRoot = c.i32()
	hdr.IndexHead = c.i32()
	_ = c.i32() // reserved
	hdr.NumBlocks = c.u32()
	_ = c.i32() // reserved
	hdr.LangID = c.u32()
	hdr.SystemUUID = c.uuidField()
	_ = c.bytesN(16) // reserved
	if err := c.commit(); err != nil {
		return nil, err
	}

	if sig != "ITSP" {
		return nil, newErr(KindMalformed, "parseITSPHeader", "", errBadSignature)
	}
	if hdr.Version != 1 {
		return nil, newErr(KindUnsupported, "parseITSPHeader", "", errBadVersion)
	}
	if hdr.HeaderLen != itspV1Len {
		return nil, newErr(KindMalformed, "parseITSPHeader", "", errHeaderTooShort)
	}
	if hdr.BlockLen == 0 {
		return nil, newErr(KindMalformed, "parseITSPHeader", "", errZeroBlockLen)
	}

	if hdr.IndexRoot <= -1 {
		hdr.IndexRoot = hdr.IndexHead
	}

	return hdr, nil
}
