package itss

// compressedBlockBounds resolves block b to its absolute offset and
// compressed length within the archive, by consulting the reset table.
// All but the last block are bounded by a pair of adjacent table entries;
// the last block's end is the reset table's recorded total compressed
// length instead.
func compressedBlockBounds(src ByteSource, itsf *itsfHeader, meta *compressionMetadata, block int64) (offset int64, length int64, err error) {
	tableBase := int64(itsf.DataOffset) + meta.resetTableEntry.Start + int64(meta.resetTable.TableOffset)

	start, err := readInt64At(src, tableBase+8*block)
	if err != nil {
		return 0, 0, newErr(KindIO, "compressedBlockBounds", "", err)
	}

	var end int64
	if block < int64(meta.resetTable.BlockCount)-1 {
		end, err = readInt64At(src, tableBase+8*(block+1))
		if err != nil {
			return 0, 0, newErr(KindIO, "compressedBlockBounds", "", err)
		}
	} else {
		end = meta.resetTable.CompressedLen
	}

	length = end - start
	offset = start + int64(itsf.DataOffset) + meta.contentEntry.Start

	maxLen := meta.resetTable.BlockLen + lzxInputSlack
	if length < 0 || length > maxLen {
		return 0, 0, newErr(KindMalformed, "compressedBlockBounds", "", errBlockBounds)
	}
	return offset, length, nil
}

func readInt64At(src ByteSource, off int64) (int64, error) {
	buf := make([]byte, 8)
	if err := readExact(src, buf, off); err != nil {
		return 0, err
	}
	c := newCursor(buf)
	v := c.i64()
	if err := c.commit(); err != nil {
		return 0, err
	}
	return v, nil
}
