package itss

import "github.com/google/uuid"

// Structural constants for the ITSF/ITSP headers and LZXC metadata. Sizes
// are exact on-disk byte lengths, not Go struct sizes.
const (
	itsfV2Len = 0x58
	itsfV3Len = 0x60
	itspV1Len = 0x54
	pmglLen   = 0x14

	lzxcResetTableV1Len = 0x28
	lzxcControlMinLen   = 0x18
	lzxcControlV2Len    = 0x1c

	// maxPathLen bounds an entry's path, matching the legacy CHM_MAX_PATHLEN.
	maxPathLen = 512

	// maxCacheBlocks is the hard ceiling SetCacheSize clamps to.
	maxCacheBlocks = 64

	// defaultCacheBlocks is the capacity Open installs.
	defaultCacheBlocks = 5

	// lzxInputSlack is the maximum per-block expansion LZX can produce for
	// a 32 KiB window; it bounds how large a compressed block is allowed
	// to be and sizes the scratch input buffer.
	lzxInputSlack = 6144
)

// Reserved entry paths that carry LZX compression metadata. A well-formed
// compressed archive has exactly one of each.
const (
	pathResetTable = "::DataSpace/Storage/MSCompressed/Transform/{7FC28940-9D31-11D0-9B27-00A0C91E9C7C}/InstanceData/ResetTable"
	pathContent    = "::DataSpace/Storage/MSCompressed/Content"
	pathControl    = "::DataSpace/Storage/MSCompressed/ControlData"
)

// itsfHeader is the decoded ITSF (file) header.
type itsfHeader struct {
	Version      uint32
	HeaderLen    uint32
	LastModified uint32
	LangID       uint32
	DirUUID      uuid.UUID
	StreamUUID   uuid.UUID
	UnknownOff   uint64
	UnknownLen   uint64
	DirOffset    uint64
	DirLen       uint64
	DataOffset   uint64
}

// itspHeader is the decoded ITSP (directory) header.
type itspHeader struct {
	Version        uint32
	HeaderLen      uint32
	BlockLen       uint32
	BlockIdxIntvl  int32
	IndexDepth     int32
	IndexRoot      int32
	IndexHead      int32
	NumBlocks      uint32
	LangID         uint32
	SystemUUID     uuid.UUID
}

// pmglHeader is the decoded header of a single PMGL directory page.
type pmglHeader struct {
	FreeSpace  uint32
	BlockPrev  int32
	BlockNext  int32
}

// Space distinguishes which logical stream an Entry's Start/Length are
// measured against.
type Space int

const (
	Uncompressed Space = iota
	Compressed
)

func (s Space) String() string {
	if s == Compressed {
		return "compressed"
	}
	return "uncompressed"
}

// Flag is a bitmask describing an entry's path shape, derived once at
// directory-parse time.
type Flag int

const (
	FlagFiles Flag = 1 << iota
	FlagDirs
	FlagNormal
	FlagSpecial
	FlagMeta
)

// Entry is one logical file inside the archive, as enumerated from the
// PMGL directory chain.
type Entry struct {
	Path   string
	Space  Space
	Start  int64
	Length int64
	Flags  Flag
}

func flagsFromPath(path string) Flag {
	var f Flag
	if len(path) > 0 && path[len(path)-1] == '/' {
		f |= FlagDirs
	} else {
		f |= FlagFiles
	}
	if len(path) > 0 && path[0] == '/' {
		if len(path) > 1 && (path[1] == '#' || path[1] == '$') {
			f |= FlagSpecial
		} else {
			f |= FlagNormal
		}
	} else {
		f |= FlagMeta
	}
	return f
}

// resetTable is the decoded LZXC reset table header (the block offsets
// themselves are read lazily from the archive, not stored here).
type resetTable struct {
	Version         uint32
	BlockCount      uint32
	TableOffset     uint32
	UncompressedLen int64
	CompressedLen   int64
	BlockLen        int64
}

// lzxcControlData is the decoded LZXC control-data record.
type lzxcControlData struct {
	Version         uint32
	ResetInterval   uint32
	WindowSize      uint32
	WindowsPerReset uint32
}
