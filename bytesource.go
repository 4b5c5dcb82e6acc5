package itss

import (
	"io"
	"os"
)

// ByteSource is the random-access read abstraction an archive is opened
// against. Implementations back it with a file, a memory buffer, or any
// other pread-style store. ReadAt follows io.ReaderAt's contract: it must
// fill the whole slice unless it returns an error (including io.EOF on a
// short final read).
//
// A ByteSource that also implements io.Closer has Close called by
// (*Handle).Close.
type ByteSource interface {
	io.ReaderAt
}

// memorySource backs a ByteSource with an in-memory buffer. It never
// allocates on read and is most useful for tests and for archives already
// fully loaded into memory.
type memorySource struct {
	data []byte
}

// NewMemorySource wraps a byte slice as a ByteSource. The slice is not
// copied; callers must not mutate it while the archive is open.
func NewMemorySource(data []byte) ByteSource {
	return &memorySource{data: data}
}

func (m *memorySource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// fileSource backs a ByteSource with an *os.File opened for reading.
type fileSource struct {
	f *os.File
}

// NewFileSource opens path read-only and returns a ByteSource over it. The
// returned source's Close closes the underlying file; an *Handle opened
// against it closes the source in turn.
func NewFileSource(path string) (ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(KindIO, "NewFileSource", path, err)
	}
	return &fileSource{f: f}, nil
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

func (s *fileSource) Close() error {
	return s.f.Close()
}

// readExact reads exactly len(buf) bytes at off from src. Short reads
// (including a clean io.EOF) are reported as a KindIO *Error rather than
// propagated raw, matching the "exact sizes required" rule for header and
// reset-table reads.
func readExact(src ByteSource, buf []byte, off int64) error {
	n, err := src.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return newErr(KindIO, "readExact", "", err)
}

// readUpTo reads at most len(buf) bytes at off, tolerating end-of-stream
// short reads (used by the entry read path, which must support clipped
// reads near the end of a space).
func readUpTo(src ByteSource, buf []byte, off int64) int {
	n, err := src.ReadAt(buf, off)
	if err != nil && n == 0 {
		return 0
	}
	return n
}
