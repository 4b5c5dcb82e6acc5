package itss

import "errors"

// errShortBuffer is wrapped by a *Error whenever a cursor runs past the end
// of the buffer it was decoding.
var errShortBuffer = errors.New("unmarshal: ran past end of buffer")

// Sentinel causes wrapped by *Error across the header, directory, and
// compression-metadata parsers.
var (
	errBadSignature   = errors.New("bad signature")
	errBadVersion     = errors.New("unsupported version")
	errHeaderTooShort = errors.New("header_len below structural minimum")
	errHugeValue      = errors.New("offset or length exceeds 32 bits")
	errZeroBlockLen   = errors.New("block_len is zero")
	errEmptyDirectory = errors.New("directory produced no entries")
	errPathTooLong    = errors.New("entry path exceeds maximum length")
	errFreeSpaceRange = errors.New("free_space exceeds block capacity")
	errBadResetTable  = errors.New("reset table failed validation")
	errBadControlData = errors.New("LZXC control data failed validation")
	errBlockBounds      = errors.New("compressed block length out of range")
	errDecompressFailed = errors.New("LZX codec returned a non-OK status")
)

// Kind categorizes the reason an archive operation failed. The public read
// path deliberately collapses all of these to a byte count of zero; Kind
// exists so Open (and anything wrapping the debug printer) can report which
// sentinel tripped.
type Kind int

const (
	// KindIO means the byte source returned fewer bytes than requested, or
	// a negative/error result.
	KindIO Kind = iota
	// KindMalformed means a signature, version, bound, or sanity check on
	// the binary layout failed.
	KindMalformed
	// KindUnsupported means the archive uses a structurally valid feature
	// this reader does not implement (ITSF version, LZX window, reset
	// interval alignment).
	KindUnsupported
	// KindOOM means an allocation failed.
	KindOOM
	// KindDecompress means the LZX codec reported a non-OK status.
	KindDecompress
	// KindNotApplicable means a compressed read was attempted on a handle
	// with compression disabled.
	KindNotApplicable
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindMalformed:
		return "malformed"
	case KindUnsupported:
		return "unsupported"
	case KindOOM:
		return "oom"
	case KindDecompress:
		return "decompress"
	case KindNotApplicable:
		return "not_applicable"
	default:
		return "unknown"
	}
}

// Error is the error type returned by Open and by the internal parsers it
// calls. Runtime Read calls never return an *Error — per the error handling
// design, they collapse any failure to a short byte count instead.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Op
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// ErrKind reports the Kind of err if it is (or wraps) an *Error.
func ErrKind(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
