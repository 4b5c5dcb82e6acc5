package cmd

import "github.com/archivekit/go-itss"

// openArchive opens path as an ITSS archive with no LZX codec wired in:
// itsscat ships no LZX implementation of its own, so compressed entries
// read as empty while uncompressed ones work normally. A build that links
// in a real codec can fork this helper to pass one through.
func openArchive(path string) (*itss.Handle, error) {
	src, err := itss.NewFileSource(path)
	if err != nil {
		return nil, err
	}
	h, err := itss.Open(src, nil)
	if err != nil {
		return nil, err
	}
	h.SetCacheSize(cacheSize)
	return h, nil
}
