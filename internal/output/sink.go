package output

import (
	"os"

	"github.com/morozRed/linkshere/internal/fileutil"
)

// Sink accepts generated files. Implementations decide whether anything
// reaches the disk.
type Sink interface {
	// Write stores content at path and reports whether the file changed.
	Write(path string, content []byte) (bool, error)
	// Remove deletes a previously generated file and reports whether it existed.
	Remove(path string) (bool, error)
}

// FileSink persists content, skipping writes whose bytes already match.
type FileSink struct{}

func (FileSink) Write(path string, content []byte) (bool, error) {
	return fileutil.WriteIfChangedTracked(path, content)
}

func (FileSink) Remove(path string) (bool, error) {
	return fileutil.RemoveIfExists(path)
}

// DryRunSink never touches the disk. It compares content with what is
// already there and records every path that a real run would change.
type DryRunSink struct {
	Pending []string
}

func (s *DryRunSink) Write(path string, content []byte) (bool, error) {
	have, err := fileutil.HashFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if err == nil && have == fileutil.HashBytes(content) {
		return false, nil
	}
	s.Pending = append(s.Pending, path)
	return true, nil
}

func (s *DryRunSink) Remove(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	s.Pending = append(s.Pending, path)
	return true, nil
}
