// Package input reads the raw records of a run from a directory of files.
// records are handed over untouched: field names and value types are whatever
// the file format produced, normalization happens downstream.
package input

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/grafana/sensorstat/stats"
)

var (
	// metric input.files.read is how many files were decoded
	filesRead = stats.NewCounter32("input.files.read")
	// metric input.files.skipped is how many files were not decoded: ignored, unsupported or broken
	filesSkipped = stats.NewCounter32("input.files.skipped")
	// metric input.records.decoded is how many raw records were decoded from all files
	recordsDecoded = stats.NewCounter32("input.records.decoded")
)

var ErrNoInput = errors.New("no input files")

// Record is one raw record, as decoded from its file
type Record struct {
	Fields map[string]interface{}
	File   string // base name of the file the record came from
	Index  int    // position within that file
}

// FileError is a file that could not be decoded. the rest of the run is unaffected.
type FileError struct {
	File string
	Err  error
}

func (f FileError) Error() string {
	return fmt.Sprintf("%s: %s", f.File, f.Err)
}

func (f FileError) Unwrap() error {
	return f.Err
}

// Batch is everything read from one input directory, in file name order
type Batch struct {
	Records      []Record
	Errors       []FileError
	FilesRead    int
	FilesSkipped int
}

// Fields returns the raw records in order
func (b *Batch) Fields() []map[string]interface{} {
	out := make([]map[string]interface{}, len(b.Records))
	for i, r := range b.Records {
		out[i] = r.Fields
	}
	return out
}

// ReadDir decodes every supported file directly inside dir, in lexicographic
// order of file names. dotfiles, subdirectories and names listed in skip are ignored.
// a file that fails to decode is recorded in Batch.Errors.
// ErrNoInput is returned when dir has no file in a supported format.
func ReadDir(dir string, skip []string) (*Batch, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	ignore := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		ignore[name] = struct{}{}
	}

	b := &Batch{}
	candidates := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if _, ok := ignore[name]; ok || strings.HasPrefix(name, ".") {
			log.WithField("file", name).Debug("input: ignoring file")
			b.skip()
			continue
		}
		dec, ok := DecoderFor(name)
		if !ok {
			log.WithField("file", name).Info("input: unsupported file format, skipping")
			b.skip()
			continue
		}
		candidates++
		fields, err := readFile(filepath.Join(dir, name), dec)
		if err != nil {
			log.WithField("file", name).Warnf("input: could not decode file, skipping: %s", err)
			b.Errors = append(b.Errors, FileError{File: name, Err: err})
			b.skip()
			continue
		}
		b.FilesRead++
		filesRead.Inc()
		recordsDecoded.Add(len(fields))
		for i, f := range fields {
			b.Records = append(b.Records, Record{Fields: f, File: name, Index: i})
		}
		log.WithField("file", name).Debugf("input: decoded %d records", len(fields))
	}
	if candidates == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInput, dir)
	}
	return b, nil
}

func (b *Batch) skip() {
	b.FilesSkipped++
	filesSkipped.Inc()
}

func readFile(path string, dec Decoder) ([]map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dec(f)
}
