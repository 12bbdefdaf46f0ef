package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store provides access to one dataset directory.
type Store struct {
	Dir          string
	MetadataFile string // file name within Dir, usually "metadata.jsonl"
	AudioDir     string // subdirectory within Dir, usually "audio"
}

// NewStore creates a Store for the given dataset directory.
func NewStore(dir, metadataFile, audioDir string) *Store {
	return &Store{Dir: dir, MetadataFile: metadataFile, AudioDir: audioDir}
}

// MetadataPath returns the absolute path of the metadata file.
func (s *Store) MetadataPath() string {
	return filepath.Join(s.Dir, s.MetadataFile)
}

// AudioPath resolves a relative audio path from a metadata record against
// the dataset directory.
func (s *Store) AudioPath(relative string) string {
	return filepath.Join(s.Dir, relative)
}

// LoadMetadata reads all recording metadata records in file order.
// Blank lines are skipped; a malformed line is an error, since the file is
// append-only and a bad line means the dataset is corrupt.
func (s *Store) LoadMetadata() ([]RecordingMetadata, error) {
	f, err := os.Open(s.MetadataPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	var records []RecordingMetadata
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec RecordingMetadata
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("malformed metadata at %s line %d: %w", s.MetadataFile, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	return records, nil
}

// EnsureDirs creates the dataset and audio directories if missing.
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(filepath.Join(s.Dir, s.AudioDir), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directories: %w", err)
	}
	return nil
}

// AppendMetadata appends one record as a single JSON line. The dataset and
// audio directories are created if missing.
func (s *Store) AppendMetadata(rec RecordingMetadata) error {
	if err := s.EnsureDirs(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata record: %w", err)
	}

	f, err := os.OpenFile(s.MetadataPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open metadata file for append: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append metadata record: %w", err)
	}
	return nil
}
