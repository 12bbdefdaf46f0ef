package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SampleLibrary loads reference scripts ("samples") and caches each one
// after its first read. Ground truth is uniquely addressed by sample file
// name and never mutated within a run, so the cache is read-only after
// first load.
type SampleLibrary struct {
	Dir   string
	cache map[string]string
}

// NewSampleLibrary creates a library over the given samples directory.
func NewSampleLibrary(dir string) *SampleLibrary {
	return &SampleLibrary{Dir: dir, cache: make(map[string]string)}
}

// GroundTruth returns the reference text for a sample file, loading it at
// most once per run. The text is whitespace-trimmed.
func (l *SampleLibrary) GroundTruth(sampleFile string) (string, error) {
	if text, ok := l.cache[sampleFile]; ok {
		return text, nil
	}
	data, err := os.ReadFile(filepath.Join(l.Dir, sampleFile))
	if err != nil {
		return "", fmt.Errorf("failed to load ground truth sample %q: %w", sampleFile, err)
	}
	text := strings.TrimSpace(string(data))
	l.cache[sampleFile] = text
	return text, nil
}

// List returns the sample file names in the library, sorted, so the
// recorder can present a stable selection.
func (l *SampleLibrary) List() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// WordCount counts whitespace-delimited tokens in a sample text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
