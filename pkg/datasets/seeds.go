package datasets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/XiaoConstantine/shinka-go/pkg/errors"
)

// seedSeparator splits multi-seed files into payload blocks.
const seedSeparator = "---"

// LoadSeeds reads seed payloads from path. A directory yields one seed per
// regular file, in name order; a single file is split into blocks on lines
// containing only "---". Blank blocks and empty files are skipped.
func LoadSeeds(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ResourceNotFound, "failed to stat seed path"),
			errors.Fields{"path": path})
	}

	var seeds []string
	if info.IsDir() {
		seeds, err = loadSeedDir(path)
	} else {
		seeds, err = loadSeedFile(path)
	}
	if err != nil {
		return nil, err
	}

	if len(seeds) == 0 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "no seed payloads found"),
			errors.Fields{"path": path})
	}
	return seeds, nil
}

func loadSeedDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ResourceNotFound, "failed to read seed directory"),
			errors.Fields{"path": dir})
	}

	var seeds []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.WithFields(
				errors.Wrap(err, errors.ResourceNotFound, "failed to read seed file"),
				errors.Fields{"file": entry.Name()})
		}
		if payload := strings.TrimSpace(string(data)); payload != "" {
			seeds = append(seeds, payload)
		}
	}
	return seeds, nil
}

func loadSeedFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ResourceNotFound, "failed to read seed file"),
			errors.Fields{"path": path})
	}

	var seeds []string
	var block []string
	flush := func() {
		if payload := strings.TrimSpace(strings.Join(block, "\n")); payload != "" {
			seeds = append(seeds, payload)
		}
		block = block[:0]
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == seedSeparator {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	return seeds, nil
}
