package exporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"

	"github.com/euforicio/wikigen/internal/output"
)

// ManifestFile records the files written by the last build, relative to the output root.
const ManifestFile = ".wikigen-manifest.json"

const manifestVersion = 1

type manifest struct {
	Version int      `json:"version"`
	Files   []string `json:"files"`
}

// readManifest loads the previous manifest. A missing one yields an empty list.
func readManifest(dir *output.Dir) ([]string, error) {
	raw, err := dir.Read(ManifestFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return m.Files, nil
}

func writeManifest(dir *output.Dir, files []string) error {
	sorted := slices.Clone(files)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	raw, err := json.MarshalIndent(manifest{Version: manifestVersion, Files: sorted}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return dir.Write(ManifestFile, append(raw, '\n'))
}

// prune removes files listed in previous that the current build did not produce.
// Entries that would leave the output root are ignored.
func prune(dir *output.Dir, previous, current []string, logger *slog.Logger) ([]string, error) {
	keep := make(map[string]struct{}, len(current))
	for _, f := range current {
		keep[f] = struct{}{}
	}

	var removed []string
	for _, f := range previous {
		if _, ok := keep[f]; ok || f == ManifestFile {
			continue
		}
		if err := dir.Remove(f); err != nil {
			if errors.Is(err, output.ErrPathEscapes) {
				logger.Warn("ignoring manifest entry outside output", slog.String("file", f))
				continue
			}
			return removed, err
		}
		logger.Debug("pruned stale output", slog.String("file", f))
		removed = append(removed, f)
	}
	return removed, nil
}
