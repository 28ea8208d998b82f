// Package discovery enumerates audio files under a directory tree.
package discovery

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/farcloser/lrascan/internal/types"
)

// DefaultExtensions is the audio format allow-list, lower-case and without the leading dot.
//
//nolint:gochecknoglobals // configuration data, effectively const
var DefaultExtensions = []string{"wav", "mp3", "m4a", "flac", "aac", "ogg", "opus", "wma", "aiff", "alac"}

// NormalizeExtensions lower-cases extensions and strips a leading dot. Empty entries are dropped.
func NormalizeExtensions(extensions []string) []string {
	out := make([]string, 0, len(extensions))

	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" && !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}

	return out
}

// Extension returns the lower-cased extension of path without the dot, or "" if there is none.
// Dot-files such as ".hidden" have no extension.
func Extension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)

	if ext == "" || ext == base {
		return ""
	}

	return strings.ToLower(ext[1:])
}

// Discover walks root and returns every regular file whose extension is allowed. The file at exclude (if any) is
// skipped. Entries that cannot be read are skipped silently; an unreadable root yields no entries.
// Symbolic links are not followed. Order is walk order and carries no meaning.
func Discover(root, exclude string, extensions []string) []types.FileEntry {
	if extensions == nil {
		extensions = DefaultExtensions
	}

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	if exclude != "" {
		if abs, err := filepath.Abs(exclude); err == nil {
			exclude = abs
		}
	}

	var entries []types.FileEntry

	//nolint:errcheck // walk errors are swallowed per entry
	filepath.WalkDir(root, func(path string, dirEntry fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("discovery.Discover", "path", path, "skipped", err)

			return nil
		}

		if !dirEntry.Type().IsRegular() {
			return nil
		}

		if exclude != "" && path == exclude {
			return nil
		}

		ext := Extension(path)
		if ext == "" || !slices.Contains(extensions, ext) {
			return nil
		}

		entries = append(entries, types.FileEntry{
			AbsolutePath: path,
			DisplayPath:  displayPath(root, path),
		})

		return nil
	})

	return entries
}

func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = path
	}

	return strings.ToValidUTF8(rel, "\uFFFD")
}
