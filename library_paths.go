package nvcodec

import (
	"os"
	"path/filepath"
	"runtime"
)

// libraryCandidates lists the paths tried for a library, highest priority
// first. Bare file names come last so the platform loader can resolve
// them through its own search path (ld.so.cache, PATH, ...).
func libraryCandidates(id libraryID, cfg Config) []string {
	var paths []string
	names := id.filenames()

	// Explicit per-library override (highest priority)
	if p := cfg.Libraries[id.String()]; p != "" {
		paths = append(paths, p)
	}

	if cfg.LibraryDir != "" {
		for _, name := range names {
			paths = append(paths, filepath.Join(cfg.LibraryDir, name))
		}
	}

	// Search relative to executable location
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		for _, name := range names {
			paths = append(paths, filepath.Join(exeDir, name))
		}
	}

	if libraryInfo[id].Toolkit {
		root := cfg.toolkitDir()
		dirs := []string{"lib64", "lib"}
		if t := toolkitTarget(); t != "" {
			dirs = append(dirs, filepath.Join("targets", t, "lib"))
		}
		if runtime.GOOS == "windows" {
			dirs = []string{"bin", filepath.Join("bin", "x64")}
		}
		for _, dir := range dirs {
			for _, name := range names {
				paths = append(paths, filepath.Join(root, dir, name))
			}
		}
	}

	// System resolution (lowest priority)
	paths = append(paths, names...)

	return dedupe(paths)
}

// toolkitTarget names the toolkit's per-architecture target directory.
func toolkitTarget() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64-linux"
	case "arm64":
		return "sbsa-linux"
	default:
		return ""
	}
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
