package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/pystyle/internal/analyzer"
	"github.com/ludo-technologies/pystyle/internal/constants"
	ignore "github.com/sabhiram/go-gitignore"
)

// FileHelper provides file operation utilities
type FileHelper struct {
	respectGitignore bool
}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// SetRespectGitignore makes directory walks skip paths matched by the
// .gitignore found at the walk root
func (h *FileHelper) SetRespectGitignore(respect bool) {
	h.respectGitignore = respect
}

// CollectPythonFiles collects Python files from paths. Files named directly
// are kept when they have the .py extension; directories are walked. The
// result is sorted by base name, ties broken by full path.
func (h *FileHelper) CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.isPythonFile(path) && !h.isExcluded(path, excludePatterns) {
				add(path)
			}
			continue
		}

		walker := newDirWalker(path, includePatterns, excludePatterns, h.respectGitignore)
		if recursive {
			err = filepath.WalkDir(path, func(filePath string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if filePath != path && walker.skipDir(filePath) {
						return filepath.SkipDir
					}
					return nil
				}
				if h.isPythonFile(filePath) && walker.keepFile(filePath) {
					add(filePath)
				}
				return nil
			})
		} else {
			var entries []os.DirEntry
			entries, err = os.ReadDir(path)
			if err == nil {
				for _, entry := range entries {
					if entry.IsDir() {
						continue
					}
					filePath := filepath.Join(path, entry.Name())
					if h.isPythonFile(filePath) && walker.keepFile(filePath) {
						add(filePath)
					}
				}
			}
		}

		if err != nil {
			return nil, err
		}
	}

	SortByBaseName(files)
	return files, nil
}

// SortByBaseName orders paths by file name, then by full path
func SortByBaseName(files []string) {
	sort.SliceStable(files, func(i, j int) bool {
		bi, bj := filepath.Base(files[i]), filepath.Base(files[j])
		if bi != bj {
			return bi < bj
		}
		return files[i] < files[j]
	})
}

// IsValidPythonFile checks if a file is a Python source file
func (h *FileHelper) IsValidPythonFile(path string) bool {
	return h.isPythonFile(path)
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadLines reads a file as physical lines, terminators kept
func (h *FileHelper) ReadLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return analyzer.SplitLines(string(content)), nil
}

// isPythonFile checks the file extension
func (h *FileHelper) isPythonFile(path string) bool {
	return filepath.Ext(path) == constants.PythonFileExtension
}

// isExcluded checks if any path component matches an exclude pattern
func (h *FileHelper) isExcluded(path string, excludePatterns []string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if matchesAny(part, excludePatterns) {
			return true
		}
	}
	return false
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == name {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// dirWalker holds the per-root matchers of one directory walk
type dirWalker struct {
	root    string
	exclude []string
	include *ignore.GitIgnore
	ignored *ignore.GitIgnore
}

func newDirWalker(root string, includePatterns, excludePatterns []string, respectGitignore bool) *dirWalker {
	w := &dirWalker{root: root, exclude: excludePatterns}
	if len(includePatterns) > 0 {
		w.include = ignore.CompileIgnoreLines(includePatterns...)
	}
	if respectGitignore {
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			w.ignored = gi
		}
	}
	return w
}

func (w *dirWalker) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *dirWalker) skipDir(path string) bool {
	if matchesAny(filepath.Base(path), w.exclude) {
		return true
	}
	if w.ignored != nil {
		rel := w.rel(path)
		return w.ignored.MatchesPath(rel) || w.ignored.MatchesPath(rel+"/")
	}
	return false
}

func (w *dirWalker) keepFile(path string) bool {
	if matchesAny(filepath.Base(path), w.exclude) {
		return false
	}
	rel := w.rel(path)
	if w.ignored != nil && w.ignored.MatchesPath(rel) {
		return false
	}
	return w.include == nil || w.include.MatchesPath(rel)
}

// ResolveFilePaths collects the Python files named by paths
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	return fileHelper.CollectPythonFiles(paths, recursive, includePatterns, excludePatterns)
}
