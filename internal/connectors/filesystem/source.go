package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/core/ports/driven"
	"github.com/custodia-labs/metaresolve/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.ModelSource = (*Source)(nil)

// modelExt is the extension of model files.
const modelExt = ".json"

// Source reads model documents from JSON files on the local filesystem.
type Source struct{}

// NewSource creates a filesystem model source.
func NewSource() *Source {
	return &Source{}
}

// Load reads every model document under path. A file is read as is; a
// directory is walked for *.json files, skipping hidden files and
// directories. Documents are returned in path order.
func (s *Source) Load(ctx context.Context, path string) ([]*domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return loadFile(path)
	}

	var docs []*domain.Document
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p != path && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isModelFile(p) {
			return nil
		}

		fileDocs, err := loadFile(p)
		if err != nil {
			return err
		}
		docs = append(docs, fileDocs...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("read %d documents under %s", len(docs), path)
	return docs, nil
}

// loadFile decodes a file holding either a Models wrapper or one Model.
func loadFile(path string) ([]*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	models, err := domain.DecodeModels(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return models.Models, nil
}

// Watch emits a change for every model file created, written, removed or
// renamed under path. Directories created later are watched too. The
// channel is closed when ctx is done.
func (s *Source) Watch(ctx context.Context, path string) (<-chan domain.ModelChange, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// A single file is watched through its directory.
	root, only := path, ""
	if !info.IsDir() {
		root, only = filepath.Dir(path), filepath.Clean(path)
		err = watcher.Add(root)
	} else {
		err = addRecursive(watcher, root)
	}
	if err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan domain.ModelChange)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if only != "" && filepath.Clean(event.Name) != only {
					continue
				}
				if only == "" && event.Has(fsnotify.Create) {
					if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() && !isHidden(fi.Name()) {
						if err := addRecursive(watcher, event.Name); err != nil {
							logger.Warn("watching %s: %v", event.Name, err)
						}
						continue
					}
				}
				change := handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("watch %s: %v", root, err)
			}
		}
	}()

	return changes, nil
}

// addRecursive watches dir and every non-hidden directory below it.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

// handleFsEvent converts a filesystem event into a model change.
// Returns nil for events that do not concern a model file. Hidden
// directories are never watched, so only the file name is checked.
func handleFsEvent(event fsnotify.Event) *domain.ModelChange {
	if isHidden(filepath.Base(event.Name)) || !isModelFile(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.ModelChange{Type: domain.ModelChangeDeleted, Path: event.Name}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			return nil
		}
		return &domain.ModelChange{Type: domain.ModelChangeUpdated, Path: event.Name}
	default:
		return nil
	}
}

func isModelFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), modelExt)
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
