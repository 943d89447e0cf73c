// Package watch watches an image folder for new/changed files and feeds
// them into the pipeline using fsnotify, with directory recursion and
// per-path debounce so a half-written file isn't decoded mid-write.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/screenager/ocrcore/internal/pixbuf"
)

var supportedExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// IsSupportedFile reports whether path has a recognized image extension.
func IsSupportedFile(path string) bool {
	return supportedExt[strings.ToLower(filepath.Ext(path))]
}

// Decoder turns a file on disk into a pixel buffer; callers supply a
// concrete implementation.
type Decoder interface {
	DecodeFile(path string) (pixbuf.Buffer, error)
}

// Watcher watches one or more directory trees and pushes decoded images
// onto Images as they settle.
type Watcher struct {
	fw      *fsnotify.Watcher
	decoder Decoder
	debounce time.Duration

	Images chan pixbuf.Buffer
	Errors chan error
}

// New creates a Watcher that decodes settled files through decoder and
// debounces rapid writes to the same path by debounce.
func New(decoder Decoder, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: fsnotify: %w", err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		fw:       fw,
		decoder:  decoder,
		debounce: debounce,
		Images:   make(chan pixbuf.Buffer),
		Errors:   make(chan error),
	}, nil
}

// Watch adds rootDir (and subdirectories) to the watch list and processes
// events until done closes. Call in a goroutine; Images/Errors are not
// closed when Watch returns.
func (w *Watcher) Watch(rootDir string, done <-chan struct{}) error {
	if err := w.addDirRecursive(rootDir); err != nil {
		return err
	}

	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-done:
			return w.fw.Close()

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			path := event.Name

			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(path); err == nil && fi.IsDir() {
					_ = w.addDirRecursive(path)
					continue
				}
			}

			if !IsSupportedFile(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if t, ok := pending[path]; ok {
				t.Stop()
			}
			pending[path] = time.AfterFunc(w.debounce, func() {
				w.decodeAndEmit(path, done)
			})

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			select {
			case w.Errors <- err:
			case <-done:
			}
		}
	}
}

func (w *Watcher) decodeAndEmit(path string, done <-chan struct{}) {
	img, err := w.decoder.DecodeFile(path)
	if err != nil {
		select {
		case w.Errors <- fmt.Errorf("watch: decode %s: %w", path, err):
		case <-done:
		}
		return
	}
	select {
	case w.Images <- img:
	case <-done:
	}
}

func (w *Watcher) addDirRecursive(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if err := w.fw.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			if err := w.addDirRecursive(filepath.Join(dir, e.Name())); err != nil {
				fmt.Fprintf(os.Stderr, "[watch] skip dir: %v\n", err)
			}
		}
	}
	return nil
}
