package camera

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a camera definition file when it changes on disk.
// Changes are picked up by Poll on the frame thread.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	changed chan struct{}
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
	Logger  *log.Logger
}

// Watch starts watching path. The directory is watched so that editors
// replacing the file by rename are noticed.
func Watch(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		path:    path,
		changed: make(chan struct{}, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		Logger:  log.Default(),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	var last time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			now := time.Now()
			if now.Sub(last) < 100*time.Millisecond {
				continue
			}
			last = now
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// Poll applies a pending change to c. A file that fails to parse is logged
// and the current table stays. It reports whether c was updated.
func (w *Watcher) Poll(c *Camera) bool {
	select {
	case <-w.changed:
	default:
		return false
	}
	defs, err := LoadDefinitions(w.path)
	if err != nil {
		w.Logger.Printf("[camera] reload failed: %v", err)
		return false
	}
	c.SetDefinitions(defs)
	w.Logger.Printf("[camera] reloaded %s", w.path)
	return true
}
