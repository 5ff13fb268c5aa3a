package asset

import (
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates cached assets when their source images change on
// disk, so a replaced catalog image takes effect without a restart.
type Watcher struct {
	cache   *Cache
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher starts watching dir for image changes feeding cache invalidation.
func NewWatcher(cache *Cache, dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		cache:   cache,
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				log.Printf("asset file changed: %s, invalidating", event.Name)
				w.cache.InvalidatePath(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("asset watcher error: %v", err)
		}
	}
}

// Close stops watching and waits for the event loop to finish.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
