// Copyright 2025 R5 Labs
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

package config

import (
	"github.com/fsnotify/fsnotify"

	"github.com/r5-labs/relayer/log"
)

// Watcher re-validates the config file on every write, for `relayer start
// --watch`. It never hot-swaps a running chain's identity — set or
// removed chains are reported through Changed but applying them is left
// to the caller, which must restart the affected workers explicitly.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	log     log.Logger
	Changed chan *Config
}

// NewWatcher starts watching path for writes.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		path:    path,
		fsw:     fsw,
		log:     log.New("component", "config-watcher"),
		Changed: make(chan *Config, 1),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.log.Warn("config file changed but failed to reload", "err", err)
				continue
			}
			w.log.Info("config file reloaded", "path", w.path)
			select {
			case w.Changed <- cfg:
			default:
				<-w.Changed
				w.Changed <- cfg
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", "err", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
