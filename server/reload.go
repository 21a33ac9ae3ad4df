/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package server

import (
	"encoding/json"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/nabbar/highway/internal/hwerr"
	"github.com/nabbar/highway/internal/hwlog"
	"github.com/nabbar/highway/socket"
	"github.com/sirupsen/logrus"
)

// DecodeSocketConfig decodes a generic map (as produced by unmarshalling a
// JSON config file, or handed in directly by an embedder) into a
// socket.Config, accepting duration fields written as "5s"-style strings.
func DecodeSocketConfig(raw map[string]interface{}) (socket.Config, error) {
	var cfg socket.Config

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, hwerr.Wrap(hwerr.ConfigInvalid, err)
	}

	if err = dec.Decode(raw); err != nil {
		return cfg, hwerr.Wrap(hwerr.ConfigInvalid, err)
	}

	return cfg, cfg.Validate()
}

// ReloadWatcher watches a JSON config file and calls onReload with the
// freshly decoded socket.Config every time the file is written. The
// caller is responsible for applying the new config (e.g. by restarting
// the Server's listener); ReloadWatcher only decodes and validates.
type ReloadWatcher struct {
	w   *fsnotify.Watcher
	log hwlog.FuncLog
}

// WatchConfigFile starts watching path for writes. Stop must be called to
// release the underlying inotify/kqueue handle.
func WatchConfigFile(path string, log hwlog.FuncLog, onReload func(socket.Config, error)) (*ReloadWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, hwerr.Wrap(hwerr.ConfigInvalid, err)
	}

	if err = w.Add(path); err != nil {
		_ = w.Close()
		return nil, hwerr.Wrap(hwerr.ConfigInvalid, err)
	}

	rw := &ReloadWatcher{w: w, log: log}

	go rw.run(path, onReload)

	return rw, nil
}

func (rw *ReloadWatcher) run(path string, onReload func(socket.Config, error)) {
	logger := hwlog.Resolve(rw.log)

	for {
		select {
		case ev, ok := <-rw.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := decodeConfigFile(path)
			if err != nil {
				logger.Entry(logrus.WarnLevel, "config reload failed").Field("path", path).ErrorAdd(true, err).Log()
			}
			onReload(cfg, err)

		case err, ok := <-rw.w.Errors:
			if !ok {
				return
			}
			logger.Entry(logrus.WarnLevel, "config watcher error").ErrorAdd(true, err).Log()
		}
	}
}

func decodeConfigFile(path string) (socket.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return socket.Config{}, hwerr.Wrap(hwerr.ConfigInvalid, err)
	}

	var raw map[string]interface{}
	if err = json.Unmarshal(data, &raw); err != nil {
		return socket.Config{}, hwerr.Wrap(hwerr.ConfigInvalid, err)
	}

	return DecodeSocketConfig(raw)
}

// Stop closes the watcher. Safe to call once.
func (rw *ReloadWatcher) Stop() error {
	return rw.w.Close()
}
