package journal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Follow replays path and then keeps applying lines appended to it until ctx
// is done. A truncated or replaced file is read again from the start.
func (r *Replayer) Follow(ctx context.Context, path string, sink Sink) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve journal path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create journal watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch journal directory: %w", err)
	}

	t := &tail{path: absPath}
	if err := t.drain(ctx, r, sink); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				t.reset()
			}
			if err := t.drain(ctx, r, sink); err != nil {
				return err
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("journal watcher error", "path", absPath, "err", err)
		}
	}
}

// tail reads a growing file from the last complete line it consumed.
type tail struct {
	path    string
	offset  int64
	partial []byte
}

func (t *tail) reset() {
	t.offset = 0
	t.partial = nil
}

func (t *tail) drain(ctx context.Context, r *Replayer, sink Sink) error {
	file, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat journal: %w", err)
	}
	if info.Size() < t.offset {
		r.logger.Info("journal truncated, reading from start", "path", t.path)
		t.reset()
	}

	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek journal: %w", err)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	t.offset += int64(len(data))

	buf := append(t.partial, data...)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			break
		}
		r.Line(ctx, buf[:idx], sink)
		buf = buf[idx+1:]
	}
	t.partial = append([]byte(nil), buf...)

	return nil
}
