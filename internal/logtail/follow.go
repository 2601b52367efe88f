package logtail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/five82/logpanel/internal/logstore"
)

// Sink receives parsed records. *logstore.Store satisfies it.
type Sink interface {
	Append(rec logstore.Record)
}

// Follower tails one file into a Sink, like tail -F. It survives truncation
// and the file being replaced by rotation.
type Follower struct {
	path    string
	sink    Sink
	offset  int64
	onError func(error)
}

// NewFollower returns a follower positioned at the start of path. Call
// Backfill to skip to the end first.
func NewFollower(path string, sink Sink, onError func(error)) *Follower {
	if onError == nil {
		onError = func(error) {}
	}
	return &Follower{path: filepath.Clean(path), sink: sink, onError: onError}
}

// Path returns the followed file.
func (f *Follower) Path() string {
	return f.path
}

// Backfill loads the last maxLines of the file and moves the read position to
// its end. A missing file is not an error; following starts when it appears.
func (f *Follower) Backfill(maxLines int) error {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.offset = 0
			return nil
		}
		return fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}
	size := info.Size()

	lines, err := readTail(io.LimitReader(file, size), maxLines)
	if err != nil {
		return err
	}
	for _, line := range lines {
		f.emit(line)
	}
	f.offset = size
	return nil
}

// ReadNew appends every complete line written since the last read and returns
// how many records it produced. A trailing partial line is left for the next
// call.
func (f *Follower) ReadNew() (int, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.offset = 0
			return 0, nil
		}
		return 0, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < f.offset {
		// truncated in place
		f.offset = 0
	}
	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek log: %w", err)
	}

	reader := bufio.NewReader(file)
	count := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return count, nil
			}
			return count, fmt.Errorf("read log: %w", err)
		}
		f.offset += int64(len(line))
		if f.emit(line) {
			count++
		}
	}
}

func (f *Follower) emit(line string) bool {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return false
	}
	f.sink.Append(ParseLine(line, f.path))
	return true
}

// Run watches the file's directory and reads new lines on every write until
// ctx is cancelled. Watching the directory rather than the file keeps the
// follower attached across rotation.
func (f *Follower) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(f.path), err)
	}

	// catch anything written between Backfill and the watch starting
	if _, err := f.ReadNew(); err != nil {
		f.onError(err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				f.offset = 0
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if _, err := f.ReadNew(); err != nil {
					f.onError(err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.onError(fmt.Errorf("watch %s: %w", f.path, err))
		}
	}
}
