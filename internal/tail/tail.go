// Package tail provides "tail -f" style log file following with rotation
// detection, feeding raw lines to a callback.
package tail

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// maxLineSize bounds the scanner buffer (1MB, generous for JSON logs).
const maxLineSize = 1024 * 1024

// Options configures the tailer behavior.
type Options struct {
	FilePath     string                  // Path to the log file
	FromStart    bool                    // Read the existing content before following
	Follow       bool                    // Whether to follow the file for new content
	FollowRotate bool                    // Whether to follow through log rotations
	OutputFunc   func(line string) error // Called for each line, in file order
}

// Tailer follows a log file and streams its lines.
type Tailer struct {
	opts    Options
	file    *os.File
	offset  int64
	watcher *fsnotify.Watcher
}

// New creates a new Tailer with the given options.
func New(opts Options) *Tailer {
	return &Tailer{opts: opts}
}

// Run starts the tailing process. It blocks until the context is cancelled
// or an error occurs.
func (t *Tailer) Run(ctx context.Context) error {
	f, err := os.Open(t.opts.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	t.file = f
	defer t.close()

	if t.opts.FromStart {
		if err := t.readNewContent(); err != nil {
			return err
		}
	} else {
		if t.offset, err = t.file.Seek(0, io.SeekEnd); err != nil {
			return err
		}
	}

	if !t.opts.Follow {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	t.watcher = watcher
	defer watcher.Close()

	if err := watcher.Add(t.opts.FilePath); err != nil {
		return err
	}

	return t.watch(ctx)
}

func (t *Tailer) close() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}

// watch dispatches filesystem events until the context ends.
func (t *Tailer) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-t.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if err := t.handleEvent(ctx, event); err != nil {
				return err
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (t *Tailer) handleEvent(ctx context.Context, event fsnotify.Event) error {
	switch {
	case event.Op.Has(fsnotify.Write):
		return t.readNewContent()

	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		return t.handleRotation(ctx)
	}
	return nil
}

// readNewContent reads from the last known offset to the end of the file
// and emits each line.
func (t *Tailer) readNewContent() error {
	if _, err := t.file.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}

	scanner := bufio.NewScanner(t.file)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)

	for scanner.Scan() {
		if err := t.opts.OutputFunc(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	var err error
	t.offset, err = t.file.Seek(0, io.SeekCurrent)
	return err
}

// handleRotation reopens the file after a rename/remove, waiting up to ten
// seconds for the new file to appear.
func (t *Tailer) handleRotation(ctx context.Context) error {
	if !t.opts.FollowRotate {
		return fmt.Errorf("file rotated")
	}

	t.close()

	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("timeout waiting for rotated file to reappear")
		case <-ticker.C:
			f, err := os.Open(t.opts.FilePath)
			if err != nil {
				continue
			}
			t.file = f
			t.offset = 0
			if err := t.watcher.Add(t.opts.FilePath); err != nil {
				return fmt.Errorf("failed to watch rotated file: %w", err)
			}
			return t.readNewContent()
		}
	}
}
