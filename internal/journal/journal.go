// Package journal persists runtime option changes so the latest configuration
// survives a restart.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tinytelemetry/quickstart/internal/model"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

type entry struct {
	Seq     uint64        `json:"seq"`
	At      time.Time     `json:"at"`
	Options model.Options `json:"options"`
}

// Journal is an append-only log of option snapshots, one JSON entry per line.
// Only the newest entry matters; older ones are dropped when the journal is
// reopened.
type Journal struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	nextSeq uint64
	latest  *entry
}

// Open creates or opens a journal at path. On startup it compacts to the
// newest entry and ignores a partially written trailing line.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, fmt.Errorf("journal: mkdir: %w", err)
	}

	latest, err := compact(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, defaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}

	next := uint64(1)
	if latest != nil {
		next = latest.Seq + 1
	}
	return &Journal{path: path, file: f, nextSeq: next, latest: latest}, nil
}

// Append persists opts and returns its sequence number.
func (j *Journal) Append(opts model.Options) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return 0, errors.New("journal: closed")
	}

	e := entry{Seq: j.nextSeq, At: time.Now().UTC(), Options: opts.Clone()}
	line, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("journal: marshal entry: %w", err)
	}
	line = append(line, '\n')

	if _, err := j.file.Write(line); err != nil {
		return 0, fmt.Errorf("journal: write entry: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return 0, fmt.Errorf("journal: sync entry: %w", err)
	}
	j.nextSeq++
	j.latest = &e
	return e.Seq, nil
}

// Latest returns the newest journaled options.
func (j *Journal) Latest() (model.Options, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.latest == nil {
		return model.Options{}, false
	}
	return j.latest.Options.Clone(), true
}

// Close closes the underlying journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// compact rewrites path so it holds only its newest complete entry.
func compact(path string) (*entry, error) {
	src, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, defaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("journal: open source for compact: %w", err)
	}
	defer src.Close()

	var latest *entry
	var latestLine []byte

	reader := bufio.NewReader(src)
	for {
		line, rerr := reader.ReadBytes('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return nil, fmt.Errorf("journal: compact read: %w", rerr)
		}
		if len(line) == 0 || line[len(line)-1] != '\n' {
			// EOF, or a partial trailing line from an interrupted write.
			break
		}

		var e entry
		if uerr := json.Unmarshal(line, &e); uerr != nil {
			break
		}
		if latest == nil || e.Seq > latest.Seq {
			ec := e
			latest = &ec
			latestLine = line
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
	}

	tmpPath := path + ".compact"
	if err := writeFileSync(tmpPath, latestLine); err != nil {
		return nil, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("journal: compact rename: %w", err)
	}
	return latest, nil
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, defaultFileMode)
	if err != nil {
		return fmt.Errorf("journal: open compact tmp: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("journal: compact write: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("journal: compact sync: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("journal: compact close: %w", err)
	}
	return nil
}
