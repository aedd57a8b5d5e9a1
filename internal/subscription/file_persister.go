package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileFormatVersion = 1

type fileDocument struct {
	Version      int               `json:"version"`
	Destinations map[string]Record `json:"destinations"`
}

// FilePersister keeps the whole state in one JSON file. Each write goes to a
// temporary file in the same directory which is synced and renamed over the
// previous version.
type FilePersister struct {
	path  string
	mu    sync.Mutex
	state State
	// readErr is set while the file exists but cannot be read. Writes are
	// refused until a Load succeeds.
	readErr  error
	readFile func(string) ([]byte, error)
	now      func() time.Time
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{
		path:     path,
		state:    make(State),
		readFile: os.ReadFile,
		now:      time.Now,
	}
}

// Load reads the file. A missing file is an empty state. A file that cannot
// be decoded is renamed to <path>.corrupt-<unix> and reported as
// ErrCorruptState. Any other read error leaves the file in place and blocks
// writes with ErrStateUnavailable.
func (p *FilePersister) Load(_ context.Context) (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = make(State)
	p.readErr = nil

	data, err := p.readFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		p.readErr = fmt.Errorf("failed to read %s: %w", p.path, err)
		return nil, p.readErr
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", p.path, p.now().Unix())
		if renameErr := os.Rename(p.path, aside); renameErr != nil {
			return nil, fmt.Errorf("%w: %v (and could not move it aside: %v)", ErrCorruptState, err, renameErr)
		}
		return nil, fmt.Errorf("%w: %v (moved to %s)", ErrCorruptState, err, aside)
	}

	out := make(State, len(doc.Destinations))
	for dest, rec := range doc.Destinations {
		p.state[dest] = rec.clone()
		out[dest] = rec.clone()
	}
	return out, nil
}

func (p *FilePersister) Put(_ context.Context, destination string, record Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.readErr != nil {
		return fmt.Errorf("%w: %v", ErrStateUnavailable, p.readErr)
	}

	next := p.snapshot()
	next[destination] = record.clone()
	return p.write(next)
}

func (p *FilePersister) Delete(_ context.Context, destination string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.readErr != nil {
		return fmt.Errorf("%w: %v", ErrStateUnavailable, p.readErr)
	}

	if _, ok := p.state[destination]; !ok {
		return nil
	}
	next := p.snapshot()
	delete(next, destination)
	return p.write(next)
}

func (p *FilePersister) snapshot() State {
	next := make(State, len(p.state)+1)
	for dest, rec := range p.state {
		next[dest] = rec
	}
	return next
}

// write makes next durable and only then adopts it as the current state.
func (p *FilePersister) write(next State) error {
	data, err := json.MarshalIndent(fileDocument{Version: fileFormatVersion, Destinations: next}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode subscriptions: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", p.path, err)
	}
	syncDir(dir)

	p.state = next
	return nil
}

// syncDir flushes the rename itself. Not every platform supports syncing a
// directory, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	d.Sync()
	d.Close()
}
