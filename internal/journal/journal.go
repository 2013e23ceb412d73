// Package journal records simulation events as zstd-compressed JSON lines.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/hammamikhairi/ottokitchen/internal/domain"
	"github.com/hammamikhairi/ottokitchen/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Journal = (*Writer)(nil)
	_ domain.Journal = (*Memory)(nil)
)

// Entry is one journal line.
type Entry struct {
	Seq    uint64         `json:"seq"`
	At     time.Time      `json:"at"`
	Kind   string         `json:"kind"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Writer appends entries to <dir>/<prefix>-<start>.jsonl.zst. The file is
// opened on the first entry. Safe for concurrent use.
type Writer struct {
	dir    string
	prefix string
	log    *logger.Logger
	now    func() time.Time

	mu   sync.Mutex
	seq  uint64
	path string
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer
	err  error
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets where write failures are reported.
func WithLogger(l *logger.Logger) Option {
	return func(w *Writer) { w.log = l }
}

// WithNow overrides the wall clock used to stamp entries.
func WithNow(fn func() time.Time) Option {
	return func(w *Writer) { w.now = fn }
}

// NewWriter creates a journal writer under dir.
func NewWriter(dir, prefix string, opts ...Option) *Writer {
	w := &Writer{
		dir:    dir,
		prefix: prefix,
		log:    logger.New(logger.LevelOff, nil),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Record implements domain.Journal. A failed write is logged once and
// disables the writer.
func (w *Writer) Record(kind string, fields map[string]any) {
	if err := w.Write(kind, fields); err != nil {
		w.log.Error("journal: %v", err)
	}
}

// Write appends one entry and flushes it through the encoder.
func (w *Writer) Write(kind string, fields map[string]any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return nil
	}
	if w.f == nil {
		if err := w.openLocked(); err != nil {
			w.err = err
			return err
		}
	}

	w.seq++
	b, err := json.Marshal(Entry{Seq: w.seq, At: w.now().UTC(), Kind: kind, Fields: fields})
	if err != nil {
		return fmt.Errorf("encoding %s entry: %w", kind, err)
	}
	if _, err := w.w.Write(b); err != nil {
		w.err = err
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		w.err = err
		return err
	}
	return w.w.Flush()
}

// Path returns the file being written, or "" before the first entry.
func (w *Writer) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Writer) openLocked() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, w.now().UTC().Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.path = path
	return nil
}

func (w *Writer) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

// ReadFile decodes every entry of a journal file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes every entry from a zstd JSONL stream.
func Read(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Entry
	jd := json.NewDecoder(dec)
	for {
		var e Entry
		err := jd.Decode(&e)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("entry %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
}

// Memory keeps entries in memory. Scripts and tests read them back.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// Record implements domain.Journal.
func (m *Memory) Record(kind string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Seq: uint64(len(m.entries) + 1), Kind: kind, Fields: fields})
}

// Entries returns a copy of everything recorded so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Kinds returns the kind of every entry, in order.
func (m *Memory) Kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Kind
	}
	return out
}

// Tee records to several journals in order.
type Tee []domain.Journal

// Record implements domain.Journal.
func (t Tee) Record(kind string, fields map[string]any) {
	for _, j := range t {
		j.Record(kind, fields)
	}
}
