// Package record writes popped observation batches to a msgpack stream
// and reads them back for replay.
package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/randomizedcoder/shiftbuf/internal/layoutshift"
)

// Version is written in every batch header.
const Version = 1

// ErrVersion is returned when a stream was written by another format version.
var ErrVersion = errors.New("record: unsupported version")

// Batch is one popped batch as it was handed to the consumer.
type Batch struct {
	Version int                 `msgpack:"v"`
	Session string              `msgpack:"session"`
	Seq     uint64              `msgpack:"seq"`
	At      time.Time           `msgpack:"at"`
	Entries []layoutshift.Entry `msgpack:"entries"`
}

// Writer appends batches to a stream under one session id.
type Writer struct {
	w       *bufio.Writer
	enc     *msgpack.Encoder
	closer  io.Closer
	session string
	now     func() time.Time
}

// NewWriter writes to w with a fresh session id.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	return &Writer{
		w:       bw,
		enc:     msgpack.NewEncoder(bw),
		session: uuid.NewString(),
		now:     time.Now,
	}
}

// Create opens path for writing, truncating it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// Session returns the id stamped on every batch.
func (w *Writer) Session() string { return w.session }

// Write encodes one batch.
func (w *Writer) Write(seq uint64, entries []layoutshift.Entry) error {
	b := Batch{
		Version: Version,
		Session: w.session,
		Seq:     seq,
		At:      w.now().UTC(),
		Entries: entries,
	}
	if err := w.enc.Encode(&b); err != nil {
		return fmt.Errorf("encode batch %d: %w", seq, err)
	}
	return nil
}

// Flush writes buffered batches to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Close flushes and closes the file opened by Create. Later calls only
// flush.
func (w *Writer) Close() error {
	err := w.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
		w.closer = nil
	}
	return err
}

// Reader decodes batches from a stream.
type Reader struct {
	dec    *msgpack.Decoder
	closer io.Closer
}

// NewReader reads batches from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: msgpack.NewDecoder(bufio.NewReader(r))}
}

// Open opens path for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record: %w", err)
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

// Read returns the next batch, or io.EOF at the end of the stream.
func (r *Reader) Read() (Batch, error) {
	var b Batch
	if err := r.dec.Decode(&b); err != nil {
		if errors.Is(err, io.EOF) {
			return Batch{}, io.EOF
		}
		return Batch{}, fmt.Errorf("decode batch: %w", err)
	}
	if b.Version != Version {
		return Batch{}, fmt.Errorf("%w: %d", ErrVersion, b.Version)
	}
	return b, nil
}

// ReadAll reads every remaining batch.
func (r *Reader) ReadAll() ([]Batch, error) {
	var out []Batch
	for {
		b, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
}

// Close closes the file opened by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
