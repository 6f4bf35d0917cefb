// Package decisionlog records what every boat decided each simulated second.
package decisionlog

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/a-bouts/race-trainer/boat"
	"github.com/a-bouts/race-trainer/decision"
)

// Record is one boat's decision for one second, flattened for storage.
type Record struct {
	Second     int     `msgpack:"s" json:"second"`
	Boat       string  `msgpack:"b" json:"boat"`
	X          float64 `msgpack:"x" json:"x"`
	Y          float64 `msgpack:"y" json:"y"`
	Heading    int     `msgpack:"h" json:"heading"`
	Speed      float64 `msgpack:"v" json:"speed"`
	Leg        int     `msgpack:"l" json:"leg"`
	Action     string  `msgpack:"a" json:"action"`
	Angle      int     `msgpack:"t" json:"angle"`
	TurnIsPort bool    `msgpack:"p" json:"turnisport"`
	Importance string  `msgpack:"i" json:"importance"`
	Reason     string  `msgpack:"r" json:"reason"`
}

func NewRecord(second int, b boat.State, leg int, d decision.Decision) Record {
	return Record{
		Second:     second,
		Boat:       b.Name,
		X:          b.Location.X,
		Y:          b.Location.Y,
		Heading:    b.Heading.Degrees(),
		Speed:      b.Speed,
		Leg:        leg,
		Action:     d.Action.String(),
		Angle:      d.Angle.Degrees(),
		TurnIsPort: d.TurnIsPort,
		Importance: d.Importance.String(),
		Reason:     d.Reason,
	}
}

// Sink receives records as the simulation produces them.
type Sink interface {
	Append(records ...Record) error
	Close() error
}

// Memory keeps the last size records in a ring, all of them when size is 0.
type Memory struct {
	lock    sync.RWMutex
	size    int
	records []Record
	// next is the oldest record once the ring is full.
	next int
}

func NewMemory(size int) *Memory {
	return &Memory{size: size}
}

func (m *Memory) Append(records ...Record) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, r := range records {
		if m.size <= 0 || len(m.records) < m.size {
			m.records = append(m.records, r)
			continue
		}
		m.records[m.next] = r
		m.next = (m.next + 1) % m.size
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Records returns the kept records oldest first, optionally only those of
// one boat.
func (m *Memory) Records(boat string) []Record {
	m.lock.RLock()
	defer m.lock.RUnlock()

	res := make([]Record, 0, len(m.records))
	for _, part := range [][]Record{m.records[m.next:], m.records[:m.next]} {
		for _, r := range part {
			if boat == "" || r.Boat == boat {
				res = append(res, r)
			}
		}
	}
	return res
}

// Writer streams msgpack encoded records to a file, zstd compressed when the
// file name ends in .zst.
type Writer struct {
	lock sync.Mutex
	file io.Closer
	buf  *bufio.Writer
	zw   *zstd.Encoder
	enc  *msgpack.Encoder
}

func Create(filename string) (*Writer, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, strings.HasSuffix(filename, ".zst"))
	if err != nil {
		f.Close()
		return nil, err
	}
	log.WithField("file", filename).Info("Logging decisions")
	return w, nil
}

func NewWriter(w io.WriteCloser, compress bool) (*Writer, error) {
	res := &Writer{file: w, buf: bufio.NewWriter(w)}
	var out io.Writer = res.buf
	if compress {
		zw, err := zstd.NewWriter(res.buf, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		res.zw = zw
		out = zw
	}
	res.enc = msgpack.NewEncoder(out)
	return res, nil
}

func (w *Writer) Append(records ...Record) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	for i := range records {
		if err := w.enc.Encode(&records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	var errs []error
	if w.zw != nil {
		errs = append(errs, w.zw.Close())
	}
	errs = append(errs, w.buf.Flush(), w.file.Close())
	return errors.Join(errs...)
}

// ReadAll decodes every record of r.
func ReadAll(r io.Reader, compressed bool) ([]Record, error) {
	if compressed {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}

	dec := msgpack.NewDecoder(bufio.NewReader(r))
	var res []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return res, nil
			}
			return res, err
		}
		res = append(res, rec)
	}
}

func Open(filename string) ([]Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAll(f, strings.HasSuffix(filename, ".zst"))
}

type multi []Sink

// Multi fans records out to every sink.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) Append(records ...Record) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Append(records...))
	}
	return errors.Join(errs...)
}

func (m multi) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
