// Package bitio wraps bitstream readers and writers for byte-aligned,
// little-endian record data.
//
// bitstream moves every byte through a package-level scratch buffer, so all
// stream access in this module goes through streamMu.
package bitio

import (
	"sync"

	"github.com/gravestench/bitstream"
	"github.com/pkg/errors"
)

// ErrTruncated is returned when a read runs past the end of the data.
var ErrTruncated = errors.New("truncated record data")

var streamMu sync.Mutex

// Reader is a linear read/seek position over a byte slice. It tracks its own
// position so that a read past the end is reported as ErrTruncated before
// the stream is touched.
type Reader struct {
	stream *bitstream.Reader
	pos    int64
	size   int64
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{
		stream: bitstream.ReaderFromBytes(data...),
		size:   int64(len(data)),
	}
}

// Remaining returns the number of bytes after the current position.
func (r *Reader) Remaining() int64 {
	return r.size - r.pos
}

// Seek moves to the absolute byte position pos.
func (r *Reader) Seek(pos int64) error {
	if pos < 0 || pos > r.size {
		return errors.Wrapf(ErrTruncated, "seek to %d, data is %d bytes", pos, r.size)
	}

	streamMu.Lock()
	r.stream.SetPosition(int(pos))
	streamMu.Unlock()

	r.pos = pos

	return nil
}

func (r *Reader) next(n int) (bitstream.Bits, error) {
	if int64(n) > r.Remaining() {
		return nil, errors.Wrapf(ErrTruncated, "need %d bytes at %d, data is %d bytes", n, r.pos, r.size)
	}

	streamMu.Lock()
	res := r.stream.Next(n).Bytes()
	streamMu.Unlock()

	// the stream can still fail on its own; that also means the data ended early
	if res.Error != nil {
		return nil, errors.Wrapf(ErrTruncated, "reading at %d: %v", r.pos, res.Error)
	}

	r.pos += int64(n)

	return res.Bits, nil
}

// ReadInt16 reads a little-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	const numBytes = 2

	bits, err := r.next(numBytes)
	if err != nil {
		return 0, err
	}

	return bits.AsInt16(), nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	const numBytes = 2

	bits, err := r.next(numBytes)
	if err != nil {
		return 0, err
	}

	return bits.AsUInt16(), nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	const numBytes = 4

	bits, err := r.next(numBytes)
	if err != nil {
		return 0, err
	}

	return bits.AsUInt32(), nil
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}

	bits, err := r.next(n)
	if err != nil {
		return nil, err
	}

	return bits.AsBytes(), nil
}

// Writer appends little-endian values to a bitstream writer.
type Writer struct {
	stream *bitstream.Writer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{stream: &bitstream.Writer{}}
}

func (w *Writer) write(b ...byte) error {
	streamMu.Lock()
	defer streamMu.Unlock()

	_, err := w.stream.WriteBytes(b)

	return err
}

// WriteInt16 writes v as a little-endian int16.
func (w *Writer) WriteInt16(v int16) error {
	return w.WriteUint16(uint16(v))
}

// WriteUint16 writes v as a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) error {
	return w.write(byte(v), byte(v>>8))
}

// WriteUint32 writes v as a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) error {
	return w.write(byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// WriteBytes writes b unchanged.
func (w *Writer) WriteBytes(b []byte) error {
	return w.write(b...)
}

// Bytes returns a copy of everything written so far.
func (w *Writer) Bytes() []byte {
	streamMu.Lock()
	defer streamMu.Unlock()

	return w.stream.Bytes()
}
