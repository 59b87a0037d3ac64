// Package mul implements a record locator over an anim.idx / anim.mul file
// pair.
//
// The index file is a flat table of fixed-size entries, one per record id,
// each pointing at a byte range in the data file.
package mul

import (
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/gravestench/anim/internal/bitio"
	"github.com/gravestench/anim/pkg"
)

const (
	// EntrySize is the size in bytes of one index entry.
	EntrySize = 12

	emptyStart = 0xFFFFFFFF
)

// Entry is one decoded index entry.
type Entry struct {
	Start  uint32
	Length uint32
	Extra1 uint16
	Extra2 uint16
}

// Empty reports whether the entry points at no record.
func (e Entry) Empty() bool {
	return e.Start == emptyStart || e.Length == 0
}

// File is an index/data pair. It is safe for concurrent use as long as the
// underlying readers are.
type File struct {
	index     io.ReaderAt
	indexSize int64
	data      io.ReaderAt
	dataSize  int64
	closers   []io.Closer
}

var _ pkg.RecordLocator = &File{}

// New returns a File reading entries from index, which holds indexSize bytes,
// and records from data, which holds dataSize bytes.
func New(index io.ReaderAt, indexSize int64, data io.ReaderAt, dataSize int64) *File {
	return &File{
		index:     index,
		indexSize: indexSize,
		data:      data,
		dataSize:  dataSize,
	}
}

// Open opens the index and data files at the passed paths.
func Open(indexPath, dataPath string) (*File, error) {
	idx, err := os.Open(indexPath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening index file %q", indexPath)
	}

	idxStat, err := idx.Stat()
	if err != nil {
		idx.Close()
		return nil, errors.Wrapf(err, "stat index file %q", indexPath)
	}

	data, err := os.Open(dataPath)
	if err != nil {
		idx.Close()
		return nil, errors.Wrapf(err, "opening data file %q", dataPath)
	}

	dataStat, err := data.Stat()
	if err != nil {
		idx.Close()
		data.Close()
		return nil, errors.Wrapf(err, "stat data file %q", dataPath)
	}

	glog.V(1).Infof("mul: opened %q (%d entries) and %q (%d bytes)",
		indexPath, idxStat.Size()/EntrySize, dataPath, dataStat.Size())

	f := New(idx, idxStat.Size(), data, dataStat.Size())
	f.closers = []io.Closer{idx, data}

	return f, nil
}

// Close closes files opened by Open. It is a no-op for a File made with New.
func (f *File) Close() error {
	var first error

	for _, c := range f.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}

	f.closers = nil

	return first
}

// Len returns the number of entries in the index.
func (f *File) Len() int {
	return int(f.indexSize / EntrySize)
}

// Entry reads the index entry for the passed id.
func (f *File) Entry(id uint32) (Entry, error) {
	if int64(id) >= int64(f.Len()) {
		return Entry{}, errors.Wrapf(pkg.ErrNotFound, "id %d, index has %d entries", id, f.Len())
	}

	buf := make([]byte, EntrySize)
	if _, err := f.index.ReadAt(buf, int64(id)*EntrySize); err != nil {
		return Entry{}, errors.Wrapf(pkg.ErrIOFailure, "reading index entry %d: %v", id, err)
	}

	stream := bitio.NewReader(buf)

	// for brevity, errors are thrown away until the last read
	start, _ := stream.ReadUint32()
	length, _ := stream.ReadUint32()
	extra1, _ := stream.ReadUint16()

	extra2, err := stream.ReadUint16()
	if err != nil {
		return Entry{}, errors.Wrapf(pkg.ErrIOFailure, "decoding index entry %d: %v", id, err)
	}

	return Entry{
		Start:  start,
		Length: length,
		Extra1: extra1,
		Extra2: extra2,
	}, nil
}

// Locate returns the raw record bytes for the passed id.
func (f *File) Locate(id uint32) ([]byte, error) {
	entry, err := f.Entry(id)
	if err != nil {
		return nil, err
	}

	if entry.Empty() {
		return nil, errors.Wrapf(pkg.ErrNotFound, "id %d has an empty index entry", id)
	}

	// check before allocating, a corrupt entry must not size the buffer
	if end := int64(entry.Start) + int64(entry.Length); end > f.dataSize {
		return nil, errors.Wrapf(pkg.ErrIOFailure, "record %d spans %d..%d, data is %d bytes",
			id, entry.Start, end, f.dataSize)
	}

	raw := make([]byte, entry.Length)

	n, err := f.data.ReadAt(raw, int64(entry.Start))
	if n != len(raw) {
		return nil, errors.Wrapf(pkg.ErrIOFailure, "reading record %d: got %d of %d bytes at %d: %v",
			id, n, len(raw), entry.Start, err)
	}

	glog.V(2).Infof("mul: record %d at %d, %d bytes", id, entry.Start, entry.Length)

	return raw, nil
}
