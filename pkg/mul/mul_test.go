package mul

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravestench/anim/pkg"
)

func testRecord(t *testing.T, centreX int16) []byte {
	t.Helper()

	group := &pkg.AnimationGroup{
		FrameCount: 1,
		Frames: []*pkg.Frame{{
			CentreX: centreX,
			Width:   2,
			Height:  1,
			Rows:    []*pkg.Row{{Header: 0x00001002, ImageData: []byte{4, 5}}},
		}},
	}
	group.Palette[1] = 0x7FFF

	raw, err := group.Encode()
	require.NoError(t, err)

	return raw
}

// testFiles lays out records 0 and 2 in the data file, with entry 1 empty
// and entry 3 pointing past the end of the data.
func testFiles(t *testing.T) (index, data []byte) {
	t.Helper()

	rec0 := testRecord(t, 11)
	rec2 := testRecord(t, 22)

	dataBuf := &bytes.Buffer{}
	dataBuf.Write([]byte{0xDE, 0xAD})
	dataBuf.Write(rec0)
	dataBuf.Write(rec2)

	entries := []Entry{
		{Start: 2, Length: uint32(len(rec0)), Extra1: 1, Extra2: 2},
		{Start: emptyStart, Length: 0},
		{Start: uint32(2 + len(rec0)), Length: uint32(len(rec2))},
		{Start: uint32(dataBuf.Len()), Length: 10},
	}

	return indexOf(t, entries...), dataBuf.Bytes()
}

func newTestFile(t *testing.T) *File {
	index, data := testFiles(t)

	return New(bytes.NewReader(index), int64(len(index)), bytes.NewReader(data), int64(len(data)))
}

func indexOf(t *testing.T, entries ...Entry) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	for _, e := range entries {
		require.NoError(t, binary.Write(buf, binary.LittleEndian, e))
	}

	return buf.Bytes()
}

func TestEntry(t *testing.T) {
	f := newTestFile(t)

	assert.Equal(t, 4, f.Len())

	e, err := f.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), e.Start)
	assert.Equal(t, uint16(1), e.Extra1)
	assert.Equal(t, uint16(2), e.Extra2)
	assert.False(t, e.Empty())

	e, err = f.Entry(1)
	require.NoError(t, err)
	assert.True(t, e.Empty())

	_, err = f.Entry(4)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestLocate(t *testing.T) {
	f := newTestFile(t)

	raw, err := f.Locate(2)
	require.NoError(t, err)
	assert.Equal(t, testRecord(t, 22), raw)

	for name, tc := range map[string]struct {
		id   uint32
		want error
	}{
		"empty entry":  {id: 1, want: pkg.ErrNotFound},
		"out of range": {id: 1000, want: pkg.ErrNotFound},
		"short data":   {id: 3, want: pkg.ErrIOFailure},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.Locate(tc.id)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReaderOverFile(t *testing.T) {
	r := pkg.NewReader(newTestFile(t))

	group, err := r.ReadAnimationGroup(0)
	require.NoError(t, err)
	require.Len(t, group.Frames, 1)
	assert.Equal(t, int16(11), group.Frames[0].CentreX)
	assert.Equal(t, uint16(0x7FFF), group.Palette[1])
	assert.Equal(t, []byte{4, 5}, group.Frames[0].Rows[0].ImageData)

	_, err = r.ReadAnimationGroup(1)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestOpen(t *testing.T) {
	index, data := testFiles(t)

	dir := t.TempDir()
	indexPath := filepath.Join(dir, "anim.idx")
	dataPath := filepath.Join(dir, "anim.mul")
	require.NoError(t, os.WriteFile(indexPath, index, 0o644))
	require.NoError(t, os.WriteFile(dataPath, data, 0o644))

	f, err := Open(indexPath, dataPath)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, 4, f.Len())

	raw, err := f.Locate(0)
	require.NoError(t, err)
	assert.Equal(t, testRecord(t, 11), raw)

	_, err = Open(filepath.Join(dir, "missing.idx"), dataPath)
	assert.Error(t, err)
}

func TestLocateRejectsLengthPastData(t *testing.T) {
	data := testRecord(t, 1)
	index := indexOf(t,
		Entry{Start: 0, Length: 0xFFFFFFF0},
		Entry{Start: 0xFFFFFFF0, Length: 4},
		Entry{Start: 1, Length: uint32(len(data))},
	)

	f := New(bytes.NewReader(index), int64(len(index)), bytes.NewReader(data), int64(len(data)))

	for id := uint32(0); id < 3; id++ {
		raw, err := f.Locate(id)
		assert.Nil(t, raw)
		assert.ErrorIs(t, err, pkg.ErrIOFailure, "id %d", id)
	}
}

func TestLocateShortDataRead(t *testing.T) {
	data := testRecord(t, 1)
	index := indexOf(t, Entry{Start: 0, Length: uint32(len(data)) + 8})

	// the size claims more than the reader can return
	f := New(bytes.NewReader(index), int64(len(index)), bytes.NewReader(data), int64(len(data))+8)

	_, err := f.Locate(0)
	assert.ErrorIs(t, err, pkg.ErrIOFailure)
}

func TestEntryDecodesFromIndexBytes(t *testing.T) {
	index := []byte{
		0x10, 0x00, 0x00, 0x00,
		0x20, 0x01, 0x00, 0x00,
		0x03, 0x00,
		0xFF, 0xFF,
	}

	f := New(bytes.NewReader(index), int64(len(index)), bytes.NewReader(nil), 0)

	e, err := f.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, Entry{Start: 0x10, Length: 0x120, Extra1: 3, Extra2: 0xFFFF}, e)
}
