package pkg

import (
	"github.com/pkg/errors"

	"github.com/gravestench/anim/internal/bitio"
)

const (
	// RowSentinel is the row header value that ends a frame's rows.
	RowSentinel uint32 = 0x7FFF7FFF

	// RunLengthMask selects the pixel count from a row header.
	RunLengthMask uint32 = 0xFFF
)

// Frame is a single decoded animation frame.
type Frame struct {
	CentreX int16
	CentreY int16
	Width   uint16
	Height  uint16
	Rows    []*Row
}

// Row is one run of pixel indices. The bits of Header above RunLengthMask
// hold the row placement, which is left undecoded.
type Row struct {
	Header    uint32
	ImageData []byte
}

// RunLength returns the number of pixel bytes that follow the row header.
func (r *Row) RunLength() int {
	return int(r.Header & RunLengthMask)
}

type frameState int

const (
	readingHeader frameState = iota
	terminal
)

func decodeFrame(stream *bitio.Reader) (frame *Frame, err error) {
	frame = &Frame{}

	if err = frame.decodeHeader(stream); err != nil {
		return nil, errors.Wrap(err, "header")
	}

	for state := readingHeader; state != terminal; {
		header, err := stream.ReadUint32()
		if err != nil {
			return nil, errors.Wrapf(err, "row %d header", len(frame.Rows))
		}

		if header == RowSentinel {
			state = terminal
			continue
		}

		row := &Row{Header: header}

		if row.ImageData, err = stream.ReadBytes(row.RunLength()); err != nil {
			return nil, errors.Wrapf(err, "row %d data", len(frame.Rows))
		}

		frame.Rows = append(frame.Rows, row)
	}

	return frame, nil
}

func (f *Frame) decodeHeader(stream *bitio.Reader) (err error) {
	if f.CentreX, err = stream.ReadInt16(); err != nil {
		return err
	}

	if f.CentreY, err = stream.ReadInt16(); err != nil {
		return err
	}

	if f.Width, err = stream.ReadUint16(); err != nil {
		return err
	}

	f.Height, err = stream.ReadUint16()

	return err
}
