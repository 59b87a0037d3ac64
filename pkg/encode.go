package pkg

import (
	"github.com/pkg/errors"

	"github.com/gravestench/anim/internal/bitio"
)

// Encode writes the group in anim.mul record layout. Frames are laid out
// back to back after the offset table, in Frames order, and the offset table
// is rebuilt from that layout; FrameCount is written as len(Frames).
func (g *AnimationGroup) Encode() ([]byte, error) {
	const frameOffsetBytes = 4

	bodies := make([][]byte, len(g.Frames))

	for frameIdx, frame := range g.Frames {
		body, err := frame.encode()
		if err != nil {
			return nil, errors.Wrapf(err, "encoding frame %d", frameIdx)
		}

		bodies[frameIdx] = body
	}

	stream := bitio.NewWriter()

	for _, entry := range g.Palette {
		if err := stream.WriteUint16(entry); err != nil {
			return nil, errors.Wrap(err, "encoding palette")
		}
	}

	if err := stream.WriteUint32(uint32(len(bodies))); err != nil {
		return nil, errors.Wrap(err, "encoding frame count")
	}

	// offsets count from the end of the palette, past the count and the table
	offset := uint32(frameOffsetBytes + len(bodies)*frameOffsetBytes)
	for _, body := range bodies {
		if err := stream.WriteUint32(offset); err != nil {
			return nil, errors.Wrap(err, "encoding frame offsets")
		}

		offset += uint32(len(body))
	}

	for _, body := range bodies {
		if err := stream.WriteBytes(body); err != nil {
			return nil, errors.Wrap(err, "encoding frames")
		}
	}

	return stream.Bytes(), nil
}

func (f *Frame) encode() ([]byte, error) {
	stream := bitio.NewWriter()

	if err := f.encodeHeader(stream); err != nil {
		return nil, errors.Wrap(err, "header")
	}

	for rowIdx, row := range f.Rows {
		if row.Header == RowSentinel {
			return nil, errors.Wrapf(ErrInvalidRow, "row %d header is the row sentinel", rowIdx)
		}

		if len(row.ImageData) != row.RunLength() {
			return nil, errors.Wrapf(ErrInvalidRow, "row %d has %d bytes, header says %d",
				rowIdx, len(row.ImageData), row.RunLength())
		}

		if err := stream.WriteUint32(row.Header); err != nil {
			return nil, errors.Wrapf(err, "row %d header", rowIdx)
		}

		if err := stream.WriteBytes(row.ImageData); err != nil {
			return nil, errors.Wrapf(err, "row %d data", rowIdx)
		}
	}

	if err := stream.WriteUint32(RowSentinel); err != nil {
		return nil, errors.Wrap(err, "row sentinel")
	}

	return stream.Bytes(), nil
}

func (f *Frame) encodeHeader(stream *bitio.Writer) error {
	if err := stream.WriteInt16(f.CentreX); err != nil {
		return err
	}

	if err := stream.WriteInt16(f.CentreY); err != nil {
		return err
	}

	if err := stream.WriteUint16(f.Width); err != nil {
		return err
	}

	return stream.WriteUint16(f.Height)
}
