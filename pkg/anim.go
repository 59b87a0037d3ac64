package pkg

import (
	"github.com/pkg/errors"

	"github.com/gravestench/anim/internal/bitio"
)

const (
	// PaletteSize is the number of colour entries in a group palette.
	PaletteSize = 256

	paletteEntryBytes = 2
	paletteBytes      = PaletteSize * paletteEntryBytes
)

// Palette maps a pixel index to a raw 16-bit colour value.
type Palette [PaletteSize]uint16

// AnimationGroup is one decoded anim.mul record.
//
// FrameCount is carried as read from the record; Frames follows the
// offset table.
type AnimationGroup struct {
	Palette    Palette
	FrameCount uint32
	Frames     []*Frame
}

// FromBytes decodes one animation group record. It fails as a whole: either
// every frame decodes or no group is returned.
func FromBytes(raw []byte) (*AnimationGroup, error) {
	group := &AnimationGroup{}
	stream := bitio.NewReader(raw)

	if err := group.decodePalette(stream); err != nil {
		return nil, errors.Wrap(err, "decoding palette")
	}

	offsets, err := group.decodeFrameOffsets(stream)
	if err != nil {
		return nil, errors.Wrap(err, "decoding frame offsets")
	}

	if err := group.decodeFrames(stream, offsets); err != nil {
		return nil, err
	}

	return group, nil
}

func (g *AnimationGroup) decodePalette(stream *bitio.Reader) (err error) {
	for idx := range g.Palette {
		if g.Palette[idx], err = stream.ReadUint16(); err != nil {
			return err
		}
	}

	return nil
}

func (g *AnimationGroup) decodeFrameOffsets(stream *bitio.Reader) ([]uint32, error) {
	const frameOffsetBytes = 4

	frameCount, err := stream.ReadUint32()
	if err != nil {
		return nil, errors.Wrap(err, "frame count")
	}

	g.FrameCount = frameCount

	// check before allocating, a corrupt count must not size the table
	if need := uint64(frameCount) * frameOffsetBytes; need > uint64(stream.Remaining()) {
		return nil, errors.Wrapf(ErrTruncatedData, "%d frame offsets need %d bytes, %d left",
			frameCount, need, stream.Remaining())
	}

	offsets := make([]uint32, frameCount)
	for idx := range offsets {
		if offsets[idx], err = stream.ReadUint32(); err != nil {
			return nil, err
		}
	}

	return offsets, nil
}

func (g *AnimationGroup) decodeFrames(stream *bitio.Reader, offsets []uint32) error {
	g.Frames = make([]*Frame, 0, len(offsets))

	for frameIdx, offset := range offsets {
		// offsets are relative to the end of the palette
		if err := stream.Seek(paletteBytes + int64(offset)); err != nil {
			return errors.Wrapf(err, "seeking to frame %d", frameIdx)
		}

		frame, err := decodeFrame(stream)
		if err != nil {
			return errors.Wrapf(err, "decoding frame %d", frameIdx)
		}

		g.Frames = append(g.Frames, frame)
	}

	return nil
}
