package anim

import (
	"github.com/gravestench/anim/pkg"
)

type (
	AnimationGroup = pkg.AnimationGroup
	Frame          = pkg.Frame
	Row            = pkg.Row
	Palette        = pkg.Palette
	RecordLocator  = pkg.RecordLocator
	Reader         = pkg.Reader
)

var (
	ErrNotFound      = pkg.ErrNotFound
	ErrIOFailure     = pkg.ErrIOFailure
	ErrTruncatedData = pkg.ErrTruncatedData
	ErrInvalidRow    = pkg.ErrInvalidRow
)

func FromBytes(raw []byte) (*AnimationGroup, error) {
	return pkg.FromBytes(raw)
}

func NewReader(locator RecordLocator) *Reader {
	return pkg.NewReader(locator)
}
