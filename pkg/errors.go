package pkg

import (
	"github.com/pkg/errors"

	"github.com/gravestench/anim/internal/bitio"
)

var (
	// ErrNotFound is returned when a record id cannot be resolved to a record.
	ErrNotFound = errors.New("record not found")

	// ErrIOFailure is returned when the storage behind a record cannot be read.
	ErrIOFailure = errors.New("record storage could not be read")

	// ErrTruncatedData is returned when a structured read runs past the end of a record.
	ErrTruncatedData = bitio.ErrTruncated

	// ErrInvalidRow is returned when encoding a row whose data does not match its header.
	ErrInvalidRow = errors.New("invalid row")
)
