package pkg

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// RecordLocator resolves a record id to the raw bytes of one animation group.
//
// Locate returns an error wrapping ErrNotFound when the id has no record and
// one wrapping ErrIOFailure when the backing storage cannot be read.
type RecordLocator interface {
	Locate(id uint32) ([]byte, error)
}

// Reader reads animation groups through a RecordLocator.
type Reader struct {
	locator RecordLocator
}

// NewReader returns a Reader backed by the passed locator.
func NewReader(locator RecordLocator) *Reader {
	return &Reader{locator: locator}
}

// ReadAnimationGroup locates and decodes the record with the passed id.
func (r *Reader) ReadAnimationGroup(id uint32) (*AnimationGroup, error) {
	raw, err := r.locator.Locate(id)
	if err != nil {
		return nil, errors.Wrapf(err, "locating anim record %d", id)
	}

	group, err := FromBytes(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding anim record %d", id)
	}

	glog.V(2).Infof("anim record %d: %d bytes, %d frames", id, len(raw), len(group.Frames))

	return group, nil
}

// ReadAnimationGroups reads the passed ids using up to workers goroutines
// and returns the groups in the order of ids. The locator must be safe for
// concurrent use. The first failure stops the remaining reads and is
// returned without any groups.
func (r *Reader) ReadAnimationGroups(ctx context.Context, ids []uint32, workers int) ([]*AnimationGroup, error) {
	if workers < 1 {
		workers = 1
	}

	groups := make([]*AnimationGroup, len(ids))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for idx, id := range ids {
		idx, id := idx, id

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			group, err := r.ReadAnimationGroup(id)
			if err != nil {
				return err
			}

			groups[idx] = group

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return groups, nil
}
