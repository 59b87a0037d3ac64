// Command animdump decodes a range of anim.mul records and prints a summary
// of each, optionally writing the palette and re-encoded record to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/gravestench/anim/pkg"
	"github.com/gravestench/anim/pkg/mul"
)

var (
	animIdxPath = flag.String("anim_idx_path", "anim.idx", "Path to anim.idx")
	animMulPath = flag.String("anim_mul_path", "anim.mul", "Path to anim.mul")
	first       = flag.Uint("first", 0, "first record id to dump")
	last        = flag.Int("last", -1, "last record id to dump; -1 dumps through the end of the index")
	workers     = flag.Int("workers", 4, "records decoded in parallel")
	outDir      = flag.String("out", "", "directory to write .pal and .bin files into; empty only prints")
)

func main() {
	flagutil.Parse()

	f, err := mul.Open(*animIdxPath, *animMulPath)
	if err != nil {
		glog.Exitf("opening anim files: %v", err)
	}
	defer f.Close()

	ids, err := presentIDs(f, uint32(*first), *last)
	if err != nil {
		glog.Exitf("listing anim records: %v", err)
	}

	glog.Infof("dumping %d records", len(ids))

	groups, err := pkg.NewReader(f).ReadAnimationGroups(context.Background(), ids, *workers)
	if err != nil {
		glog.Exitf("reading anim records: %v", err)
	}

	for idx, group := range groups {
		fmt.Println(summary(ids[idx], group))

		if *outDir == "" {
			continue
		}

		if err := write(*outDir, ids[idx], group); err != nil {
			glog.Exitf("writing anim record %d: %v", ids[idx], err)
		}
	}
}

// presentIDs lists the ids in [first, last] whose index entries are not
// empty. Missing ids are logged and skipped; any other index error is
// returned.
func presentIDs(f *mul.File, first uint32, last int) ([]uint32, error) {
	end := f.Len() - 1
	if last >= 0 && last < end {
		end = last
	}

	var ids []uint32

	for id := int(first); id <= end; id++ {
		entry, err := f.Entry(uint32(id))
		if errors.Is(err, pkg.ErrNotFound) {
			glog.Warningf("skipping anim record %d: %v", id, err)
			continue
		}

		if err != nil {
			return nil, errors.Wrapf(err, "reading index entry %d", id)
		}

		if entry.Empty() {
			glog.V(1).Infof("skipping anim record %d: %v", id, pkg.ErrNotFound)
			continue
		}

		ids = append(ids, uint32(id))
	}

	return ids, nil
}

func summary(id uint32, group *pkg.AnimationGroup) string {
	var rows, pixels int

	for _, frame := range group.Frames {
		rows += len(frame.Rows)

		for _, row := range frame.Rows {
			pixels += len(row.ImageData)
		}
	}

	return fmt.Sprintf("anim %d: frame_count=%d frames=%d rows=%d pixels=%s",
		id, group.FrameCount, len(group.Frames), rows, humanize.Bytes(uint64(pixels)))
}

func write(dir string, id uint32, group *pkg.AnimationGroup) error {
	encoded, err := group.Encode()
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}

	// the record starts with the raw palette
	palette := encoded[:pkg.PaletteSize*2]

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("anim-%d.pal", id)), palette, 0o644); err != nil {
		return errors.Wrap(err, "writing palette file")
	}

	if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("anim-%d.bin", id)), encoded, 0o644); err != nil {
		return errors.Wrap(err, "writing record file")
	}

	glog.V(1).Infof("anim %d: wrote %s", id, humanize.Bytes(uint64(len(encoded))))

	return nil
}
