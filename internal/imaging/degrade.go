// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package imaging produces degraded copies of the validation images: every
// image is shrunk to an effective resolution and scaled back up, so that the
// detector sees the original pixel grid with less information in it.
package imaging

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

// DegradeStats summarises one Degrade call.
type DegradeStats struct {
	// Images is the size of the known image set when the call started.
	Images    int
	Degraded  int
	Copied    int
	Skipped   int
	Corrupted int
}

// Degrader writes degraded copies of a baseline image directory.
//
// The set of usable images of a source directory is listed once and then
// shrinks as images turn out to be corrupted or unlabelled; later calls for
// the same directory only look at the remaining images.
type Degrader struct {
	concurrency int
	logger      *logger.Logger

	mu    sync.Mutex
	known map[string]map[string]struct{}
}

// NewDegrader constructs a Degrader processing up to concurrency images in
// parallel. A non-positive concurrency means one at a time.
func NewDegrader(concurrency int, log *logger.Logger) *Degrader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Degrader{
		concurrency: concurrency,
		logger:      log,
		known:       make(map[string]map[string]struct{}),
	}
}

// Degrade fills dstDir with the images of srcDir degraded from original to
// effective and copies their labels. Equal resolutions copy the image as is.
// Images already present in dstDir are left untouched.
func (d *Degrader) Degrade(ctx context.Context, srcDir, dstDir string, original, effective models.Resolution) (DegradeStats, error) {
	if original.Width <= 0 || original.Height <= 0 || effective.Width <= 0 || effective.Height <= 0 {
		return DegradeStats{}, fmt.Errorf("%w: %s -> %s", ErrInvalidResolution, original, effective)
	}

	log := d.logger.With().
		Str("src", srcDir).
		Str("dst", dstDir).
		Str("original", original.String()).
		Str("effective", effective.String()).
		Logger()
	log.Debug().Msg("degrading images")

	images, err := d.knownImages(srcDir)
	if err != nil {
		return DegradeStats{}, err
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return DegradeStats{}, fmt.Errorf("create degraded dir: %w", err)
	}

	var degraded, copied, skipped, corrupted atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for _, src := range images {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			label := LabelPath(src)
			if !exists(src) || !exists(label) {
				d.forget(srcDir, src)
				return nil
			}

			dstImage := filepath.Join(dstDir, filepath.Base(src))
			dstLabel := filepath.Join(dstDir, filepath.Base(label))

			if !exists(dstImage) {
				if original == effective {
					if err := copyFile(src, dstImage); err != nil {
						return err
					}
					copied.Add(1)
				} else {
					if err := degradeFile(src, dstImage, original, effective); err != nil {
						if errors.Is(err, errCorrupted) {
							log.Warn().Err(err).Str("image", src).Msg("skipping corrupted image")
							d.forget(srcDir, src)
							corrupted.Add(1)
							return nil
						}
						return err
					}
					degraded.Add(1)
				}
			} else {
				skipped.Add(1)
			}

			if !exists(dstLabel) {
				if err := copyFile(label, dstLabel); err != nil {
					return err
				}
			}
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return DegradeStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return DegradeStats{}, err
	}

	stats := DegradeStats{
		Images:    len(images),
		Degraded:  int(degraded.Load()),
		Copied:    int(copied.Load()),
		Skipped:   int(skipped.Load()),
		Corrupted: int(corrupted.Load()),
	}
	log.Debug().Interface("stats", stats).Msg("degraded images")
	return stats, nil
}

// knownImages lists srcDir on first use and returns the remaining known
// images in sorted order.
func (d *Degrader) knownImages(srcDir string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	set, ok := d.known[srcDir]
	if !ok {
		entries, err := os.ReadDir(srcDir)
		if err != nil {
			return nil, fmt.Errorf("list baseline images: %w", err)
		}
		set = make(map[string]struct{}, len(entries))
		for _, e := range entries {
			if e.Type().IsRegular() && IsImage(e.Name()) {
				set[filepath.Join(srcDir, e.Name())] = struct{}{}
			}
		}
		d.known[srcDir] = set
	}

	images := make([]string, 0, len(set))
	for path := range set {
		images = append(images, path)
	}
	sort.Strings(images)
	return images, nil
}

func (d *Degrader) forget(srcDir, image string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.known[srcDir], image)
}

var errCorrupted = errors.New("corrupted image")

// degradeFile shrinks src to effective, scales it back to original and
// writes the result to dst in the format of its extension.
func degradeFile(src, dst string, original, effective models.Resolution) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %w", errCorrupted, err)
	}
	img, err := decode(f, src)
	f.Close()
	if err != nil {
		return fmt.Errorf("%w: %w", errCorrupted, err)
	}

	out := Resize(Resize(img, effective), original)

	w, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create degraded image: %w", err)
	}
	if err := encode(w, out, dst); err != nil {
		w.Close()
		os.Remove(dst)
		return fmt.Errorf("%w: %w", errCorrupted, err)
	}
	if err := w.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("write degraded image: %w", err)
	}
	return nil
}

// Resize scales img to size with a Catmull-Rom kernel.
func Resize(img image.Image, size models.Resolution) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
