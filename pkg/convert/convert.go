// Package convert sequences a whole conversion job: open the source image,
// extract the title metadata, write the part files in parallel, stitch the
// hash tree and emit the content header.
package convert

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/bgrewell/god-kit/pkg/executable"
	"github.com/bgrewell/god-kit/pkg/gamelist"
	"github.com/bgrewell/god-kit/pkg/god"
	"github.com/bgrewell/god-kit/pkg/logging"
	"github.com/bgrewell/god-kit/pkg/option"
	"github.com/bgrewell/god-kit/pkg/xdvdfs"
	concpool "github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// Source is a random-access view of the source disc image. Any io.ReaderAt
// works; the converter never assumes a particular path scheme. ReadAt must be
// safe for concurrent use (os.File qualifies), since each part-writing worker
// reads its own disjoint window.
type Source struct {
	Reader io.ReaderAt
	Size   int64
}

// Converter runs conversion jobs. Each Converter carries its own worker-pool
// sizing, so two concurrent conversions in one process are independently
// configurable.
type Converter struct {
	opts   option.ConvertOptions
	logger *logging.Logger
	fs     afero.Fs
}

// New builds a Converter from options.
func New(opts ...option.ConvertOption) *Converter {
	o := option.ConvertOptions{
		TrimMode: option.TrimFromEnd,
		Logger:   logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = logging.DefaultLogger()
	}
	if o.DestFs == nil {
		o.DestFs = afero.NewOsFs()
	}
	return &Converter{
		opts:   o,
		logger: o.Logger,
		fs:     o.DestFs,
	}
}

// Convert runs one conversion of src into destDir. Dry runs stop after
// metadata extraction and touch nothing under destDir. Any internal fault is
// captured at this boundary and surfaced as an ordinary error.
func (c *Converter) Convert(src Source, destDir string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("conversion failed with internal fault: %v", r)
		}
	}()

	img, err := xdvdfs.Open(src.Reader, src.Size, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read source image: %w", err)
	}

	titleInfo, err := executable.ExtractTitleInfo(img)
	if err != nil {
		return nil, fmt.Errorf("failed to read image executable: %w", err)
	}
	info := titleInfo.ExecutionInfo

	result = &Result{
		TitleID:     info.TitleID,
		TitleName:   c.resolveTitle(info.TitleID),
		ContentType: titleInfo.ContentType,
		DryRun:      c.opts.DryRun,
	}
	c.logger.Info("extracted title metadata",
		"titleID", info.TitleIDString(), "name", result.TitleName, "type", result.ContentType.String())

	if c.opts.DryRun {
		return result, nil
	}

	payloadSize := c.payloadSize(img, src.Size)
	blockCount := god.BlockCount(payloadSize)
	partCount := god.PartCount(blockCount)
	if partCount == 0 {
		partCount = 1
	}
	result.BlockCount = blockCount
	result.PartCount = partCount
	c.logger.Debug("computed package geometry",
		"payloadSize", payloadSize, "blocks", blockCount, "parts", partCount)

	layout := god.NewFileLayout(destDir, &info, titleInfo.ContentType)
	if err := c.ensureEmptyDir(layout.DataDirPath()); err != nil {
		return nil, err
	}

	if err := c.writeParts(src, img.RootOffset(), payloadSize, layout, partCount); err != nil {
		return nil, err
	}

	mht, err := c.stitchHashTree(layout, partCount)
	if err != nil {
		return nil, err
	}

	if err := c.writeHeader(layout, titleInfo, blockCount, partCount, mht); err != nil {
		return nil, err
	}

	result.PackagePath = layout.TitleDirPath()
	c.logger.Info("conversion complete", "package", result.PackagePath)
	return result, nil
}

// resolveTitle picks the display title: explicit override, then catalog.
func (c *Converter) resolveTitle(titleID uint32) string {
	if c.opts.GameTitle != "" {
		return c.opts.GameTitle
	}
	if name, ok := gamelist.Lookup(titleID); ok {
		return name
	}
	return ""
}

// payloadSize applies the trim mode. FromEnd keeps everything past the root
// offset; UsedData keeps only the prefix the filesystem actually references.
func (c *Converter) payloadSize(img *xdvdfs.Image, physicalSize int64) uint64 {
	if c.opts.TrimMode == option.TrimUsedData {
		return img.MaxUsedPrefixSize()
	}
	return uint64(physicalSize) - img.RootOffset()
}

// ensureEmptyDir recursively deletes and recreates the content data
// directory, so a conversion never merges with stale output of a prior run.
func (c *Converter) ensureEmptyDir(path string) error {
	if err := c.fs.RemoveAll(path); err != nil {
		return &LayoutError{Path: path, Err: err}
	}
	if err := c.fs.MkdirAll(path, 0o755); err != nil {
		return &LayoutError{Path: path, Err: err}
	}
	return nil
}

// writeParts writes every part file, fanned out over a bounded worker pool.
// Part windows and output files are disjoint, so the workers share no mutable
// state; completion events flow over a channel to a single progress
// aggregator. The pool join is the barrier the stitching phase depends on,
// and the first failed part aborts the whole conversion.
func (c *Converter) writeParts(src Source, rootOffset uint64, payloadSize uint64, layout god.FileLayout, partCount uint64) error {
	workers := c.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	events := make(chan struct{}, partCount)
	aggregatorDone := make(chan struct{})
	go func() {
		defer close(aggregatorDone)
		written := 0
		for range events {
			written++
			c.logger.Debug("part file written", "completed", written, "total", partCount)
			c.notifyProgress(written, int(partCount))
		}
	}()

	pl := concpool.New().WithErrors().WithFirstError().WithMaxGoroutines(workers)
	for partIndex := uint64(0); partIndex < partCount; partIndex++ {
		pl.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("part %d writer failed with internal fault: %v", partIndex, r)
				}
			}()
			if err := c.writePart(src, rootOffset, payloadSize, layout, partIndex); err != nil {
				return fmt.Errorf("failed to write part %d: %w", partIndex, err)
			}
			events <- struct{}{}
			return nil
		})
	}
	err := pl.Wait()
	close(events)
	<-aggregatorDone
	return err
}

// notifyProgress invokes the caller's progress callback. The callback runs on
// the aggregator goroutine, outside the Convert recover boundary, so a
// panicking callback is contained here instead of taking the process down.
func (c *Converter) notifyProgress(written, total int) {
	if c.opts.ProgressCallback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(fmt.Errorf("%v", r), "progress callback panicked")
		}
	}()
	c.opts.ProgressCallback(written, total)
}

func (c *Converter) writePart(src Source, rootOffset uint64, payloadSize uint64, layout god.FileLayout, partIndex uint64) error {
	window, length := god.PartWindow(partIndex, payloadSize)
	reader := io.NewSectionReader(src.Reader, int64(rootOffset+window), int64(length))

	f, err := c.fs.OpenFile(layout.PartFilePath(partIndex), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create part file: %w", err)
	}
	defer f.Close()

	if err := god.WritePart(reader, f); err != nil {
		return err
	}
	return f.Close()
}

// stitchHashTree chains the per-part hash tables bottom-up. The walk is
// strictly sequential and strictly descending: each part's rewritten table
// digest is the input to the part before it, so it must not start until all
// parts exist. The returned list is part 0's fully chained table.
func (c *Converter) stitchHashTree(layout god.FileLayout, partCount uint64) (*god.HashList, error) {
	mht, err := c.readPartMht(layout, partCount-1)
	if err != nil {
		return nil, err
	}

	for i := int64(partCount) - 2; i >= 0; i-- {
		prev, err := c.readPartMht(layout, uint64(i))
		if err != nil {
			return nil, err
		}
		if err := prev.AddHash(mht.Digest()); err != nil {
			return nil, err
		}
		if err := c.writePartMht(layout, uint64(i), prev); err != nil {
			return nil, err
		}
		mht = prev
	}
	return mht, nil
}

func (c *Converter) readPartMht(layout god.FileLayout, partIndex uint64) (*god.HashList, error) {
	f, err := c.fs.Open(layout.PartFilePath(partIndex))
	if err != nil {
		return nil, fmt.Errorf("failed to open part %d: %w", partIndex, err)
	}
	defer f.Close()
	return god.ReadHashList(f)
}

func (c *Converter) writePartMht(layout god.FileLayout, partIndex uint64, mht *god.HashList) error {
	f, err := c.fs.OpenFile(layout.PartFilePath(partIndex), os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open part %d: %w", partIndex, err)
	}
	defer f.Close()
	if err := mht.WriteTo(f); err != nil {
		return err
	}
	return f.Close()
}

func (c *Converter) writeHeader(layout god.FileLayout, titleInfo *executable.TitleInfo, blockCount uint64, partCount uint64, mht *god.HashList) error {
	lastPart, err := c.fs.Stat(layout.PartFilePath(partCount - 1))
	if err != nil {
		return fmt.Errorf("failed to stat last part file: %w", err)
	}

	builder := god.NewConHeaderBuilder().
		WithExecutionInfo(&titleInfo.ExecutionInfo).
		WithBlockCounts(uint32(blockCount), 0).
		WithDataPartsInfo(uint32(partCount), god.CombinedPartsSize(partCount, uint64(lastPart.Size()))).
		WithContentType(titleInfo.ContentType).
		WithMhtHash(mht.Digest())

	if title := c.resolveTitle(titleInfo.ExecutionInfo.TitleID); title != "" {
		builder = builder.WithGameTitle(title)
	}

	if err := afero.WriteFile(c.fs, layout.HeaderFilePath(), builder.Finalize(), 0o644); err != nil {
		return fmt.Errorf("failed to write content header: %w", err)
	}
	return nil
}
