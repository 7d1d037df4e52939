package bcn

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// numBlocks returns how many 4-pixel tiles cover a dimension.
func numBlocks(size int) int {
	return (size + 3) / 4
}

// CompressedSize returns the byte size of width x height pixels compressed
// in the given format, accounting for padding to whole 4x4 blocks.
func CompressedSize(width, height int, format Format) (int, error) {
	if !validFormat(format) {
		return 0, newError(ErrUnsupportedFormat, "bcn: unsupported format")
	}
	if width <= 0 || height <= 0 {
		return 0, newError(ErrBadDimensions, "bcn: non-positive image dimensions")
	}
	return numBlocks(width) * numBlocks(height) * format.BlockSize(), nil
}

// extractBlock copies the 4x4 tile at block coordinates (bx, by) out of a
// tightly packed RGBA8 image and returns the validity mask covering the
// pixels that fall inside the image.
func extractBlock(rgba []byte, width, height, bx, by int, dst *[BlockRGBABytes]byte) uint32 {
	var mask uint32
	for py := 0; py < BlockHeight; py++ {
		for px := 0; px < BlockWidth; px++ {
			index := BlockWidth*py + px
			sx := BlockWidth*bx + px
			sy := BlockHeight*by + py
			if sx >= width || sy >= height {
				continue
			}
			src := 4 * (width*sy + sx)
			copy(dst[4*index:4*index+4], rgba[src:src+4])
			mask |= uint32(1) << index
		}
	}
	return mask
}

// storeBlock writes the in-bounds pixels of a decompressed 4x4 tile back
// into a tightly packed RGBA8 image.
func storeBlock(rgba []byte, width, height, bx, by int, src *[BlockRGBABytes]byte) {
	for py := 0; py < BlockHeight; py++ {
		for px := 0; px < BlockWidth; px++ {
			sx := BlockWidth*bx + px
			sy := BlockHeight*by + py
			if sx >= width || sy >= height {
				continue
			}
			dst := 4 * (width*sy + sx)
			copy(rgba[dst:dst+4], src[4*(BlockWidth*py+px):4*(BlockWidth*py+px)+4])
		}
	}
}

func validateImage(rgba []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return newError(ErrBadDimensions, "bcn: non-positive image dimensions")
	}
	if len(rgba) != width*height*4 {
		return newError(ErrBadDimensions, "bcn: RGBA buffer does not match image dimensions")
	}
	return nil
}

// CompressImage compresses a tightly packed RGBA8 image into a fresh buffer
// of CompressedSize bytes. Blocks are laid out row-major; edge blocks of
// images that are not a multiple of 4 in either dimension are compressed
// with the out-of-bounds pixels masked out.
//
// Blocks are fully independent, so the work is spread across workers
// goroutines pulling block indices from a shared counter. workers <= 0
// selects GOMAXPROCS.
func CompressImage(rgba []byte, width, height int, format Format, params Params, workers int) ([]byte, error) {
	if err := validateImage(rgba, width, height); err != nil {
		return nil, err
	}
	size, err := CompressedSize(width, height, format)
	if err != nil {
		return nil, err
	}
	if err := validateAndClampParams(&params); err != nil {
		return nil, err
	}

	blocksWide := numBlocks(width)
	total := blocksWide * numBlocks(height)
	blockSize := format.BlockSize()
	out := make([]byte, size)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > total {
		workers = total
	}

	var next atomic.Int64
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			var block [BlockRGBABytes]byte
			for {
				i := int(next.Add(1) - 1)
				if i >= total {
					return nil
				}

				bx := i % blocksWide
				by := i / blocksWide
				block = [BlockRGBABytes]byte{}
				blockMask := extractBlock(rgba, width, height, bx, by, &block)

				dst := out[i*blockSize : (i+1)*blockSize]
				if err := CompressBlockMasked(dst, &block, blockMask, format, params); err != nil {
					return err
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecompressImage expands compressed data back into a tightly packed RGBA8
// buffer of width x height pixels. data must hold exactly the
// CompressedSize of the image.
func DecompressImage(data []byte, width, height int, format Format, workers int) ([]byte, error) {
	size, err := CompressedSize(width, height, format)
	if err != nil {
		return nil, err
	}
	if len(data) != size {
		return nil, newError(ErrInvalidBlockLength, "bcn: compressed data length mismatch")
	}

	blocksWide := numBlocks(width)
	total := blocksWide * numBlocks(height)
	blockSize := format.BlockSize()
	out := make([]byte, width*height*4)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > total {
		workers = total
	}

	var next atomic.Int64
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			var block [BlockRGBABytes]byte
			for {
				i := int(next.Add(1) - 1)
				if i >= total {
					return nil
				}

				if err := DecompressBlock(&block, data[i*blockSize:(i+1)*blockSize], format); err != nil {
					return err
				}
				storeBlock(out, width, height, i%blocksWide, i/blocksWide, &block)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
