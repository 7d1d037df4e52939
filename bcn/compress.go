package bcn

// compressColourBlock builds the colour set and dispatches the fit:
// single-colour when the set collapses to one entry, otherwise range fit,
// optionally refined by cluster fit. When cluster fit runs, the range fit
// result seeds its best error, so the output is never worse than the range
// fit alone.
func compressColourBlock(rgba *[BlockRGBABytes]byte, mask uint32, isBC1, punchThrough bool, p Params, dst []byte) {
	cs := newColourSet(rgba, mask, isBC1 && punchThrough, p.WeighColourByAlpha)

	if cs.count == 1 {
		newSingleColourFit(&cs, isBC1).compress(dst)
		return
	}

	rf := newRangeFit(&cs, isBC1, p.Weights)
	rf.compress(dst)

	if p.Algorithm == AlgorithmRangeFit || cs.count == 0 {
		return
	}

	iterations := 1
	if p.Algorithm == AlgorithmIterativeClusterFit {
		iterations = p.IterationLimit
	}
	cf := newClusterFit(&cs, isBC1, p.Weights, iterations)
	cf.bestError = rf.bestError
	cf.compress(dst)
}

// CompressBlockMasked compresses one 4x4 RGBA block into dst, ignoring the
// pixels whose mask bit (bit i for pixel i in row-major order) is clear.
// Masked-out pixels do not influence the fit; this is how edge blocks of
// images that are not a multiple of 4 wide or high are handled.
//
// dst must have at least format.BlockSize() bytes.
func CompressBlockMasked(dst []byte, rgba *[BlockRGBABytes]byte, mask uint32, format Format, params Params) error {
	if !validFormat(format) {
		return newError(ErrUnsupportedFormat, "bcn: unsupported format")
	}
	if rgba == nil {
		return newError(ErrBadParam, "bcn: nil pixel block")
	}
	if len(dst) < format.BlockSize() {
		return newError(ErrInvalidBlockLength, "bcn: output block too short")
	}
	if err := validateAndClampParams(&params); err != nil {
		return err
	}
	mask &= BlockMaskAll

	switch format {
	case BC1:
		compressColourBlock(rgba, mask, true, params.PunchThrough, params, dst[:8])
	case BC2:
		compressAlphaExplicit(rgba, mask, dst[:8])
		compressColourBlock(rgba, mask, false, false, params, dst[8:16])
	case BC3:
		compressAlphaInterpolated(rgba, 3, mask, dst[:8])
		compressColourBlock(rgba, mask, false, false, params, dst[8:16])
	case BC4:
		compressAlphaInterpolated(rgba, 0, mask, dst[:8])
	case BC5:
		compressAlphaInterpolated(rgba, 0, mask, dst[:8])
		compressAlphaInterpolated(rgba, 1, mask, dst[8:16])
	}
	return nil
}

// CompressBlock compresses one fully-valid 4x4 RGBA block into dst.
func CompressBlock(dst []byte, rgba *[BlockRGBABytes]byte, format Format, params Params) error {
	return CompressBlockMasked(dst, rgba, BlockMaskAll, format, params)
}

// DecompressBlock expands one compressed block into a fresh 4x4 RGBA block.
// block must be exactly format.BlockSize() bytes.
//
// BC4 decodes its channel into R, G and B; BC5 decodes its channels into R
// and G. Both leave the remaining channels zero.
func DecompressBlock(dst *[BlockRGBABytes]byte, block []byte, format Format) error {
	if !validFormat(format) {
		return newError(ErrUnsupportedFormat, "bcn: unsupported format")
	}
	if dst == nil {
		return newError(ErrBadParam, "bcn: nil pixel block")
	}
	if len(block) != format.BlockSize() {
		return newError(ErrInvalidBlockLength, "bcn: compressed block length mismatch")
	}

	switch format {
	case BC1:
		decompressColourBlock(dst, block, true)
	case BC2:
		decompressColourBlock(dst, block[8:16], false)
		decompressAlphaExplicit(dst, block[:8])
	case BC3:
		decompressColourBlock(dst, block[8:16], false)
		decompressAlphaInterpolated(dst, 3, block[:8])
	case BC4:
		*dst = [BlockRGBABytes]byte{}
		decompressAlphaInterpolated(dst, 0, block)
		for i := 0; i < BlockTexels; i++ {
			dst[4*i+1] = dst[4*i]
			dst[4*i+2] = dst[4*i]
		}
	case BC5:
		*dst = [BlockRGBABytes]byte{}
		decompressAlphaInterpolated(dst, 0, block[:8])
		decompressAlphaInterpolated(dst, 1, block[8:16])
	}
	return nil
}
