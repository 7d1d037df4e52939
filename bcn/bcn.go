// Package bcn implements the BC1-BC5 (DXT/S3TC family) texture block
// compression formats: lossy compression of 4x4 RGBA pixel blocks into the
// fixed-size bit-packed layouts GPUs decode natively, and the exact inverse.
//
// The package operates on individual blocks (CompressBlock, DecompressBlock)
// and on whole tightly-packed RGBA8 images (CompressImage, DecompressImage).
// Every call owns its intermediate state exclusively, so blocks and images
// may be processed concurrently without locking.
package bcn

// Format selects one of the supported block compression formats.
type Format uint32

const (
	// BC1 stores RGB with optional 1-bit punch-through alpha in 8 bytes.
	BC1 Format = 1 + iota

	// BC2 stores explicit 4-bit alpha plus a BC1-style colour block in 16 bytes.
	BC2

	// BC3 stores interpolated alpha plus a BC1-style colour block in 16 bytes.
	BC3

	// BC4 stores a single interpolated channel in 8 bytes.
	BC4

	// BC5 stores two independent interpolated channels in 16 bytes.
	BC5
)

// Block geometry shared by every BCn format.
const (
	// BlockWidth and BlockHeight are the fixed pixel footprint of a block.
	BlockWidth  = 4
	BlockHeight = 4

	// BlockTexels is the number of pixels in one block.
	BlockTexels = BlockWidth * BlockHeight

	// BlockRGBABytes is the byte size of one uncompressed RGBA8 block.
	BlockRGBABytes = BlockTexels * 4

	// BlockMaskAll marks every pixel of a block as valid.
	BlockMaskAll uint32 = 0xFFFF
)

// BlockSize returns the compressed byte size of one 4x4 block, or 0 for an
// unknown format.
func (f Format) BlockSize() int {
	switch f {
	case BC1, BC4:
		return 8
	case BC2, BC3, BC5:
		return 16
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case BC1:
		return "BC1"
	case BC2:
		return "BC2"
	case BC3:
		return "BC3"
	case BC4:
		return "BC4"
	case BC5:
		return "BC5"
	default:
		return "Format(unknown)"
	}
}

// Algorithm selects the endpoint fitting strategy for colour blocks.
type Algorithm uint32

const (
	// AlgorithmRangeFit is the fast approximate fit: principal-axis
	// projection with nearest-level index assignment.
	AlgorithmRangeFit Algorithm = 1 + iota

	// AlgorithmClusterFit is the high quality fit: an exhaustive search over
	// contiguous groupings along the principal axis with least-squares
	// endpoint placement. Never worse than AlgorithmRangeFit.
	AlgorithmClusterFit

	// AlgorithmIterativeClusterFit repeats the cluster search with the
	// ordering re-derived from each improved endpoint axis, bounded by
	// Params.IterationLimit.
	AlgorithmIterativeClusterFit
)

// ColourWeights weighs the relative importance of the R, G and B channels in
// the fit error metric.
type ColourWeights [3]float32

// WeightsUniform treats every channel equally.
var WeightsUniform = ColourWeights{1, 1, 1}

// WeightsPerceptual weighs channels by their perceived brightness
// contribution (ITU-R BT.709 luma coefficients).
var WeightsPerceptual = ColourWeights{0.2126, 0.7152, 0.0722}

// Params configures a single compression call. The zero value is not valid;
// use DefaultParams and override fields as needed.
type Params struct {
	// Algorithm is the colour fitting strategy.
	Algorithm Algorithm

	// Weights is the per-channel error metric.
	Weights ColourWeights

	// WeighColourByAlpha scales each colour's fit weight by its alpha.
	// This improves perceived quality for alpha-blended textures.
	WeighColourByAlpha bool

	// PunchThrough enables the BC1 1-bit alpha mode: pixels with alpha
	// below 128 compress to the reserved transparent index. Ignored for
	// every other format.
	PunchThrough bool

	// IterationLimit bounds the re-ordering passes of
	// AlgorithmIterativeClusterFit. 0 selects the default of 8.
	IterationLimit int
}

const (
	defaultIterationLimit = 8
	maxIterationLimit     = 32
)

// DefaultParams returns the default compression parameters: cluster fit with
// perceptual channel weights.
func DefaultParams() Params {
	return Params{
		Algorithm: AlgorithmClusterFit,
		Weights:   WeightsPerceptual,
	}
}

// validateAndClampParams normalizes p in place, mirroring the entry-point
// validation the rest of the package relies on.
func validateAndClampParams(p *Params) error {
	switch p.Algorithm {
	case AlgorithmRangeFit, AlgorithmClusterFit, AlgorithmIterativeClusterFit:
	default:
		return newError(ErrBadParam, "bcn: invalid fit algorithm")
	}

	if !(p.Weights[0] >= 0) || !(p.Weights[1] >= 0) || !(p.Weights[2] >= 0) {
		return newError(ErrBadParam, "bcn: invalid colour weights")
	}
	if p.Weights[0]+p.Weights[1]+p.Weights[2] <= 0 {
		return newError(ErrBadParam, "bcn: colour weights sum to zero")
	}

	if p.IterationLimit < 0 {
		return newError(ErrBadParam, "bcn: invalid iteration limit")
	}
	if p.IterationLimit == 0 {
		p.IterationLimit = defaultIterationLimit
	}
	if p.IterationLimit > maxIterationLimit {
		p.IterationLimit = maxIterationLimit
	}
	return nil
}

func validFormat(f Format) bool {
	switch f {
	case BC1, BC2, BC3, BC4, BC5:
		return true
	default:
		return false
	}
}
