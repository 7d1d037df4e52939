package bcn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texturetools/bcn-encoder/bcn"
)

func uniformBlock(r, g, b, a uint8) [bcn.BlockRGBABytes]byte {
	var rgba [bcn.BlockRGBABytes]byte
	for i := 0; i < bcn.BlockTexels; i++ {
		rgba[4*i] = r
		rgba[4*i+1] = g
		rgba[4*i+2] = b
		rgba[4*i+3] = a
	}
	return rgba
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestCompressBlockValidation(t *testing.T) {
	rgba := uniformBlock(0, 0, 0, 255)
	dst := make([]byte, 16)

	err := bcn.CompressBlock(dst, &rgba, bcn.Format(0), bcn.DefaultParams())
	assert.Equal(t, bcn.ErrUnsupportedFormat, bcn.ErrorCodeOf(err))

	err = bcn.CompressBlock(dst, &rgba, bcn.Format(99), bcn.DefaultParams())
	assert.Equal(t, bcn.ErrUnsupportedFormat, bcn.ErrorCodeOf(err))

	err = bcn.CompressBlock(dst, nil, bcn.BC1, bcn.DefaultParams())
	assert.Equal(t, bcn.ErrBadParam, bcn.ErrorCodeOf(err))

	err = bcn.CompressBlock(dst[:7], &rgba, bcn.BC1, bcn.DefaultParams())
	assert.Equal(t, bcn.ErrInvalidBlockLength, bcn.ErrorCodeOf(err))

	err = bcn.CompressBlock(dst[:8], &rgba, bcn.BC3, bcn.DefaultParams())
	assert.Equal(t, bcn.ErrInvalidBlockLength, bcn.ErrorCodeOf(err))

	bad := bcn.DefaultParams()
	bad.Algorithm = bcn.Algorithm(42)
	err = bcn.CompressBlock(dst, &rgba, bcn.BC1, bad)
	assert.Equal(t, bcn.ErrBadParam, bcn.ErrorCodeOf(err))

	bad = bcn.DefaultParams()
	bad.Weights = bcn.ColourWeights{-1, 1, 1}
	err = bcn.CompressBlock(dst, &rgba, bcn.BC1, bad)
	assert.Equal(t, bcn.ErrBadParam, bcn.ErrorCodeOf(err))

	bad = bcn.DefaultParams()
	bad.Weights = bcn.ColourWeights{0, 0, 0}
	err = bcn.CompressBlock(dst, &rgba, bcn.BC1, bad)
	assert.Equal(t, bcn.ErrBadParam, bcn.ErrorCodeOf(err))

	bad = bcn.DefaultParams()
	bad.IterationLimit = -1
	err = bcn.CompressBlock(dst, &rgba, bcn.BC1, bad)
	assert.Equal(t, bcn.ErrBadParam, bcn.ErrorCodeOf(err))
}

func TestDecompressBlockValidation(t *testing.T) {
	var dst [bcn.BlockRGBABytes]byte

	err := bcn.DecompressBlock(&dst, make([]byte, 8), bcn.Format(7))
	assert.Equal(t, bcn.ErrUnsupportedFormat, bcn.ErrorCodeOf(err))

	err = bcn.DecompressBlock(nil, make([]byte, 8), bcn.BC1)
	assert.Equal(t, bcn.ErrBadParam, bcn.ErrorCodeOf(err))

	err = bcn.DecompressBlock(&dst, make([]byte, 16), bcn.BC1)
	assert.Equal(t, bcn.ErrInvalidBlockLength, bcn.ErrorCodeOf(err))

	err = bcn.DecompressBlock(&dst, make([]byte, 8), bcn.BC3)
	assert.Equal(t, bcn.ErrInvalidBlockLength, bcn.ErrorCodeOf(err))
}

func TestFormatBlockSize(t *testing.T) {
	assert.Equal(t, 8, bcn.BC1.BlockSize())
	assert.Equal(t, 16, bcn.BC2.BlockSize())
	assert.Equal(t, 16, bcn.BC3.BlockSize())
	assert.Equal(t, 8, bcn.BC4.BlockSize())
	assert.Equal(t, 16, bcn.BC5.BlockSize())
}

func TestBC1UniformExactColours(t *testing.T) {
	// Colours on the expanded RGB565 grid round-trip exactly.
	colours := [][3]uint8{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{8, 8, 8},
		{132, 130, 132},
	}
	for _, algorithm := range []bcn.Algorithm{
		bcn.AlgorithmRangeFit,
		bcn.AlgorithmClusterFit,
		bcn.AlgorithmIterativeClusterFit,
	} {
		params := bcn.DefaultParams()
		params.Algorithm = algorithm
		for _, c := range colours {
			rgba := uniformBlock(c[0], c[1], c[2], 255)
			var block [8]byte
			require.NoError(t, bcn.CompressBlock(block[:], &rgba, bcn.BC1, params))

			var out [bcn.BlockRGBABytes]byte
			require.NoError(t, bcn.DecompressBlock(&out, block[:], bcn.BC1))
			for i := 0; i < bcn.BlockTexels; i++ {
				assert.Equal(t, c[0], out[4*i], "red, colour %v", c)
				assert.Equal(t, c[1], out[4*i+1], "green, colour %v", c)
				assert.Equal(t, c[2], out[4*i+2], "blue, colour %v", c)
				assert.Equal(t, uint8(255), out[4*i+3], "alpha, colour %v", c)
			}
		}
	}
}

func TestBC1UniformErrorBound(t *testing.T) {
	// Arbitrary uniform colours stay within 2 per channel.
	colours := [][3]uint8{
		{123, 57, 201},
		{1, 254, 3},
		{86, 86, 86},
		{200, 100, 50},
	}
	for _, c := range colours {
		rgba := uniformBlock(c[0], c[1], c[2], 255)
		var block [8]byte
		require.NoError(t, bcn.CompressBlock(block[:], &rgba, bcn.BC1, bcn.DefaultParams()))

		var out [bcn.BlockRGBABytes]byte
		require.NoError(t, bcn.DecompressBlock(&out, block[:], bcn.BC1))
		for ch := 0; ch < 3; ch++ {
			assert.LessOrEqual(t, absDiff(out[ch], c[ch]), 2, "channel %d of %v", ch, c)
		}
	}
}

func TestBC1PunchThrough(t *testing.T) {
	rgba := uniformBlock(255, 0, 0, 255)
	for i := 0; i < bcn.BlockTexels; i += 3 {
		rgba[4*i+3] = 0
	}

	params := bcn.DefaultParams()
	params.PunchThrough = true

	var block [8]byte
	require.NoError(t, bcn.CompressBlock(block[:], &rgba, bcn.BC1, params))

	var out [bcn.BlockRGBABytes]byte
	require.NoError(t, bcn.DecompressBlock(&out, block[:], bcn.BC1))
	for i := 0; i < bcn.BlockTexels; i++ {
		if i%3 == 0 {
			assert.Equal(t, uint8(0), out[4*i+3], "pixel %d alpha", i)
			assert.Equal(t, uint8(0), out[4*i], "pixel %d red", i)
		} else {
			assert.Equal(t, uint8(255), out[4*i+3], "pixel %d alpha", i)
			assert.Equal(t, uint8(255), out[4*i], "pixel %d red", i)
		}
	}
}

func TestBC1WithoutPunchThroughIgnoresAlpha(t *testing.T) {
	rgba := uniformBlock(0, 255, 0, 10)

	var block [8]byte
	require.NoError(t, bcn.CompressBlock(block[:], &rgba, bcn.BC1, bcn.DefaultParams()))

	var out [bcn.BlockRGBABytes]byte
	require.NoError(t, bcn.DecompressBlock(&out, block[:], bcn.BC1))
	for i := 0; i < bcn.BlockTexels; i++ {
		assert.Equal(t, uint8(255), out[4*i+3])
		assert.Equal(t, uint8(255), out[4*i+1])
	}
}

func TestBC2AlphaRamp(t *testing.T) {
	rgba := uniformBlock(132, 130, 132, 0)
	for i := 0; i < bcn.BlockTexels; i++ {
		rgba[4*i+3] = uint8(i * 17)
	}

	var block [16]byte
	require.NoError(t, bcn.CompressBlock(block[:], &rgba, bcn.BC2, bcn.DefaultParams()))

	var out [bcn.BlockRGBABytes]byte
	require.NoError(t, bcn.DecompressBlock(&out, block[:], bcn.BC2))
	for i := 0; i < bcn.BlockTexels; i++ {
		assert.Equal(t, uint8(i*17), out[4*i+3], "pixel %d alpha", i)
		assert.Equal(t, uint8(132), out[4*i], "pixel %d red", i)
	}
}

func TestBC2ReferenceBlockDecode(t *testing.T) {
	block := []byte{
		0x10, 0x32, 0x54, 0x76, 0x98, 0xBA, 0xDC, 0xFE,
		0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0x55, 0x55,
	}
	var out [bcn.BlockRGBABytes]byte
	require.NoError(t, bcn.DecompressBlock(&out, block, bcn.BC2))

	for i := 0; i < bcn.BlockTexels; i++ {
		assert.Equal(t, uint8(i*17), out[4*i+3], "pixel %d alpha", i)
	}
	// Colour half: endpoints black/white, rows of index 0 then index 1.
	for i := 0; i < 8; i++ {
		assert.Equal(t, uint8(0), out[4*i], "pixel %d red", i)
	}
	for i := 8; i < bcn.BlockTexels; i++ {
		assert.Equal(t, uint8(255), out[4*i], "pixel %d red", i)
	}
}

func TestBC3RoundTripUniform(t *testing.T) {
	rgba := uniformBlock(132, 130, 132, 77)

	var block [16]byte
	require.NoError(t, bcn.CompressBlock(block[:], &rgba, bcn.BC3, bcn.DefaultParams()))

	var out [bcn.BlockRGBABytes]byte
	require.NoError(t, bcn.DecompressBlock(&out, block[:], bcn.BC3))
	for i := 0; i < bcn.BlockTexels; i++ {
		assert.Equal(t, uint8(132), out[4*i])
		assert.Equal(t, uint8(130), out[4*i+1])
		assert.Equal(t, uint8(132), out[4*i+2])
		assert.Equal(t, uint8(77), out[4*i+3])
	}
}

func TestBC4Gradient(t *testing.T) {
	var rgba [bcn.BlockRGBABytes]byte
	for i := 0; i < bcn.BlockTexels; i++ {
		rgba[4*i] = uint8(i * 17)
	}

	var block [8]byte
	require.NoError(t, bcn.CompressBlock(block[:], &rgba, bcn.BC4, bcn.DefaultParams()))

	var out [bcn.BlockRGBABytes]byte
	require.NoError(t, bcn.DecompressBlock(&out, block[:], bcn.BC4))
	for i := 0; i < bcn.BlockTexels; i++ {
		assert.LessOrEqual(t, absDiff(out[4*i], uint8(i*17)), 17, "pixel %d", i)
		// The single channel replicates into G and B.
		assert.Equal(t, out[4*i], out[4*i+1], "pixel %d green", i)
		assert.Equal(t, out[4*i], out[4*i+2], "pixel %d blue", i)
	}
}

func TestBC4UniformExact(t *testing.T) {
	for _, v := range []uint8{0, 1, 100, 200, 255} {
		rgba := uniformBlock(v, 0, 0, 0)

		var block [8]byte
		require.NoError(t, bcn.CompressBlock(block[:], &rgba, bcn.BC4, bcn.DefaultParams()))

		var out [bcn.BlockRGBABytes]byte
		require.NoError(t, bcn.DecompressBlock(&out, block[:], bcn.BC4))
		for i := 0; i < bcn.BlockTexels; i++ {
			assert.Equal(t, v, out[4*i], "value %d pixel %d", v, i)
		}
	}
}

func TestBC5TwoChannels(t *testing.T) {
	var rgba [bcn.BlockRGBABytes]byte
	for i := 0; i < bcn.BlockTexels; i++ {
		rgba[4*i] = 50
		rgba[4*i+1] = 180
	}

	var block [16]byte
	require.NoError(t, bcn.CompressBlock(block[:], &rgba, bcn.BC5, bcn.DefaultParams()))

	var out [bcn.BlockRGBABytes]byte
	require.NoError(t, bcn.DecompressBlock(&out, block[:], bcn.BC5))
	for i := 0; i < bcn.BlockTexels; i++ {
		assert.Equal(t, uint8(50), out[4*i], "pixel %d red", i)
		assert.Equal(t, uint8(180), out[4*i+1], "pixel %d green", i)
		assert.Equal(t, uint8(0), out[4*i+2], "pixel %d blue", i)
	}
}

func TestCompressBlockMaskedIgnoresExcludedPixels(t *testing.T) {
	// Garbage outside the mask must not disturb the fit.
	rgba := uniformBlock(255, 0, 0, 255)
	for i := 8; i < bcn.BlockTexels; i++ {
		rgba[4*i] = uint8(i * 13)
		rgba[4*i+1] = uint8(i * 29)
		rgba[4*i+2] = uint8(i * 7)
	}

	var block [8]byte
	require.NoError(t, bcn.CompressBlockMasked(block[:], &rgba, 0x00FF, bcn.BC1, bcn.DefaultParams()))

	var out [bcn.BlockRGBABytes]byte
	require.NoError(t, bcn.DecompressBlock(&out, block[:], bcn.BC1))
	for i := 0; i < 8; i++ {
		assert.Equal(t, uint8(255), out[4*i], "pixel %d red", i)
		assert.Equal(t, uint8(0), out[4*i+1], "pixel %d green", i)
		assert.Equal(t, uint8(0), out[4*i+2], "pixel %d blue", i)
	}
}

func TestCompressBlockDeterministic(t *testing.T) {
	var rgba [bcn.BlockRGBABytes]byte
	state := uint32(42)
	for i := range rgba {
		state = state*1664525 + 1013904223
		rgba[i] = uint8(state >> 24)
	}

	for _, format := range []bcn.Format{bcn.BC1, bcn.BC2, bcn.BC3, bcn.BC4, bcn.BC5} {
		a := make([]byte, format.BlockSize())
		b := make([]byte, format.BlockSize())
		require.NoError(t, bcn.CompressBlock(a, &rgba, format, bcn.DefaultParams()))
		require.NoError(t, bcn.CompressBlock(b, &rgba, format, bcn.DefaultParams()))
		assert.Equal(t, a, b, "format %s", format)
	}
}
