package bcn_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texturetools/bcn-encoder/bcn"
)

func TestMipDimensions(t *testing.T) {
	cases := []struct {
		w, h, level  int
		wantW, wantH int
	}{
		{16, 8, 0, 16, 8},
		{16, 8, 1, 8, 4},
		{16, 8, 3, 2, 1},
		{16, 8, 4, 1, 1},
		{16, 8, 10, 1, 1},
		{5, 3, 1, 2, 1},
	}
	for _, c := range cases {
		w, h := bcn.MipDimensions(c.w, c.h, c.level)
		assert.Equal(t, c.wantW, w, "%dx%d level %d", c.w, c.h, c.level)
		assert.Equal(t, c.wantH, h, "%dx%d level %d", c.w, c.h, c.level)
	}
}

func TestDDSRoundTrip(t *testing.T) {
	hdr := bcn.DDSHeader{Width: 8, Height: 8, MipCount: 2, Format: bcn.BC3}

	// Level 0: 8x8 -> 4 blocks; level 1: 4x4 -> 1 block.
	payload := make([]byte, 4*16+16)
	for i := range payload {
		payload[i] = uint8(i)
	}

	data, err := bcn.EncodeDDS(hdr, payload)
	require.NoError(t, err)
	require.Len(t, data, bcn.DDSHeaderSize+len(payload))

	assert.Equal(t, []byte("DDS "), data[:4])
	assert.Equal(t, []byte("DXT5"), data[84:88])
	assert.Equal(t, uint32(124), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(data[12:16]))
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(data[16:20]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[28:32]))

	got, levels, err := bcn.ParseDDS(data)
	require.NoError(t, err)
	assert.Equal(t, hdr, got)
	require.Len(t, levels, 2)
	assert.Equal(t, payload[:64], levels[0])
	assert.Equal(t, payload[64:], levels[1])
}

func TestDDSFourCCVariants(t *testing.T) {
	hdr := bcn.DDSHeader{Width: 4, Height: 4, MipCount: 1, Format: bcn.BC4}
	data, err := bcn.EncodeDDS(hdr, make([]byte, 8))
	require.NoError(t, err)
	assert.Equal(t, []byte("ATI1"), data[84:88])

	// The BC4U spelling parses to the same format.
	copy(data[84:88], "BC4U")
	got, err := bcn.ParseDDSHeader(data)
	require.NoError(t, err)
	assert.Equal(t, bcn.BC4, got.Format)

	// DXT2 is accepted as BC2 on input.
	hdr = bcn.DDSHeader{Width: 4, Height: 4, MipCount: 1, Format: bcn.BC2}
	data, err = bcn.EncodeDDS(hdr, make([]byte, 16))
	require.NoError(t, err)
	copy(data[84:88], "DXT2")
	got, err = bcn.ParseDDSHeader(data)
	require.NoError(t, err)
	assert.Equal(t, bcn.BC2, got.Format)
}

func TestDDSParseErrors(t *testing.T) {
	hdr := bcn.DDSHeader{Width: 8, Height: 4, MipCount: 1, Format: bcn.BC1}
	data, err := bcn.EncodeDDS(hdr, make([]byte, 16))
	require.NoError(t, err)

	_, _, parseErr := bcn.ParseDDS(data[:100])
	assert.Equal(t, bcn.ErrBadContainer, bcn.ErrorCodeOf(parseErr))

	bad := append([]byte(nil), data...)
	copy(bad[:4], "NOPE")
	_, _, parseErr = bcn.ParseDDS(bad)
	assert.Equal(t, bcn.ErrBadContainer, bcn.ErrorCodeOf(parseErr))

	bad = append([]byte(nil), data...)
	copy(bad[84:88], "DX10")
	_, _, parseErr = bcn.ParseDDS(bad)
	assert.Equal(t, bcn.ErrUnsupportedFormat, bcn.ErrorCodeOf(parseErr))

	// Header intact but payload cut short.
	_, _, parseErr = bcn.ParseDDS(data[:bcn.DDSHeaderSize+8])
	assert.Equal(t, bcn.ErrBadContainer, bcn.ErrorCodeOf(parseErr))
}

func TestDDSEncodeErrors(t *testing.T) {
	_, err := bcn.EncodeDDS(bcn.DDSHeader{Width: 4, Height: 4, MipCount: 1, Format: bcn.Format(0)}, nil)
	assert.Equal(t, bcn.ErrUnsupportedFormat, bcn.ErrorCodeOf(err))

	_, err = bcn.EncodeDDS(bcn.DDSHeader{Width: 0, Height: 4, MipCount: 1, Format: bcn.BC1}, nil)
	assert.Equal(t, bcn.ErrBadDimensions, bcn.ErrorCodeOf(err))

	_, err = bcn.EncodeDDS(bcn.DDSHeader{Width: 4, Height: 4, MipCount: 9, Format: bcn.BC1}, nil)
	assert.Equal(t, bcn.ErrBadContainer, bcn.ErrorCodeOf(err))

	_, err = bcn.EncodeDDS(bcn.DDSHeader{Width: 4, Height: 4, MipCount: 1, Format: bcn.BC1}, make([]byte, 7))
	assert.Equal(t, bcn.ErrBadContainer, bcn.ErrorCodeOf(err))
}

func TestDDSWithCompressedImage(t *testing.T) {
	const width, height = 8, 8
	rgba := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		rgba[4*i+2] = 255
		rgba[4*i+3] = 255
	}

	data, err := bcn.CompressImage(rgba, width, height, bcn.BC1, bcn.DefaultParams(), 0)
	require.NoError(t, err)

	file, err := bcn.EncodeDDS(bcn.DDSHeader{Width: width, Height: height, MipCount: 1, Format: bcn.BC1}, data)
	require.NoError(t, err)

	hdr, levels, err := bcn.ParseDDS(file)
	require.NoError(t, err)
	require.Len(t, levels, 1)

	out, err := bcn.DecompressImage(levels[0], hdr.Width, hdr.Height, hdr.Format, 0)
	require.NoError(t, err)
	for i := 0; i < width*height; i++ {
		assert.Equal(t, uint8(0), out[4*i], "pixel %d red", i)
		assert.Equal(t, uint8(255), out[4*i+2], "pixel %d blue", i)
	}
}
