package bcn

import (
	"encoding/binary"
	"fmt"
)

// Minimal DDS (DirectDraw Surface) container support: enough to store a
// BC1-BC5 payload with an optional mip chain and read it back. Legacy
// FourCC identification only; no DX10 extension header.

// DDSHeaderSize is the size of the magic plus the fixed legacy header.
const DDSHeaderSize = 128

var ddsMagic = [4]byte{'D', 'D', 'S', ' '}

// DDS header field offsets, relative to the start of the 124-byte header
// (immediately after the magic).
const (
	ddsOffSize        = 0
	ddsOffFlags       = 4
	ddsOffHeight      = 8
	ddsOffWidth       = 12
	ddsOffLinearSize  = 16
	ddsOffMipMapCount = 24
	ddsOffPixelFormat = 72
	ddsOffCaps        = 104
)

const (
	ddsdCaps        = 0x1
	ddsdHeight      = 0x2
	ddsdWidth       = 0x4
	ddsdPixelFormat = 0x1000
	ddsdMipMapCount = 0x20000
	ddsdLinearSize  = 0x80000

	ddpfFourCC = 0x4

	ddsCapsComplex = 0x8
	ddsCapsTexture = 0x1000
	ddsCapsMipMap  = 0x400000
)

// DDSHeader describes a stored texture: its top-level dimensions, the block
// compression format, and the number of mip levels (at least 1).
type DDSHeader struct {
	Width    int
	Height   int
	MipCount int
	Format   Format
}

func (h DDSHeader) String() string {
	return fmt.Sprintf("DDS %s %dx%d, %d mip level(s)", h.Format, h.Width, h.Height, h.MipCount)
}

func (h DDSHeader) validate() error {
	if !validFormat(h.Format) {
		return newError(ErrUnsupportedFormat, "bcn: unsupported format")
	}
	if h.Width <= 0 || h.Height <= 0 {
		return newError(ErrBadDimensions, "bcn: non-positive texture dimensions")
	}
	if h.MipCount < 1 || h.MipCount > maxMipCount(h.Width, h.Height) {
		return newError(ErrBadContainer, "bcn: invalid mip count")
	}
	return nil
}

// MipDimensions returns the pixel size of a mip level, halving each
// dimension per level with a floor of 1.
func MipDimensions(width, height, level int) (int, int) {
	for ; level > 0; level-- {
		if width > 1 {
			width /= 2
		}
		if height > 1 {
			height /= 2
		}
	}
	return width, height
}

func maxMipCount(width, height int) int {
	count := 1
	for width > 1 || height > 1 {
		width, height = MipDimensions(width, height, 1)
		count++
	}
	return count
}

func fourCCForFormat(f Format) uint32 {
	switch f {
	case BC1:
		return fourCC('D', 'X', 'T', '1')
	case BC2:
		return fourCC('D', 'X', 'T', '3')
	case BC3:
		return fourCC('D', 'X', 'T', '5')
	case BC4:
		return fourCC('A', 'T', 'I', '1')
	case BC5:
		return fourCC('A', 'T', 'I', '2')
	default:
		return 0
	}
}

func formatForFourCC(cc uint32) (Format, bool) {
	switch cc {
	case fourCC('D', 'X', 'T', '1'):
		return BC1, true
	case fourCC('D', 'X', 'T', '2'), fourCC('D', 'X', 'T', '3'):
		return BC2, true
	case fourCC('D', 'X', 'T', '4'), fourCC('D', 'X', 'T', '5'):
		return BC3, true
	case fourCC('A', 'T', 'I', '1'), fourCC('B', 'C', '4', 'U'):
		return BC4, true
	case fourCC('A', 'T', 'I', '2'), fourCC('B', 'C', '5', 'U'):
		return BC5, true
	default:
		return 0, false
	}
}

func fourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// ddsPayloadSize returns the total compressed byte size of all mip levels.
func ddsPayloadSize(h DDSHeader) (int, error) {
	total := 0
	for level := 0; level < h.MipCount; level++ {
		w, hgt := MipDimensions(h.Width, h.Height, level)
		size, err := CompressedSize(w, hgt, h.Format)
		if err != nil {
			return 0, err
		}
		total += size
	}
	return total, nil
}

// EncodeDDS assembles a DDS file from the header and the concatenated mip
// payload (largest level first, each level CompressedSize bytes).
func EncodeDDS(h DDSHeader, payload []byte) ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	want, err := ddsPayloadSize(h)
	if err != nil {
		return nil, err
	}
	if len(payload) != want {
		return nil, newError(ErrBadContainer, "bcn: payload does not match header mip chain")
	}

	out := make([]byte, DDSHeaderSize+len(payload))
	copy(out[:4], ddsMagic[:])
	hdr := out[4:DDSHeaderSize]

	flags := uint32(ddsdCaps | ddsdHeight | ddsdWidth | ddsdPixelFormat | ddsdLinearSize)
	caps := uint32(ddsCapsTexture)
	if h.MipCount > 1 {
		flags |= ddsdMipMapCount
		caps |= ddsCapsComplex | ddsCapsMipMap
	}

	topSize, err := CompressedSize(h.Width, h.Height, h.Format)
	if err != nil {
		return nil, err
	}

	binary.LittleEndian.PutUint32(hdr[ddsOffSize:], 124)
	binary.LittleEndian.PutUint32(hdr[ddsOffFlags:], flags)
	binary.LittleEndian.PutUint32(hdr[ddsOffHeight:], uint32(h.Height))
	binary.LittleEndian.PutUint32(hdr[ddsOffWidth:], uint32(h.Width))
	binary.LittleEndian.PutUint32(hdr[ddsOffLinearSize:], uint32(topSize))
	binary.LittleEndian.PutUint32(hdr[ddsOffMipMapCount:], uint32(h.MipCount))

	pf := hdr[ddsOffPixelFormat:]
	binary.LittleEndian.PutUint32(pf[0:], 32)
	binary.LittleEndian.PutUint32(pf[4:], ddpfFourCC)
	binary.LittleEndian.PutUint32(pf[8:], fourCCForFormat(h.Format))

	binary.LittleEndian.PutUint32(hdr[ddsOffCaps:], caps)

	copy(out[DDSHeaderSize:], payload)
	return out, nil
}

// ParseDDSHeader parses and validates the DDS magic and header.
func ParseDDSHeader(data []byte) (DDSHeader, error) {
	if len(data) < DDSHeaderSize {
		return DDSHeader{}, newError(ErrBadContainer, "bcn: truncated DDS header")
	}
	if [4]byte(data[:4]) != ddsMagic {
		return DDSHeader{}, newError(ErrBadContainer, "bcn: invalid DDS magic")
	}
	hdr := data[4:DDSHeaderSize]
	if binary.LittleEndian.Uint32(hdr[ddsOffSize:]) != 124 {
		return DDSHeader{}, newError(ErrBadContainer, "bcn: invalid DDS header size")
	}

	pf := hdr[ddsOffPixelFormat:]
	if binary.LittleEndian.Uint32(pf[4:])&ddpfFourCC == 0 {
		return DDSHeader{}, newError(ErrBadContainer, "bcn: DDS is not FourCC block compressed")
	}
	format, ok := formatForFourCC(binary.LittleEndian.Uint32(pf[8:]))
	if !ok {
		return DDSHeader{}, newError(ErrUnsupportedFormat, "bcn: unsupported DDS FourCC")
	}

	h := DDSHeader{
		Width:    int(binary.LittleEndian.Uint32(hdr[ddsOffWidth:])),
		Height:   int(binary.LittleEndian.Uint32(hdr[ddsOffHeight:])),
		MipCount: int(binary.LittleEndian.Uint32(hdr[ddsOffMipMapCount:])),
		Format:   format,
	}
	if h.MipCount == 0 {
		h.MipCount = 1
	}
	if err := h.validate(); err != nil {
		return DDSHeader{}, err
	}
	return h, nil
}

// ParseDDS parses a full DDS file and returns the header plus one payload
// slice per mip level, largest first. The slices alias data.
func ParseDDS(data []byte) (DDSHeader, [][]byte, error) {
	h, err := ParseDDSHeader(data)
	if err != nil {
		return DDSHeader{}, nil, err
	}

	levels := make([][]byte, 0, h.MipCount)
	off := DDSHeaderSize
	for level := 0; level < h.MipCount; level++ {
		w, hgt := MipDimensions(h.Width, h.Height, level)
		size, err := CompressedSize(w, hgt, h.Format)
		if err != nil {
			return DDSHeader{}, nil, err
		}
		if off+size > len(data) {
			return DDSHeader{}, nil, newError(ErrBadContainer, "bcn: truncated DDS payload")
		}
		levels = append(levels, data[off:off+size])
		off += size
	}
	return h, levels, nil
}
