package bcn

import "encoding/binary"

// The 8-byte colour block shared by BC1, BC2 and BC3: two RGB565 endpoints
// stored little-endian, then sixteen 2-bit indices packed LSB-first, four
// per byte. The numeric ordering of the endpoint values selects the decoder
// codebook: a > b gives four interpolated colours, a <= b gives three plus a
// transparent code.

func pack565(c vec3) uint16 {
	// The caller has already snapped c to the 5:6:5 grid in [0,1].
	r := uint16(c.x*31 + 0.5)
	g := uint16(c.y*63 + 0.5)
	b := uint16(c.z*31 + 0.5)
	return r<<11 | g<<5 | b
}

func unpack565(v uint16) (r, g, b uint8) {
	r5 := uint8(v >> 11 & 0x1F)
	g6 := uint8(v >> 5 & 0x3F)
	b5 := uint8(v & 0x1F)
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

func writeColourIndices(a, b uint16, indices *[BlockTexels]uint8, dst []byte) {
	binary.LittleEndian.PutUint16(dst[0:2], a)
	binary.LittleEndian.PutUint16(dst[2:4], b)
	for i := 0; i < 4; i++ {
		dst[4+i] = indices[4*i] |
			indices[4*i+1]<<2 |
			indices[4*i+2]<<4 |
			indices[4*i+3]<<6
	}
}

// writeColourBlock3 writes a three-colour block, swapping the endpoints if
// needed to satisfy the a <= b mode signal. Index 2 is the midpoint and
// index 3 the transparent code; both survive an endpoint swap unchanged.
func writeColourBlock3(start, end vec3, indices [BlockTexels]uint8, dst []byte) {
	a := pack565(start)
	b := pack565(end)

	if a > b {
		a, b = b, a
		for i := range indices {
			switch indices[i] {
			case 0:
				indices[i] = 1
			case 1:
				indices[i] = 0
			}
		}
	}

	writeColourIndices(a, b, &indices, dst)
}

// writeColourBlock4 writes a four-colour block, swapping the endpoints if
// needed to satisfy the a > b mode signal. A swap exchanges indices 0/1 and
// 2/3. Equal endpoints would decode in three-colour mode, so indices
// collapse to 0 which decodes identically in both.
func writeColourBlock4(start, end vec3, indices [BlockTexels]uint8, dst []byte) {
	a := pack565(start)
	b := pack565(end)

	if a < b {
		a, b = b, a
		for i := range indices {
			indices[i] ^= 1
		}
	} else if a == b {
		indices = [BlockTexels]uint8{}
	}

	writeColourIndices(a, b, &indices, dst)
}

// decompressColourBlock expands an 8-byte colour block into dst. The
// three-colour transparent mode is honoured only when isBC1 is set; BC2 and
// BC3 colour halves always decode as fully opaque.
func decompressColourBlock(dst *[BlockRGBABytes]byte, block []byte, isBC1 bool) {
	a := binary.LittleEndian.Uint16(block[0:2])
	b := binary.LittleEndian.Uint16(block[2:4])

	var codes [4][4]uint8
	r0, g0, b0 := unpack565(a)
	r1, g1, b1 := unpack565(b)
	codes[0] = [4]uint8{r0, g0, b0, 255}
	codes[1] = [4]uint8{r1, g1, b1, 255}

	if isBC1 && a <= b {
		codes[2] = [4]uint8{
			uint8((int(r0) + int(r1)) / 2),
			uint8((int(g0) + int(g1)) / 2),
			uint8((int(b0) + int(b1)) / 2),
			255,
		}
		codes[3] = [4]uint8{0, 0, 0, 0}
	} else {
		codes[2] = [4]uint8{
			uint8((2*int(r0) + int(r1)) / 3),
			uint8((2*int(g0) + int(g1)) / 3),
			uint8((2*int(b0) + int(b1)) / 3),
			255,
		}
		codes[3] = [4]uint8{
			uint8((int(r0) + 2*int(r1)) / 3),
			uint8((int(g0) + 2*int(g1)) / 3),
			uint8((int(b0) + 2*int(b1)) / 3),
			255,
		}
	}

	for i := 0; i < 4; i++ {
		packed := block[4+i]
		for j := 0; j < 4; j++ {
			c := codes[packed>>(2*uint(j))&3]
			off := 4 * (4*i + j)
			dst[off] = c[0]
			dst[off+1] = c[1]
			dst[off+2] = c[2]
			dst[off+3] = c[3]
		}
	}
}
