package bcn

// The two 8-byte alpha encodings. BC2 stores sixteen explicit 4-bit values.
// BC3 (and the single-channel BC4/BC5 formats, which reuse the same codec
// for arbitrary channels) stores two 8-bit endpoints and sixteen 3-bit
// indices into an interpolated codebook: endpoint order A > B selects eight
// interpolated values, A <= B selects six plus the fixed codes 0 and 255.

// compressAlphaExplicit packs the block's alpha channel as 4-bit values, two
// per byte, low nibble first. Masked-out pixels store zero.
func compressAlphaExplicit(rgba *[BlockRGBABytes]byte, mask uint32, dst []byte) {
	for i := 0; i < 8; i++ {
		q1 := (int(rgba[8*i+3])*15 + 127) / 255
		q2 := (int(rgba[8*i+7])*15 + 127) / 255
		if mask&(uint32(1)<<(2*i)) == 0 {
			q1 = 0
		}
		if mask&(uint32(1)<<(2*i+1)) == 0 {
			q2 = 0
		}
		dst[i] = uint8(q1 | q2<<4)
	}
}

// decompressAlphaExplicit expands 4-bit alpha by nibble replication.
func decompressAlphaExplicit(rgba *[BlockRGBABytes]byte, block []byte) {
	for i := 0; i < 8; i++ {
		lo := block[i] & 0x0F
		hi := block[i] >> 4
		rgba[8*i+3] = lo<<4 | lo
		rgba[8*i+7] = hi<<4 | hi
	}
}

// fitAlphaCodes assigns each valid pixel of the channel its nearest code and
// returns the summed squared error.
func fitAlphaCodes(rgba *[BlockRGBABytes]byte, channel int, mask uint32, codes *[8]int, indices *[BlockTexels]uint8) int {
	err := 0
	for i := 0; i < BlockTexels; i++ {
		if mask&(uint32(1)<<i) == 0 {
			indices[i] = 0
			continue
		}

		value := int(rgba[4*i+channel])
		least := 1 << 30
		index := 0
		for j := 0; j < 8; j++ {
			d := value - codes[j]
			if dist := d * d; dist < least {
				least = dist
				index = j
			}
		}
		indices[i] = uint8(index)
		err += least
	}
	return err
}

// packAlphaIndices packs sixteen 3-bit indices LSB-first into dst[2:8].
func packAlphaIndices(alpha0, alpha1 uint8, indices *[BlockTexels]uint8, dst []byte) {
	dst[0] = alpha0
	dst[1] = alpha1
	for half := 0; half < 2; half++ {
		var bits uint32
		for j := 0; j < 8; j++ {
			bits |= uint32(indices[8*half+j]) << (3 * uint(j))
		}
		dst[2+3*half] = uint8(bits)
		dst[3+3*half] = uint8(bits >> 8)
		dst[4+3*half] = uint8(bits >> 16)
	}
}

// writeAlphaBlock5 writes the six-interpolant encoding, swapping endpoints
// into the required alpha0 <= alpha1 order with the matching index
// permutation.
func writeAlphaBlock5(alpha0, alpha1 int, indices [BlockTexels]uint8, dst []byte) {
	if alpha0 > alpha1 {
		alpha0, alpha1 = alpha1, alpha0
		for i := range indices {
			switch x := indices[i]; {
			case x == 0:
				indices[i] = 1
			case x == 1:
				indices[i] = 0
			case x <= 5:
				indices[i] = 7 - x
			}
		}
	}
	packAlphaIndices(uint8(alpha0), uint8(alpha1), &indices, dst)
}

// writeAlphaBlock7 writes the eight-interpolant encoding, swapping endpoints
// into the required alpha0 > alpha1 order with the matching index
// permutation.
func writeAlphaBlock7(alpha0, alpha1 int, indices [BlockTexels]uint8, dst []byte) {
	if alpha0 < alpha1 {
		alpha0, alpha1 = alpha1, alpha0
		for i := range indices {
			switch x := indices[i]; {
			case x == 0:
				indices[i] = 1
			case x == 1:
				indices[i] = 0
			default:
				indices[i] = 9 - x
			}
		}
	}
	packAlphaIndices(uint8(alpha0), uint8(alpha1), &indices, dst)
}

// compressAlphaInterpolated fits the given channel against both codebooks
// over its value range and writes whichever leaves less error.
func compressAlphaInterpolated(rgba *[BlockRGBABytes]byte, channel int, mask uint32, dst []byte) {
	min5, max5 := 255, 0
	min7, max7 := 255, 0
	for i := 0; i < BlockTexels; i++ {
		if mask&(uint32(1)<<i) == 0 {
			continue
		}
		value := int(rgba[4*i+channel])
		if value < min7 {
			min7 = value
		}
		if value > max7 {
			max7 = value
		}
		if value != 0 && value < min5 {
			min5 = value
		}
		if value != 255 && value > max5 {
			max5 = value
		}
	}

	// Fully masked or single-extreme blocks leave an inverted range.
	if min5 > max5 {
		min5 = max5
	}
	if min7 > max7 {
		min7 = max7
	}

	min5, max5 = fixAlphaRange(min5, max5, 5)
	min7, max7 = fixAlphaRange(min7, max7, 7)

	var codes5, codes7 [8]int
	codes5[0], codes5[1] = min5, max5
	for i := 1; i < 5; i++ {
		codes5[1+i] = ((5-i)*min5 + i*max5) / 5
	}
	codes5[6], codes5[7] = 0, 255

	codes7[0], codes7[1] = min7, max7
	for i := 1; i < 7; i++ {
		codes7[1+i] = ((7-i)*min7 + i*max7) / 7
	}

	var indices5, indices7 [BlockTexels]uint8
	err5 := fitAlphaCodes(rgba, channel, mask, &codes5, &indices5)
	err7 := fitAlphaCodes(rgba, channel, mask, &codes7, &indices7)

	if err5 <= err7 {
		writeAlphaBlock5(min5, max5, indices5, dst)
	} else {
		writeAlphaBlock7(min7, max7, indices7, dst)
	}
}

// fixAlphaRange widens a degenerate range so the interpolated codes stay
// distinct.
func fixAlphaRange(min, max, steps int) (int, int) {
	if max-min < steps {
		max = min + steps
		if max > 255 {
			max = 255
		}
	}
	if max-min < steps {
		min = max - steps
		if min < 0 {
			min = 0
		}
	}
	return min, max
}

// decompressAlphaInterpolated expands an interpolated alpha block into the
// given channel of dst.
func decompressAlphaInterpolated(rgba *[BlockRGBABytes]byte, channel int, block []byte) {
	alpha0 := int(block[0])
	alpha1 := int(block[1])

	var codes [8]int
	codes[0], codes[1] = alpha0, alpha1
	if alpha0 <= alpha1 {
		for i := 1; i < 5; i++ {
			codes[1+i] = ((5-i)*alpha0 + i*alpha1) / 5
		}
		codes[6], codes[7] = 0, 255
	} else {
		for i := 1; i < 7; i++ {
			codes[1+i] = ((7-i)*alpha0 + i*alpha1) / 7
		}
	}

	for half := 0; half < 2; half++ {
		bits := uint32(block[2+3*half]) |
			uint32(block[3+3*half])<<8 |
			uint32(block[4+3*half])<<16
		for j := 0; j < 8; j++ {
			index := bits >> (3 * uint(j)) & 7
			rgba[4*(8*half+j)+channel] = uint8(codes[index])
		}
	}
}
