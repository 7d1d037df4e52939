package bcn

// remapNone marks a pixel slot with no colour-set entry: either masked out of
// the block or excluded as punch-through transparent.
const remapNone = -1

// colourSet is the deduplicated set of colours in one block, with per-colour
// fit weights and the remap from pixel slot to set index. It is built once
// per compression call and never shared.
type colourSet struct {
	points  [BlockTexels]vec3
	weights [BlockTexels]float32
	remap   [BlockTexels]int8
	count   int

	// transparent is set when punch-through excluded at least one pixel,
	// which restricts BC1 to the three-colour mode.
	transparent bool
}

// newColourSet scans the 16 block pixels in order, excluding pixels outside
// mask and, in punch-through mode, pixels with alpha below 128. Remaining
// pixels are deduplicated by exact RGB value in first-occurrence order; each
// occurrence contributes 1 to its colour's weight, scaled by (alpha+1)/256
// when weighByAlpha is set (the bias keeps fully transparent pixels from
// producing a degenerate zero weight).
func newColourSet(rgba *[BlockRGBABytes]byte, mask uint32, punchThrough, weighByAlpha bool) colourSet {
	var cs colourSet
	for i := 0; i < BlockTexels; i++ {
		bit := uint32(1) << i
		if mask&bit == 0 {
			cs.remap[i] = remapNone
			continue
		}

		if punchThrough && rgba[4*i+3] < 128 {
			cs.remap[i] = remapNone
			cs.transparent = true
			continue
		}

		w := float32(1)
		if weighByAlpha {
			w = float32(int(rgba[4*i+3])+1) / 256
		}

		matched := false
		for j := 0; j < i; j++ {
			if mask&(uint32(1)<<j) == 0 || cs.remap[j] == remapNone {
				continue
			}
			if rgba[4*j] == rgba[4*i] && rgba[4*j+1] == rgba[4*i+1] && rgba[4*j+2] == rgba[4*i+2] {
				index := cs.remap[j]
				cs.weights[index] += w
				cs.remap[i] = index
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		cs.points[cs.count] = vec3{
			float32(rgba[4*i]) / 255,
			float32(rgba[4*i+1]) / 255,
			float32(rgba[4*i+2]) / 255,
		}
		cs.weights[cs.count] = w
		cs.remap[i] = int8(cs.count)
		cs.count++
	}
	return cs
}

// remapIndices expands per-colour indices to per-pixel indices. Excluded
// pixels receive index 3: the transparent code in BC1 three-colour mode, and
// harmless padding everywhere else.
func (cs *colourSet) remapIndices(source *[BlockTexels]uint8, target *[BlockTexels]uint8) {
	for i := 0; i < BlockTexels; i++ {
		if j := cs.remap[i]; j == remapNone {
			target[i] = 3
		} else {
			target[i] = source[j]
		}
	}
}
