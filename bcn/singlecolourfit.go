package bcn

// Single-colour fit: when a block collapses to one distinct colour, the
// optimal endpoints come from precomputed lookup tables rather than any
// search. The tables are built once at init time by exhaustive endpoint
// enumeration using the exact decoder arithmetic, so the fit reconstructs
// the source value with the minimum error the format can express (0 for
// most values, at most 1 per channel).

// sourceBlock is one table entry: the endpoint pair (as raw 5- or 6-bit
// codes) and the absolute reconstruction error it leaves.
type sourceBlock struct {
	start uint8
	end   uint8
	error uint8
}

// singleColourLookup holds the best entry per shared index choice:
// [0] uses index 0 (endpoint A alone), [1] uses the interpolated index 2.
type singleColourLookup [2]sourceBlock

var (
	lookup53 [256]singleColourLookup
	lookup54 [256]singleColourLookup
	lookup63 [256]singleColourLookup
	lookup64 [256]singleColourLookup
)

func init() {
	buildSingleColourLookup(&lookup53, 5, 3)
	buildSingleColourLookup(&lookup54, 5, 4)
	buildSingleColourLookup(&lookup63, 6, 3)
	buildSingleColourLookup(&lookup64, 6, 4)
}

func expandChannel(bits int, v int) int {
	if bits == 5 {
		return v<<3 | v>>2
	}
	return v<<2 | v>>4
}

func buildSingleColourLookup(table *[256]singleColourLookup, bits, levels int) {
	n := 1 << bits
	for target := 0; target < 256; target++ {
		// Index 0: endpoint A reconstructs the value on its own.
		best := sourceBlock{error: 255}
		for a := 0; a < n; a++ {
			if e := iabs(expandChannel(bits, a) - target); e < int(best.error) {
				best = sourceBlock{start: uint8(a), end: uint8(a), error: uint8(e)}
			}
		}
		table[target][0] = best

		// Index 2: the interpolated code, matching the decoder's
		// truncating integer blend.
		best = sourceBlock{error: 255}
		for a := 0; a < n; a++ {
			ea := expandChannel(bits, a)
			for b := 0; b < n; b++ {
				eb := expandChannel(bits, b)
				var code int
				if levels == 3 {
					code = (ea + eb) / 2
				} else {
					code = (2*ea + eb) / 3
				}
				if e := iabs(code - target); e < int(best.error) {
					best = sourceBlock{start: uint8(a), end: uint8(b), error: uint8(e)}
				}
			}
		}
		table[target][1] = best
	}
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type singleColourFit struct {
	colours *colourSet
	isBC1   bool

	colour [3]uint8

	start     vec3
	end       vec3
	index     uint8
	bestError int32
}

func newSingleColourFit(cs *colourSet, isBC1 bool) *singleColourFit {
	p := cs.points[0]
	return &singleColourFit{
		colours:   cs,
		isBC1:     isBC1,
		colour:    [3]uint8{quantizeU8(p.x), quantizeU8(p.y), quantizeU8(p.z)},
		bestError: int32(1) << 30,
	}
}

func quantizeU8(v float32) uint8 {
	i := int32(v*255 + 0.5)
	if i < 0 {
		i = 0
	} else if i > 255 {
		i = 255
	}
	return uint8(i)
}

func (f *singleColourFit) compress(dst []byte) {
	if f.isBC1 {
		f.compress3(dst)
		if !f.colours.transparent {
			f.compress4(dst)
		}
	} else {
		f.compress4(dst)
	}
}

func (f *singleColourFit) compress3(dst []byte) {
	lookups := [3]*[256]singleColourLookup{&lookup53, &lookup63, &lookup53}
	if err := f.computeEndpoints(&lookups); err < f.bestError {
		var indices [BlockTexels]uint8
		f.colours.remapIndices(&[BlockTexels]uint8{f.index}, &indices)
		writeColourBlock3(f.start, f.end, indices, dst)
		f.bestError = err
	}
}

func (f *singleColourFit) compress4(dst []byte) {
	lookups := [3]*[256]singleColourLookup{&lookup54, &lookup64, &lookup54}
	if err := f.computeEndpoints(&lookups); err < f.bestError {
		var indices [BlockTexels]uint8
		f.colours.remapIndices(&[BlockTexels]uint8{f.index}, &indices)
		writeColourBlock4(f.start, f.end, indices, dst)
		f.bestError = err
	}
}

// computeEndpoints picks the better of the two shared index choices across
// all three channels and loads the corresponding endpoints.
func (f *singleColourFit) computeEndpoints(lookups *[3]*[256]singleColourLookup) int32 {
	best := int32(1) << 30
	for option := 0; option < 2; option++ {
		var err int32
		var sources [3]sourceBlock
		for ch := 0; ch < 3; ch++ {
			sources[ch] = lookups[ch][f.colour[ch]][option]
			err += int32(sources[ch].error)
		}

		if err < best {
			f.start = vec3{
				float32(sources[0].start) / 31,
				float32(sources[1].start) / 63,
				float32(sources[2].start) / 31,
			}
			f.end = vec3{
				float32(sources[0].end) / 31,
				float32(sources[1].end) / 63,
				float32(sources[2].end) / 31,
			}
			f.index = uint8(2 * option)
			best = err
		}
	}
	return best
}
