package bcn

// Range fit: project the colour set onto its principal axis, take the
// extreme projections as endpoints, snap them to the 5:6:5 grid and assign
// each colour its nearest interpolation level. Fast, never fails, and the
// quality floor the cluster fit improves on.

// grid565 is the quantization grid of the RGB565 endpoint encoding.
var (
	grid565    = vec3{31, 63, 31}
	grid565Rcp = vec3{1.0 / 31, 1.0 / 63, 1.0 / 31}
	gridHalf   = vec3{0.5, 0.5, 0.5}
)

// snapToGrid rounds a unit-range colour to the nearest representable RGB565
// endpoint value.
func snapToGrid(c vec3) vec3 {
	return grid565.mul(c).add(gridHalf).truncate().mul(grid565Rcp)
}

type rangeFit struct {
	colours *colourSet
	isBC1   bool
	metric  vec3

	start vec3
	end   vec3

	bestError float32
}

func newRangeFit(cs *colourSet, isBC1 bool, weights ColourWeights) *rangeFit {
	f := &rangeFit{
		colours:   cs,
		isBC1:     isBC1,
		metric:    vec3{weights[0], weights[1], weights[2]},
		bestError: floatMax,
	}

	if cs.count > 0 {
		cov := computeWeightedCovariance(&cs.points, &cs.weights, cs.count)
		axis := computePrincipalComponent(cov)

		start := cs.points[0]
		end := cs.points[0]
		minDot := cs.points[0].dot(axis)
		maxDot := minDot
		for i := 1; i < cs.count; i++ {
			d := cs.points[i].dot(axis)
			if d < minDot {
				start = cs.points[i]
				minDot = d
			}
			if d > maxDot {
				end = cs.points[i]
				maxDot = d
			}
		}

		f.start = snapToGrid(start.clampUnit())
		f.end = snapToGrid(end.clampUnit())
	}
	return f
}

const floatMax = float32(3.4e38)

func (f *rangeFit) compress(dst []byte) {
	if f.isBC1 {
		f.compress3(dst)
		if !f.colours.transparent {
			f.compress4(dst)
		}
	} else {
		f.compress4(dst)
	}
}

func (f *rangeFit) compress3(dst []byte) {
	codes := [3]vec3{
		f.start,
		f.end,
		f.start.scale(0.5).add(f.end.scale(0.5)),
	}
	f.fitCodes(codes[:], dst, writeColourBlock3)
}

func (f *rangeFit) compress4(dst []byte) {
	const third = 1.0 / 3
	codes := [4]vec3{
		f.start,
		f.end,
		f.start.scale(2 * third).add(f.end.scale(third)),
		f.start.scale(third).add(f.end.scale(2 * third)),
	}
	f.fitCodes(codes[:], dst, writeColourBlock4)
}

// fitCodes assigns every colour its nearest code under the channel metric
// and writes the block if the accumulated error improves on the best so far.
func (f *rangeFit) fitCodes(codes []vec3, dst []byte, write func(vec3, vec3, [BlockTexels]uint8, []byte)) {
	cs := f.colours

	var closest [BlockTexels]uint8
	var err float32
	for i := 0; i < cs.count; i++ {
		least := floatMax
		index := 0
		for j := range codes {
			d := cs.points[i].sub(codes[j]).mul(f.metric)
			if dist := d.dot(d); dist < least {
				least = dist
				index = j
			}
		}
		closest[i] = uint8(index)
		err += cs.weights[i] * least
	}

	if err < f.bestError {
		var indices [BlockTexels]uint8
		cs.remapIndices(&closest, &indices)
		write(f.start, f.end, indices, dst)
		f.bestError = err
	}
}
