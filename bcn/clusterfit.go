package bcn

// Cluster fit: order the colour set along its principal axis, then search
// every split of that order into contiguous index groups, solving the
// weighted least-squares endpoint placement for each split in closed form
// from incremental prefix sums. Optionally the search repeats with the
// ordering re-derived from the best endpoint axis found, up to a bounded
// number of passes.

const clusterEpsilon = 1e-10

type clusterFit struct {
	colours *colourSet
	isBC1   bool

	metricSqr      vec3
	iterationLimit int

	principal vec3

	// Ordered views of the colour set, rebuilt per ordering pass.
	orders  [maxIterationLimit][BlockTexels]uint8
	ordered [BlockTexels]vec3
	weights [BlockTexels]float32

	xSum   vec3
	wSum   float32
	sumWxx float32

	bestError float32
}

func newClusterFit(cs *colourSet, isBC1 bool, weights ColourWeights, iterationLimit int) *clusterFit {
	metric := vec3{weights[0], weights[1], weights[2]}
	f := &clusterFit{
		colours:        cs,
		isBC1:          isBC1,
		metricSqr:      metric.mul(metric),
		iterationLimit: iterationLimit,
		bestError:      floatMax,
	}

	cov := computeWeightedCovariance(&cs.points, &cs.weights, cs.count)
	f.principal = computePrincipalComponent(cov)

	for i := 0; i < cs.count; i++ {
		f.xSum = f.xSum.add(cs.points[i].scale(cs.weights[i]))
		f.wSum += cs.weights[i]
		f.sumWxx += cs.weights[i] * f.dotm(cs.points[i], cs.points[i])
	}
	return f
}

// dotm is the dot product under the squared channel metric; the error of a
// reconstruction delta d is dotm(d, d).
func (f *clusterFit) dotm(a, b vec3) float32 {
	return f.metricSqr.x*a.x*b.x + f.metricSqr.y*a.y*b.y + f.metricSqr.z*a.z*b.z
}

// constructOrdering sorts the colour set by projection onto axis and stores
// the ordering at the given pass index. It returns false when the ordering
// repeats an earlier pass, which terminates the iterative search.
func (f *clusterFit) constructOrdering(axis vec3, iteration int) bool {
	cs := f.colours

	var dps [BlockTexels]float32
	order := &f.orders[iteration]
	for i := 0; i < cs.count; i++ {
		dps[i] = cs.points[i].dot(axis)
		order[i] = uint8(i)
	}

	// Stable insertion sort keeps first-occurrence order on equal
	// projections, which later tie-breaking depends on.
	for i := 1; i < cs.count; i++ {
		for j := i; j > 0 && dps[j] < dps[j-1]; j-- {
			dps[j], dps[j-1] = dps[j-1], dps[j]
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	for prev := 0; prev < iteration; prev++ {
		same := true
		for i := 0; i < cs.count; i++ {
			if f.orders[prev][i] != order[i] {
				same = false
				break
			}
		}
		if same {
			return false
		}
	}

	for i := 0; i < cs.count; i++ {
		j := order[i]
		f.ordered[i] = cs.points[j]
		f.weights[i] = cs.weights[j]
	}
	return true
}

// solveEndpoints returns the least-squares endpoint pair for the accumulated
// split sums. Degenerate splits that constrain only one endpoint (or only
// their blend) collapse to the weighted mean.
func (f *clusterFit) solveEndpoints(alphaX, betaX vec3, alpha2, beta2, alphaBeta float32) (a, b vec3, ok bool) {
	denom := alpha2*beta2 - alphaBeta*alphaBeta
	if absf(denom) > clusterEpsilon {
		factor := 1 / denom
		a = alphaX.scale(beta2).sub(betaX.scale(alphaBeta)).scale(factor)
		b = betaX.scale(alpha2).sub(alphaX.scale(alphaBeta)).scale(factor)
	} else {
		total := alpha2 + 2*alphaBeta + beta2
		if total <= clusterEpsilon {
			return vec3{}, vec3{}, false
		}
		a = alphaX.add(betaX).scale(1 / total)
		b = a
	}

	a = snapToGrid(a.clampUnit())
	b = snapToGrid(b.clampUnit())
	return a, b, true
}

// splitError evaluates the true weighted squared error of assigning the
// current split's interpolation fractions with endpoints a and b.
func (f *clusterFit) splitError(a, b, alphaX, betaX vec3, alpha2, beta2, alphaBeta float32) float32 {
	return alpha2*f.dotm(a, a) + beta2*f.dotm(b, b) +
		2*(alphaBeta*f.dotm(a, b)-f.dotm(a, alphaX)-f.dotm(b, betaX)) +
		f.sumWxx
}

func (f *clusterFit) compress(dst []byte) {
	if f.isBC1 {
		f.compress3(dst)
		if !f.colours.transparent {
			f.compress4(dst)
		}
	} else {
		f.compress4(dst)
	}
}

// prefixSums fills px and pw with the running weighted colour and weight
// totals of the current ordering; px[i] covers the first i entries.
func (f *clusterFit) prefixSums(px *[BlockTexels + 1]vec3, pw *[BlockTexels + 1]float32) {
	for i := 0; i < f.colours.count; i++ {
		px[i+1] = px[i].add(f.ordered[i].scale(f.weights[i]))
		pw[i+1] = pw[i] + f.weights[i]
	}
}

func (f *clusterFit) compress3(dst []byte) {
	count := f.colours.count

	if !f.constructOrdering(f.principal, 0) {
		return
	}

	bestError := f.bestError
	var bestStart, bestEnd vec3
	bestI, bestJ, bestIteration := 0, 0, -1

	var px [BlockTexels + 1]vec3
	var pw [BlockTexels + 1]float32

	for iteration := 0; ; {
		px = [BlockTexels + 1]vec3{}
		pw = [BlockTexels + 1]float32{}
		f.prefixSums(&px, &pw)

		for i := 0; i <= count; i++ {
			x0, w0 := px[i], pw[i]
			for j := i; j <= count; j++ {
				x1 := px[j].sub(px[i])
				w1 := pw[j] - pw[i]
				x2 := f.xSum.sub(px[j])
				w2 := f.wSum - pw[j]

				alphaX := x0.add(x1.scale(0.5))
				alpha2 := w0 + 0.25*w1
				betaX := x2.add(x1.scale(0.5))
				beta2 := w2 + 0.25*w1
				alphaBeta := 0.25 * w1

				a, b, ok := f.solveEndpoints(alphaX, betaX, alpha2, beta2, alphaBeta)
				if !ok {
					continue
				}
				if err := f.splitError(a, b, alphaX, betaX, alpha2, beta2, alphaBeta); err < bestError {
					bestError = err
					bestStart, bestEnd = a, b
					bestI, bestJ, bestIteration = i, j, iteration
				}
			}
		}

		if bestIteration != iteration {
			break
		}
		iteration++
		if iteration == f.iterationLimit {
			break
		}
		if !f.constructOrdering(bestEnd.sub(bestStart), iteration) {
			break
		}
	}

	if bestIteration < 0 || bestError >= f.bestError {
		return
	}

	order := &f.orders[bestIteration]
	var unordered [BlockTexels]uint8
	for m := 0; m < bestI; m++ {
		unordered[order[m]] = 0
	}
	for m := bestI; m < bestJ; m++ {
		unordered[order[m]] = 2
	}
	for m := bestJ; m < count; m++ {
		unordered[order[m]] = 1
	}

	var indices [BlockTexels]uint8
	f.colours.remapIndices(&unordered, &indices)
	writeColourBlock3(bestStart, bestEnd, indices, dst)
	f.bestError = bestError
}

func (f *clusterFit) compress4(dst []byte) {
	count := f.colours.count

	if !f.constructOrdering(f.principal, 0) {
		return
	}

	const (
		third     = float32(1.0 / 3)
		twoThirds = float32(2.0 / 3)
		ninth     = float32(1.0 / 9)
	)

	bestError := f.bestError
	var bestStart, bestEnd vec3
	bestI, bestJ, bestK, bestIteration := 0, 0, 0, -1

	var px [BlockTexels + 1]vec3
	var pw [BlockTexels + 1]float32

	for iteration := 0; ; {
		px = [BlockTexels + 1]vec3{}
		pw = [BlockTexels + 1]float32{}
		f.prefixSums(&px, &pw)

		for i := 0; i <= count; i++ {
			x0, w0 := px[i], pw[i]
			for j := i; j <= count; j++ {
				x1 := px[j].sub(px[i])
				w1 := pw[j] - pw[i]
				for k := j; k <= count; k++ {
					x2 := px[k].sub(px[j])
					w2 := pw[k] - pw[j]
					x3 := f.xSum.sub(px[k])
					w3 := f.wSum - pw[k]

					alphaX := x0.add(x1.scale(twoThirds)).add(x2.scale(third))
					alpha2 := w0 + 4*ninth*w1 + ninth*w2
					betaX := x3.add(x2.scale(twoThirds)).add(x1.scale(third))
					beta2 := w3 + 4*ninth*w2 + ninth*w1
					alphaBeta := 2 * ninth * (w1 + w2)

					a, b, ok := f.solveEndpoints(alphaX, betaX, alpha2, beta2, alphaBeta)
					if !ok {
						continue
					}
					if err := f.splitError(a, b, alphaX, betaX, alpha2, beta2, alphaBeta); err < bestError {
						bestError = err
						bestStart, bestEnd = a, b
						bestI, bestJ, bestK, bestIteration = i, j, k, iteration
					}
				}
			}
		}

		if bestIteration != iteration {
			break
		}
		iteration++
		if iteration == f.iterationLimit {
			break
		}
		if !f.constructOrdering(bestEnd.sub(bestStart), iteration) {
			break
		}
	}

	if bestIteration < 0 || bestError >= f.bestError {
		return
	}

	order := &f.orders[bestIteration]
	var unordered [BlockTexels]uint8
	for m := 0; m < bestI; m++ {
		unordered[order[m]] = 0
	}
	for m := bestI; m < bestJ; m++ {
		unordered[order[m]] = 2
	}
	for m := bestJ; m < bestK; m++ {
		unordered[order[m]] = 3
	}
	for m := bestK; m < count; m++ {
		unordered[order[m]] = 1
	}

	var indices [BlockTexels]uint8
	f.colours.remapIndices(&unordered, &indices)
	writeColourBlock4(bestStart, bestEnd, indices, dst)
	f.bestError = bestError
}
