package bcn

// vec3 is a 3-component float32 vector. All operations are pure and
// deterministic for identical inputs.
type vec3 struct {
	x, y, z float32
}

func (a vec3) add(b vec3) vec3 { return vec3{a.x + b.x, a.y + b.y, a.z + b.z} }

func (a vec3) sub(b vec3) vec3 { return vec3{a.x - b.x, a.y - b.y, a.z - b.z} }

func (a vec3) mul(b vec3) vec3 { return vec3{a.x * b.x, a.y * b.y, a.z * b.z} }

func (a vec3) scale(s float32) vec3 { return vec3{a.x * s, a.y * s, a.z * s} }

func (a vec3) dot(b vec3) float32 { return a.x*b.x + a.y*b.y + a.z*b.z }

func (a vec3) min(b vec3) vec3 {
	return vec3{minf(a.x, b.x), minf(a.y, b.y), minf(a.z, b.z)}
}

func (a vec3) max(b vec3) vec3 {
	return vec3{maxf(a.x, b.x), maxf(a.y, b.y), maxf(a.z, b.z)}
}

// clampUnit clamps each component to [0, 1].
func (a vec3) clampUnit() vec3 {
	return a.max(vec3{}).min(vec3{1, 1, 1})
}

// truncate rounds each component towards zero to an integral value.
func (a vec3) truncate() vec3 {
	return vec3{float32(int32(a.x)), float32(int32(a.y)), float32(int32(a.z))}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// sym3x3 is a symmetric 3x3 matrix stored as the upper triangle
// (xx, xy, xz, yy, yz, zz).
type sym3x3 [6]float32

// computeWeightedCovariance returns the weighted covariance matrix of the
// first count points around their weighted centroid.
func computeWeightedCovariance(points *[BlockTexels]vec3, weights *[BlockTexels]float32, count int) sym3x3 {
	var total float32
	var centroid vec3
	for i := 0; i < count; i++ {
		total += weights[i]
		centroid = centroid.add(points[i].scale(weights[i]))
	}
	if total > 0 {
		centroid = centroid.scale(1 / total)
	}

	var cov sym3x3
	for i := 0; i < count; i++ {
		a := points[i].sub(centroid)
		b := a.scale(weights[i])
		cov[0] += a.x * b.x
		cov[1] += a.x * b.y
		cov[2] += a.x * b.z
		cov[3] += a.y * b.y
		cov[4] += a.y * b.z
		cov[5] += a.z * b.z
	}
	return cov
}

const powerIterationCount = 8

// computePrincipalComponent extracts the dominant eigenvector of a symmetric
// matrix by power iteration. The result is not normalized; callers only use
// it as a projection direction.
func computePrincipalComponent(m sym3x3) vec3 {
	v := vec3{1, 1, 1}
	for i := 0; i < powerIterationCount; i++ {
		w := vec3{
			m[0]*v.x + m[1]*v.y + m[2]*v.z,
			m[1]*v.x + m[3]*v.y + m[4]*v.z,
			m[2]*v.x + m[4]*v.y + m[5]*v.z,
		}

		// Rescale to keep the iteration within float range.
		a := maxf(maxf(absf(w.x), absf(w.y)), absf(w.z))
		if a == 0 {
			return v
		}
		v = w.scale(1 / a)
	}
	return v
}

func absf(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}
