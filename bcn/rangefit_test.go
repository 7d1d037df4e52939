package bcn

import "testing"

func TestSnapToGrid(t *testing.T) {
	cases := []struct {
		in   vec3
		want vec3
	}{
		{vec3{0, 0, 0}, vec3{0, 0, 0}},
		{vec3{1, 1, 1}, vec3{1, 1, 1}},
		{vec3{0.5, 0.5, 0.5}, vec3{16.0 / 31, 32.0 / 63, 16.0 / 31}},
	}
	for _, c := range cases {
		if got := snapToGrid(c.in); got != c.want {
			t.Fatalf("snapToGrid(%v): got %v want %v", c.in, got, c.want)
		}
	}
}

func TestRangeFitBlackWhite(t *testing.T) {
	// Half black, half white: both extremes sit on the RGB565 grid, so the
	// range fit reconstructs them exactly.
	var rgba [BlockRGBABytes]byte
	for i := 0; i < BlockTexels; i++ {
		if i >= 8 {
			rgba[4*i] = 255
			rgba[4*i+1] = 255
			rgba[4*i+2] = 255
		}
		rgba[4*i+3] = 255
	}

	cs := newColourSet(&rgba, BlockMaskAll, false, false)
	rf := newRangeFit(&cs, true, WeightsUniform)

	var block [8]byte
	rf.compress(block[:])
	if rf.bestError != 0 {
		t.Fatalf("bestError: got %v want 0", rf.bestError)
	}

	var out [BlockRGBABytes]byte
	decompressColourBlock(&out, block[:], true)
	for i := 0; i < BlockTexels; i++ {
		want := uint8(0)
		if i >= 8 {
			want = 255
		}
		if out[4*i] != want || out[4*i+1] != want || out[4*i+2] != want || out[4*i+3] != 255 {
			t.Fatalf("pixel %d: got (%d,%d,%d,%d) want gray %d",
				i, out[4*i], out[4*i+1], out[4*i+2], out[4*i+3], want)
		}
	}
}

func TestRangeFitEmptySet(t *testing.T) {
	var rgba [BlockRGBABytes]byte
	cs := newColourSet(&rgba, 0, false, false)
	rf := newRangeFit(&cs, true, WeightsUniform)

	var block [8]byte
	rf.compress(block[:])

	// No valid pixels: the fit still writes a decodable block.
	var out [BlockRGBABytes]byte
	decompressColourBlock(&out, block[:], true)
}

func TestComputePrincipalComponent(t *testing.T) {
	// Points spread along the red axis only.
	var points [BlockTexels]vec3
	var weights [BlockTexels]float32
	for i := 0; i < 4; i++ {
		points[i] = vec3{float32(i) / 4, 0.5, 0.5}
		weights[i] = 1
	}
	cov := computeWeightedCovariance(&points, &weights, 4)
	axis := computePrincipalComponent(cov)

	if absf(axis.x) <= absf(axis.y) || absf(axis.x) <= absf(axis.z) {
		t.Fatalf("principal axis %v not dominated by x", axis)
	}
}
