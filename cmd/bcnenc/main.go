package main

import (
	"flag"
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/texturetools/bcn-encoder/bcn"
)

func main() {
	var (
		inPath      string
		outPath     string
		format      string
		quality     string
		uniform     bool
		weightAlpha bool
		punch       bool
		mips        int
		workers     int
		encode      bool
		decode      bool
		dumpInfo    bool
		stats       bool
	)
	flag.StringVar(&inPath, "in", "", "input file")
	flag.StringVar(&outPath, "out", "", "output file")
	flag.StringVar(&format, "format", "bc1", "block compression format: bc1|bc2|bc3|bc4|bc5")
	flag.StringVar(&quality, "quality", "cluster", "encode quality preset: range|cluster|iterative")
	flag.BoolVar(&uniform, "uniform", false, "use uniform channel weights instead of perceptual")
	flag.BoolVar(&weightAlpha, "weight-alpha", false, "weight colour fitting by pixel alpha")
	flag.BoolVar(&punch, "punch-through", false, "BC1 only: encode pixels with alpha < 128 as transparent")
	flag.IntVar(&mips, "mips", 1, "number of mip levels to generate when encoding")
	flag.IntVar(&workers, "workers", 0, "number of parallel workers (0 = GOMAXPROCS)")
	flag.BoolVar(&encode, "encode", false, "encode input image -> .dds")
	flag.BoolVar(&decode, "decode", false, "decode input .dds -> image")
	flag.BoolVar(&dumpInfo, "info", false, "print .dds header info and exit")
	flag.BoolVar(&stats, "stats", false, "encode in memory and print round-trip error statistics")
	flag.Parse()

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: bcnenc -in <input> [-out <output>] [-encode|-decode|-info|-stats] [-format bc1]")
		os.Exit(2)
	}

	if dumpInfo {
		inData, err := os.ReadFile(inPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		h, err := bcn.ParseDDSHeader(inData)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(h.String())
		return
	}

	formatVal, err := parseFormat(format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	params, err := parseParams(quality, uniform, weightAlpha, punch)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if stats {
		if err := printStats(inPath, formatVal, params, workers); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if encode == decode {
		fmt.Fprintln(os.Stderr, "specify exactly one of -encode or -decode")
		os.Exit(2)
	}
	if outPath == "" {
		fmt.Fprintln(os.Stderr, "missing -out")
		os.Exit(2)
	}

	if encode {
		if err := encodeFile(inPath, outPath, formatVal, params, mips, workers); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := decodeFile(inPath, outPath, workers); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func encodeFile(inPath, outPath string, format bcn.Format, params bcn.Params, mips, workers int) error {
	src, err := imaging.Open(inPath)
	if err != nil {
		return err
	}
	top := imaging.Clone(src)
	w, h := top.Rect.Dx(), top.Rect.Dy()

	hdr := bcn.DDSHeader{Width: w, Height: h, MipCount: mips, Format: format}
	var payload []byte
	for level := 0; level < mips; level++ {
		lw, lh := bcn.MipDimensions(w, h, level)
		img := top
		if level > 0 {
			img = resize(top, lw, lh)
		}
		data, err := bcn.CompressImage(img.Pix, lw, lh, format, params, workers)
		if err != nil {
			return err
		}
		payload = append(payload, data...)
	}

	out, err := bcn.EncodeDDS(hdr, payload)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, out, 0o644)
}

func decodeFile(inPath, outPath string, workers int) error {
	inData, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	hdr, levels, err := bcn.ParseDDS(inData)
	if err != nil {
		return err
	}
	pix, err := bcn.DecompressImage(levels[0], hdr.Width, hdr.Height, hdr.Format, workers)
	if err != nil {
		return err
	}
	img := &image.NRGBA{
		Pix:    pix,
		Stride: hdr.Width * 4,
		Rect:   image.Rect(0, 0, hdr.Width, hdr.Height),
	}
	return imaging.Save(img, outPath)
}

func printStats(inPath string, format bcn.Format, params bcn.Params, workers int) error {
	src, err := imaging.Open(inPath)
	if err != nil {
		return err
	}
	img := imaging.Clone(src)
	w, h := img.Rect.Dx(), img.Rect.Dy()

	data, err := bcn.CompressImage(img.Pix, w, h, format, params, workers)
	if err != nil {
		return err
	}
	out, err := bcn.DecompressImage(data, w, h, format, workers)
	if err != nil {
		return err
	}

	var sumSqr float64
	var sumDist float64
	n := w * h
	for i := 0; i < n; i++ {
		pr, pg, pb := img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2]
		qr, qg, qb := out[i*4], out[i*4+1], out[i*4+2]
		dr, dg, db := float64(pr)-float64(qr), float64(pg)-float64(qg), float64(pb)-float64(qb)
		sumSqr += dr*dr + dg*dg + db*db

		c1 := colorful.Color{R: float64(pr) / 255, G: float64(pg) / 255, B: float64(pb) / 255}
		c2 := colorful.Color{R: float64(qr) / 255, G: float64(qg) / 255, B: float64(qb) / 255}
		sumDist += c1.DistanceCIE76(c2)
	}
	rmse := math.Sqrt(sumSqr / float64(n*3))
	fmt.Printf("%s %dx%d: %d bytes, RGB RMSE %.4f, mean CIE76 %.4f\n",
		format, w, h, len(data), rmse, sumDist/float64(n))
	return nil
}

func resize(img *image.NRGBA, w, h int) *image.NRGBA {
	g := gift.New(gift.Resize(w, h, gift.LanczosResampling))
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

func parseFormat(s string) (bcn.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bc1", "dxt1":
		return bcn.BC1, nil
	case "bc2", "dxt3":
		return bcn.BC2, nil
	case "bc3", "dxt5":
		return bcn.BC3, nil
	case "bc4", "ati1":
		return bcn.BC4, nil
	case "bc5", "ati2":
		return bcn.BC5, nil
	default:
		return 0, fmt.Errorf("invalid -format %q (want bc1|bc2|bc3|bc4|bc5)", s)
	}
}

func parseParams(quality string, uniform, weightAlpha, punch bool) (bcn.Params, error) {
	p := bcn.DefaultParams()
	switch strings.ToLower(strings.TrimSpace(quality)) {
	case "range", "fast":
		p.Algorithm = bcn.AlgorithmRangeFit
	case "cluster", "medium":
		p.Algorithm = bcn.AlgorithmClusterFit
	case "iterative", "thorough":
		p.Algorithm = bcn.AlgorithmIterativeClusterFit
	default:
		return bcn.Params{}, fmt.Errorf("invalid -quality %q (want range|cluster|iterative)", quality)
	}
	if uniform {
		p.Weights = bcn.WeightsUniform
	}
	p.WeighColourByAlpha = weightAlpha
	p.PunchThrough = punch
	return p, nil
}
