package sampler

import "github.com/df07/povcore/pkg/core"

// MosaicKind selects the block-fill style for a mosaic preview pass.
type MosaicKind int

const (
	MosaicBlocky MosaicKind = iota // flat-fill each block with its single trace
	MosaicSmooth                   // bilinear blend between block centers
)

// MosaicDone reports preview progress back to the caller: which pixel row
// of the current pass just finished, that pass's block size, and whether
// this was the final (full-resolution) pass. It is called once per pixel
// row of every pass.
type MosaicDone func(rowY, blockSize int, final bool)

// RenderMosaic implements spec.md §4.6's mosaic preview: a sequence of
// coarse-to-fine passes, each one tracing a single ray per block-sized
// square and filling (MosaicBlocky) or interpolating (MosaicSmooth) the
// block's pixels from it. The first pass is the first time every screen
// region has been sampled at least once. RenderMosaic makes no call into
// the radiosity cache; brightness normalization happens only where a
// caller hooks it through done.
//
// blockSizes must be strictly decreasing and end in 1 (e.g. [16, 8, 4, 2,
// 1]); the final size 1 pass is the full-resolution image and always
// happens whether or not this function is given a shorter list, ensuring
// every pixel is eventually traced at full resolution.
func (s *Sampler) RenderMosaic(plot PlotFunc, kind MosaicKind, blockSizes []int, done MosaicDone) {
	sizes := append([]int{}, blockSizes...)
	if len(sizes) == 0 || sizes[len(sizes)-1] != 1 {
		sizes = append(sizes, 1)
	}

	for _, block := range sizes {
		final := block == 1
		s.mosaicPass(plot, kind, block, func(rowY int) {
			if done != nil {
				done(rowY, block, final)
			}
		})
	}
}

// mosaicPass traces one ray per block×block square, advancing in strides
// of block across the frame, and fills every pixel of that square from the
// single sample (MosaicBlocky) or from a bilinear blend of the four
// surrounding block centers (MosaicSmooth).
func (s *Sampler) mosaicPass(plot PlotFunc, kind MosaicKind, block int, rowDone func(int)) {
	if block <= 1 {
		for y := 0; y < s.Height; y++ {
			for x := 0; x < s.Width; x++ {
				plot(x, y, s.traceCenter(x, y))
			}
			rowDone(y)
		}
		return
	}

	cols := (s.Width + block - 1) / block
	rows := (s.Height + block - 1) / block

	centers := make([][]core.Vec3, rows)
	for by := 0; by < rows; by++ {
		centers[by] = make([]core.Vec3, cols)
		cy := by*block + block/2
		if cy >= s.Height {
			cy = s.Height - 1
		}
		for bx := 0; bx < cols; bx++ {
			cx := bx*block + block/2
			if cx >= s.Width {
				cx = s.Width - 1
			}
			centers[by][bx] = s.traceCenter(cx, cy)
		}
	}

	for y := 0; y < s.Height; y++ {
		by := y / block
		for x := 0; x < s.Width; x++ {
			bx := x / block
			var c core.Vec3
			if kind == MosaicSmooth {
				c = bilinearBlockSample(centers, bx, by, x%block, y%block, block)
			} else {
				c = centers[by][bx]
			}
			plot(x, y, c)
		}
		rowDone(y)
	}
}

// bilinearBlockSample blends the four nearest block centers around pixel
// offset (ox, oy) within block (bx, by), clamping at the grid edges where
// a neighboring block doesn't exist.
func bilinearBlockSample(centers [][]core.Vec3, bx, by, ox, oy, block int) core.Vec3 {
	rows, cols := len(centers), len(centers[0])

	t := float64(ox)/float64(block) - 0.5
	u := float64(oy)/float64(block) - 0.5

	bx0, bx1b := bx, bx
	if t < 0 {
		bx0 = clampIndex(bx-1, cols)
		t += 1
	} else {
		bx1b = clampIndex(bx+1, cols)
	}
	by0, by1b := by, by
	if u < 0 {
		by0 = clampIndex(by-1, rows)
		u += 1
	} else {
		by1b = clampIndex(by+1, rows)
	}

	c00 := centers[by0][bx0]
	c10 := centers[by0][bx1b]
	c01 := centers[by1b][bx0]
	c11 := centers[by1b][bx1b]

	top := c00.Multiply(1 - t).Add(c10.Multiply(t))
	bot := c01.Multiply(1 - t).Add(c11.Multiply(t))
	return top.Multiply(1 - u).Add(bot.Multiply(u))
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
