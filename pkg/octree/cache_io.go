package octree

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/df07/povcore/pkg/core"
)

// Save writes every depth-1 block in the tree as one `C` line each, the
// textual radiosity cache format spec.md §6 defines. Gradient vectors are
// not part of the wire format (consistent with the original's preview-only
// cache file, which only ever needs to seed depth-1 reuse, not gradients).
func (o *Octree) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var walkErr error
	for _, b := range o.allDepth1Blocks() {
		if err := writeBlockLine(bw, b); err != nil {
			walkErr = err
			break
		}
	}
	if walkErr != nil {
		return walkErr
	}
	return bw.Flush()
}

func writeBlockLine(w *bufio.Writer, b *core.IrradianceBlock) error {
	nrm := core.PackNormal(b.Normal)
	toNearest := core.PackNormal(b.ToNearestSurface)
	_, err := fmt.Fprintf(w, "C %d %s %s %s %s %s %s %s %s %s %s\n",
		b.Depth,
		formatFloat(b.Point.X), formatFloat(b.Point.Y), formatFloat(b.Point.Z),
		hex.EncodeToString(nrm[:]),
		formatFloat(b.Irradiance.X), formatFloat(b.Irradiance.Y), formatFloat(b.Irradiance.Z),
		formatFloat(b.MeanDistance), formatFloat(b.NearestDistance),
		hex.EncodeToString(toNearest[:]),
	)
	return err
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// allDepth1Blocks collects every block at bounce depth 1 across the tree.
func (o *Octree) allDepth1Blocks() []*core.IrradianceBlock {
	var out []*core.IrradianceBlock
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		for _, b := range n.blocks {
			if b.Depth == 1 {
				out = append(out, b)
			}
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(o.root)
	return out
}

// Load reads `C` lines written by Save and reinserts each block, sizing its
// node by radius(block) (typically MeanDistance × error_bound, mirroring
// the insert the original gather performed). Unrecognized or malformed
// lines are skipped rather than treated as fatal — cache file I/O is
// non-fatal per spec.md §7: a corrupt read degrades to a smaller warmed
// cache, it does not abort the render.
func (o *Octree) Load(r io.Reader, radius func(*core.IrradianceBlock) float64) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "C ") {
			continue
		}
		block, ok := parseBlockLine(line)
		if !ok {
			continue
		}
		o.Insert(block.Point, radius(block), block)
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	return count, nil
}

// parseBlockLine parses a "C depth px py pz nrm_hex r g b hmean nearest
// to_nearest_hex" line (12 whitespace-separated fields including the
// leading "C").
func parseBlockLine(line string) (*core.IrradianceBlock, bool) {
	fields := strings.Fields(line)
	if len(fields) != 12 {
		return nil, false
	}
	depth, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, false
	}
	px, err1 := strconv.ParseFloat(fields[2], 64)
	py, err2 := strconv.ParseFloat(fields[3], 64)
	pz, err3 := strconv.ParseFloat(fields[4], 64)
	nrmBytes, err4 := hex.DecodeString(fields[5])
	r, err5 := strconv.ParseFloat(fields[6], 64)
	g, err6 := strconv.ParseFloat(fields[7], 64)
	bch, err7 := strconv.ParseFloat(fields[8], 64)
	hmean, err8 := strconv.ParseFloat(fields[9], 64)
	nearest, err9 := strconv.ParseFloat(fields[10], 64)
	toNearestBytes, err10 := hex.DecodeString(fields[11])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil ||
		err6 != nil || err7 != nil || err8 != nil || err9 != nil || err10 != nil ||
		len(nrmBytes) != 3 || len(toNearestBytes) != 3 {
		return nil, false
	}

	var normal, toNearest core.PackedNormal
	copy(normal[:], nrmBytes)
	copy(toNearest[:], toNearestBytes)

	return &core.IrradianceBlock{
		Point:            core.NewVec3(px, py, pz),
		Normal:           normal.Unpack(),
		Depth:            depth,
		Irradiance:       core.NewVec3(r, g, bch),
		MeanDistance:     hmean,
		NearestDistance:  nearest,
		ToNearestSurface: toNearest.Unpack(),
	}, true
}
