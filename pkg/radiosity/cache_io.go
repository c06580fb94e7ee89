package radiosity

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/df07/povcore/pkg/core"
	"github.com/df07/povcore/pkg/octree"
)

// Save writes the cache file format spec.md §6 defines: a `B` line with the
// frozen brightness scale, a `P` preview-complete marker, then one `C` line
// per depth-1 block. A write failure is logged by the caller, not treated
// as fatal (spec.md §7 "Cache file I/O").
func (c *Cache) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "B %s\n", strconv.FormatFloat(c.brightness, 'g', -1, 64)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(bw, "P"); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return c.tree.Save(w)
}

// Load reads a cache file previously written by Save. A read failure clears
// the cache's blocks and lets the render proceed from empty — per spec.md
// §7, cache I/O is non-fatal. Malformed lines are skipped.
func (c *Cache) Load(r io.Reader) error {
	content, err := io.ReadAll(r)
	if err != nil {
		c.reset()
		return err
	}

	lines := strings.Split(string(content), "\n")
	var blockLines strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "B "):
			if v, perr := strconv.ParseFloat(strings.TrimPrefix(trimmed, "B "), 64); perr == nil {
				c.brightness = v
				c.brightnessFrozen = true
			}
		case trimmed == "P":
			c.pass = PassFinal
		case strings.HasPrefix(trimmed, "C "):
			blockLines.WriteString(line)
			blockLines.WriteString("\n")
		}
	}

	_, err = c.tree.Load(strings.NewReader(blockLines.String()), func(b *core.IrradianceBlock) float64 {
		return b.Radius(c.cfg.ErrorBound)
	})
	if err != nil {
		c.reset()
		return err
	}
	return nil
}

func (c *Cache) reset() {
	c.tree = octree.New()
}
