package cache

import (
	"fmt"
	"image/color"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ByLCY/inkline/layout"
)

// DefaultCapacity is the glyph cache size used when none is configured.
const DefaultCapacity = 1024

// GlyphKey identifies one measured glyph.
type GlyphKey struct {
	Font      layout.Font
	Char      rune
	Antialias bool
}

func (k GlyphKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%g|%d|%t", k.Font.Name, k.Font.Src, k.Font.Style, k.Font.Size, k.Char, k.Antialias)
}

// Glyphs measures single characters through a rasterizer and remembers the
// sizes in an LRU. It is safe for concurrent use; concurrent misses on the
// same key share one measurement.
type Glyphs struct {
	rast  layout.Rasterizer
	group singleflight.Group

	mu     sync.Mutex
	lru    *LRU[GlyphKey, layout.GlyphSize]
	hits   uint64
	misses uint64
}

var _ layout.GlyphMetrics = (*Glyphs)(nil)

// NewGlyphs returns a glyph cache backed by rast.
func NewGlyphs(rast layout.Rasterizer, capacity int) *Glyphs {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Glyphs{rast: rast, lru: NewLRU[GlyphKey, layout.GlyphSize](capacity)}
}

// Glyph implements layout.GlyphMetrics.
func (g *Glyphs) Glyph(font layout.Font, ch rune, antialias bool) (layout.GlyphSize, error) {
	key := GlyphKey{Font: font, Char: ch, Antialias: antialias}

	g.mu.Lock()
	if size, ok := g.lru.Get(key); ok {
		g.hits++
		g.mu.Unlock()
		return size, nil
	}
	g.misses++
	g.mu.Unlock()

	v, err, _ := g.group.Do(key.String(), func() (any, error) {
		// Color does not affect glyph size.
		img, err := g.rast.Rasterize(font, string(ch), antialias, color.NRGBA{A: 0xff})
		if err != nil {
			return nil, fmt.Errorf("measure glyph %q: %w", ch, err)
		}
		var size layout.GlyphSize
		if img != nil {
			size = layout.GlyphSize{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
		}
		g.mu.Lock()
		g.lru.Put(key, size)
		g.mu.Unlock()
		return size, nil
	})
	if err != nil {
		return layout.GlyphSize{}, err
	}
	return v.(layout.GlyphSize), nil
}

// Stats returns the hit and miss counters.
func (g *Glyphs) Stats() (hits, misses uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hits, g.misses
}

// Len returns the number of cached glyphs.
func (g *Glyphs) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lru.Len()
}
