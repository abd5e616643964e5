package text

import (
	"bytes"
	"math"
	"sync"
	"sync/atomic"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/breeze/internal/cache"
)

// Bounds is the measured extent of a single-line label, in the same units
// as the requested size.
type Bounds struct {
	// Width is the total advance of the shaped run.
	Width float32
	// Ascent is the distance from the baseline to the top of the line.
	Ascent float32
	// Descent is the distance from the baseline to the bottom of the line,
	// as a positive value.
	Descent float32
	// Height is Ascent + Descent + the font's line gap.
	Height float32
	// Glyphs is the number of glyphs after shaping (ligatures merge runes).
	Glyphs int
	// RTL reports a right-to-left paragraph direction.
	RTL bool
}

type measureKey struct {
	content string
	font    uint64
	size    uint32
}

func hashMeasureKey(k measureKey) uint64 {
	h := cache.StringHasher(k.content)
	h ^= k.font * 0x9e3779b97f4a7c15
	h ^= uint64(k.size) << 17
	return h
}

// Measurer shapes and measures labels.
//
// Measurer is safe for concurrent use. Parsed fonts (font.Font) are shared;
// a lightweight font.Face is created per shaping call and HarfbuzzShaper
// instances are pooled, since neither is safe for concurrent use.
type Measurer struct {
	mu    sync.RWMutex
	fonts map[uint64]*font.Font

	shapers sync.Pool
	bounds  *cache.ShardedCache[measureKey, Bounds]

	generation atomic.Uint64
}

// NewMeasurer creates a measurer with the default font registered. capacity
// is the per-shard size of the bounds cache; values <= 0 select the default.
func NewMeasurer(capacity int) (*Measurer, error) {
	m := &Measurer{
		fonts: make(map[uint64]*font.Font),
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		bounds: cache.NewSharded[measureKey, Bounds](capacity, hashMeasureKey),
	}
	def, err := parse(0, goregular.TTF)
	if err != nil {
		return nil, err
	}
	m.fonts[0] = def
	return m, nil
}

// Register parses data and makes it available under handle. Registering a
// handle again replaces its font, drops cached bounds and advances the
// generation.
func (m *Measurer) Register(handle uint64, data []byte) error {
	if handle == 0 {
		return ErrReservedFont
	}
	f, err := parse(handle, data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	_, replaced := m.fonts[handle]
	m.fonts[handle] = f
	m.mu.Unlock()
	if replaced {
		m.bounds.Clear()
		m.generation.Add(1)
	}
	return nil
}

// Generation counts font replacements. Bounds measured under an older
// generation may be stale.
func (m *Measurer) Generation() uint64 {
	return m.generation.Load()
}

// Has reports whether a font is registered under handle.
func (m *Measurer) Has(handle uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.fonts[handle]
	return ok
}

// Measure returns the bounds of content shaped with the font registered
// under handle at size. Unknown handles fall back to the default font.
// Empty content and non-positive sizes measure as zero.
func (m *Measurer) Measure(content string, handle uint64, size float32) Bounds {
	key := measureKey{content: content, font: handle, size: math.Float32bits(size)}
	return m.bounds.GetOrCreate(key, func() Bounds {
		return m.shape(content, m.lookup(handle), size)
	})
}

// CacheStats returns the hit/miss accounting of the bounds cache.
func (m *Measurer) CacheStats() cache.Stats { return m.bounds.Stats() }

func (m *Measurer) lookup(handle uint64) *font.Font {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if f, ok := m.fonts[handle]; ok {
		return f
	}
	return m.fonts[0]
}

func (m *Measurer) shape(content string, f *font.Font, size float32) Bounds {
	if size <= 0 || content == "" {
		return Bounds{}
	}
	runes := []rune(content)
	rtl := isRTL(content)
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(f),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := m.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	m.shapers.Put(hb)

	ascent := fixedToFloat(out.LineBounds.Ascent)
	descent := -fixedToFloat(out.LineBounds.Descent)
	return Bounds{
		Width:   abs32(fixedToFloat(out.Advance)),
		Ascent:  ascent,
		Descent: descent,
		Height:  ascent + descent + fixedToFloat(out.LineBounds.Gap),
		Glyphs:  len(out.Glyphs),
		RTL:     rtl,
	}
}

func parse(handle uint64, data []byte) (*font.Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, &FontError{Handle: handle, Err: err}
	}
	return face.Font, nil
}

// isRTL reports whether the paragraph's first run is right-to-left.
func isRTL(s string) bool {
	if s == "" {
		return false
	}
	p := bidi.Paragraph{}
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return false
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return false
	}
	run := ordering.Run(0)
	return run.Direction() == bidi.RightToLeft
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(size float32) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
