package world

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Tile is the terrain kind of one cell
type Tile uint8

const (
	Dirt Tile = iota
	Grass
	Water
	Coal
)

var tileNames = [...]string{"dirt", "grass", "water", "coal"}

func (t Tile) String() string {
	if int(t) < len(tileNames) {
		return tileNames[t]
	}
	return fmt.Sprintf("tile(%d)", uint8(t))
}

// ParseTile parses a tile name
func ParseTile(name string) (Tile, error) {
	for i, n := range tileNames {
		if strings.EqualFold(name, n) {
			return Tile(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tile %q: %w", name, ErrInvalidConfig)
}

func (t Tile) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tile) UnmarshalText(text []byte) error {
	parsed, err := ParseTile(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Colour is an RGB triple
type Colour struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var (
	Black = Colour{0, 0, 0}
	Brown = Colour{153, 76, 0}
	Green = Colour{0, 255, 0}
	Blue  = Colour{0, 0, 255}
	White = Colour{255, 255, 255}
)

// Colour returns the base colour of the tile
func (t Tile) Colour() Colour {
	switch t {
	case Dirt:
		return Brown
	case Grass:
		return Green
	case Water:
		return Blue
	case Coal:
		return Black
	}
	return White
}

// Point is a cell index that fits in 64 bits
type Point struct {
	X, Y int64
}

// TileMap is a sparse terrain map. Cells without an entry hold the
// fallback tile, which also covers every cell outside the int64 range.
type TileMap struct {
	tiles    map[Point]Tile
	fallback Tile
	seed     uint64
	jitter   int
}

// NewTileMap creates an empty map. Jitter bounds the per-cell colour
// offset applied by Shade.
func NewTileMap(fallback Tile, seed uint64, jitter int) *TileMap {
	if jitter < 0 {
		jitter = 0
	}
	return &TileMap{
		tiles:    make(map[Point]Tile),
		fallback: fallback,
		seed:     seed,
		jitter:   jitter,
	}
}

// Set places a tile
func (m *TileMap) Set(x, y int64, t Tile) {
	m.tiles[Point{X: x, Y: y}] = t
}

// Len returns the number of explicit cells
func (m *TileMap) Len() int { return len(m.tiles) }

// Fallback returns the tile of unset cells
func (m *TileMap) Fallback() Tile { return m.fallback }

// TileAt returns the tile of a cell of any magnitude.
func (m *TileMap) TileAt(x, y *big.Int) Tile {
	if !x.IsInt64() || !y.IsInt64() {
		return m.fallback
	}
	if t, ok := m.tiles[Point{X: x.Int64(), Y: y.Int64()}]; ok {
		return t
	}
	return m.fallback
}

// FillCircle sets every cell strictly inside the circle of the given
// squared radius around the origin.
func (m *TileMap) FillCircle(radiusSquared int64, t Tile) {
	r := int64(0)
	for r*r < radiusSquared {
		r++
	}
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			if x*x+y*y < radiusSquared {
				m.Set(x, y, t)
			}
		}
	}
}

// Shade returns the tile colour at a cell with a deterministic per-cell
// offset applied to every channel.
func (m *TileMap) Shade(x, y *big.Int) Colour {
	base := m.TileAt(x, y).Colour()
	if m.jitter == 0 {
		return base
	}
	offset := Jitter(x, y, m.seed, m.jitter)
	return Colour{
		R: shift(base.R, offset),
		G: shift(base.G, offset),
		B: shift(base.B, offset),
	}
}

// Jitter hashes a cell into [-offset, offset).
func Jitter(x, y *big.Int, seed uint64, offset int) int {
	if offset <= 0 {
		return 0
	}
	half := new(big.Int).Div(x, big.NewInt(2))
	product := new(big.Int).Mul(x, y)
	product.Div(product, big.NewInt(2))

	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], seed)

	h := xxhash.New()
	_, _ = h.Write(prefix[:])
	_, _ = h.WriteString(half.String())
	_, _ = h.WriteString(":")
	_, _ = h.WriteString(y.String())
	dx := h.Sum64()

	h.Reset()
	_, _ = h.Write(prefix[:])
	_, _ = h.WriteString(product.String())
	dy := h.Sum64()

	span := uint64(2 * offset)
	return int((dx^(dy*0x9E3779B97F4A7C15))%span) - offset
}

func shift(channel uint8, offset int) uint8 {
	v := int(channel) + offset
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// DefaultJitter is the colour offset bound of DefaultTileMap.
const DefaultJitter = 10

// DefaultTileMap returns the demo terrain: a small labelled patch around
// the origin, then a grass disc of squared radius 500.
func DefaultTileMap(fallback Tile, seed uint64) *TileMap {
	m := NewTileMap(fallback, seed, DefaultJitter)
	for _, cell := range []struct {
		x, y int64
		t    Tile
	}{
		{-1, -2, Grass}, {0, -2, Coal}, {1, -2, Dirt},
		{-1, -1, Water}, {0, -1, Water}, {1, -1, Grass},
		{-1, 0, Coal}, {0, 0, Grass}, {1, 0, Water},
		{-1, 1, Dirt}, {0, 1, Grass}, {1, 1, Coal},
		{-1, 2, Grass}, {0, 2, Water}, {1, 2, Dirt},
	} {
		m.Set(cell.x, cell.y, cell.t)
	}
	m.FillCircle(500, Grass)
	return m
}
