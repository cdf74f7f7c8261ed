package world

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/zeusync/worldpos/internal/core/coord"
)

// Camera is a two-axis viewpoint that trails a target position. It owns
// its vector; only the world's tick writes to it.
type Camera struct {
	position *coord.Vector
	tileSize int64
	maxSpeed float64
}

// NewCamera creates a camera at the origin. A zero maxSpeed snaps to the
// target on every Follow.
func NewCamera(radix, tileSize int64, maxSpeed float64) (*Camera, error) {
	position, err := coord.New([]any{0, 0}, coord.WithRadix(radix))
	if err != nil {
		return nil, err
	}
	if tileSize <= 0 {
		return nil, ErrInvalidConfig
	}
	return &Camera{position: position, tileSize: tileSize, maxSpeed: maxSpeed}, nil
}

// Follow moves the camera toward the first two axes of target.
func (c *Camera) Follow(target *coord.Vector) error {
	goal, err := planar(target)
	if err != nil {
		return err
	}
	offset, err := c.position.SubFrom(goal)
	if err != nil {
		return err
	}
	delta := make([]any, offset.Len())
	for i := range delta {
		if delta[i], err = offset.Value(i); err != nil {
			return err
		}
	}

	var opts []coord.MoveOption
	if c.maxSpeed > 0 {
		opts = append(opts, coord.WithMaxSpeed(c.maxSpeed))
	}
	_, err = c.position.Move(delta, opts...)
	return err
}

// Position returns a copy of the camera position.
func (c *Camera) Position() *coord.Vector {
	return c.position.Clone()
}

// Cell returns the tile cell under the camera.
func (c *Camera) Cell() (x, y *big.Int, err error) {
	return cellOfVector(c.position, c.tileSize)
}

// Visible returns the tiles within radius cells of the camera, rows
// running from the lowest y upward.
func (c *Camera) Visible(tiles *TileMap, radius int64) ([][]Tile, error) {
	cx, cy, err := c.Cell()
	if err != nil {
		return nil, err
	}
	rows := make([][]Tile, 0, 2*radius+1)
	for dy := -radius; dy <= radius; dy++ {
		y := new(big.Int).Add(cy, big.NewInt(dy))
		row := make([]Tile, 0, 2*radius+1)
		for dx := -radius; dx <= radius; dx++ {
			x := new(big.Int).Add(cx, big.NewInt(dx))
			row = append(row, tiles.TileAt(x, y))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// planar returns the first two axis values of v, padding a single axis
// with zero.
func planar(v *coord.Vector) ([]any, error) {
	out := []any{decimal.Zero, decimal.Zero}
	for i := 0; i < 2 && i < v.Len(); i++ {
		value, err := v.Value(i)
		if err != nil {
			return nil, err
		}
		out[i] = value
	}
	return out, nil
}

// cellOfVector derives a grid cell from the formatted axes of v.
func cellOfVector(v *coord.Vector, size int64) (x, y *big.Int, err error) {
	cell := []*big.Int{new(big.Int), new(big.Int)}
	for i := 0; i < 2 && i < v.Len(); i++ {
		text, err := v.Get(i)
		if err != nil {
			return nil, nil, err
		}
		if cell[i], _, err = Cell(text, size); err != nil {
			return nil, nil, err
		}
	}
	return cell[0], cell[1], nil
}
