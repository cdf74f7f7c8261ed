package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/worldpos/internal/core/coord"
	"github.com/zeusync/worldpos/internal/core/observability/log"
	"github.com/zeusync/worldpos/internal/core/world"
)

const sample = `
log:
  level: warn
  encoding: console
tick:
  rate: 30
  max_fps: 0
  fps_interval: 250ms
  max_catch_up: 4
player:
  name: scout
  start: ["1699446367870005.2", "-0.5"]
  bearing: 1.5
  movement:
    radix: 65535
    speed_max: 10
    speed_accel: 30
    speed_damp: 40
    turn_max: 4
    turn_accel: 16
    turn_damp: 100000
world:
  tile_size: 32
  default_tile: grass
  seed: 42
  shards: 4
  camera_radix: 256
  camera_speed: 2.5
server:
  addr: "127.0.0.1:9000"
  write_timeout: 5s
  ping_interval: 15s
  max_clients: 8
`

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, log.LevelInfo, c.Log.Level)
	assert.Equal(t, float64(60), c.Tick.Rate)
	assert.Equal(t, float64(100), c.Player.Movement.SpeedMax)
	assert.Equal(t, int64(256), c.Player.Movement.Radix)
	assert.Equal(t, int64(coord.DefaultRadix), c.World.CameraRadix)
	assert.Equal(t, world.Water, c.World.DefaultTile)
	assert.Equal(t, []any{"0", "0", "0"}, c.Player.StartValues())
}

func TestLoadYAML(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, log.LevelWarn, c.Log.Level)
	assert.Equal(t, "console", c.Log.Encoding)
	assert.Equal(t, float64(30), c.Tick.Rate)
	assert.Equal(t, 250*time.Millisecond, c.Tick.FPSInterval)
	assert.Equal(t, 4, c.Tick.MaxCatchUp)
	assert.Equal(t, "scout", c.Player.Name)
	assert.Equal(t, []string{"1699446367870005.2", "-0.5"}, c.Player.Start)
	assert.Equal(t, int64(65535), c.Player.Movement.Radix)
	assert.Equal(t, float64(10), c.Player.Movement.SpeedMax)
	assert.Equal(t, world.Grass, c.World.DefaultTile)
	assert.Equal(t, uint64(42), c.World.Seed)
	assert.Equal(t, int64(32), c.World.TileSize)
	assert.Equal(t, 2.5, c.World.CameraSpeed)
	assert.Equal(t, "127.0.0.1:9000", c.Server.Addr)
	assert.Equal(t, 5*time.Second, c.Server.WriteTimeout)
	assert.Equal(t, 8, c.Server.MaxClients)
}

func TestLoadYAML_PartialKeepsDefaults(t *testing.T) {
	c, err := LoadYAML(strings.NewReader("tick:\n  rate: 20\n"))
	require.NoError(t, err)
	assert.Equal(t, float64(20), c.Tick.Rate)
	assert.Equal(t, 120, c.Tick.MaxFPS)
	assert.Equal(t, ":8080", c.Server.Addr)

	c, err = LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadYAML_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: "tick:\n  speed: 3\n"},
		{name: "bad level", doc: "log:\n  level: loud\n"},
		{name: "bad tile", doc: "world:\n  default_tile: lava\n"},
		{name: "zero rate", doc: "tick:\n  rate: 0\n"},
		{name: "bad encoding", doc: "log:\n  encoding: xml\n"},
		{name: "tiny radix", doc: "player:\n  movement:\n    radix: 1\n"},
		{name: "empty start", doc: "player:\n  start: []\n"},
		{name: "no shards", doc: "world:\n  shards: 0\n"},
		{name: "no addr", doc: "server:\n  addr: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadJSON(t *testing.T) {
	c, err := LoadJSON(strings.NewReader(`{"log":{"level":"debug","encoding":"json"},"world":{"tile_size":10,"default_tile":"coal","shards":2,"camera_radix":10},"tick":{"rate":50,"max_catch_up":2,"fps_interval":1000000}}`))
	require.NoError(t, err)
	assert.Equal(t, log.LevelDebug, c.Log.Level)
	assert.Equal(t, world.Coal, c.World.DefaultTile)
	assert.Equal(t, time.Millisecond, c.Tick.FPSInterval)

	_, err = LoadJSON(strings.NewReader(`{"nope":1}`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "worldpos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "scout", c.Player.Name)

	path = filepath.Join(dir, "worldpos.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"addr":":1","max_clients":1}}`), 0o600))
	c, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":1", c.Server.Addr)

	path = filepath.Join(dir, "worldpos.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	_, err = LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
