package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/worldpos/internal/core/config"
	"github.com/zeusync/worldpos/internal/core/observability/log"
	"github.com/zeusync/worldpos/internal/core/tick"
	"github.com/zeusync/worldpos/internal/core/world"
	"github.com/zeusync/worldpos/internal/server"
)

// ProviderSet wires the application graph
var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideWorld,
	ProvideServer,
	ProvideLoop,
	wire.Struct(new(App), "*"),
)

// App is the assembled application
type App struct {
	Config *config.Config
	Logger *log.Logger
	World  *world.World
	Server *server.Server
	Loop   *tick.Loop
}

func ProvideConfig(path string) (*config.Config, error) {
	if path == "" {
		c := config.Default()
		return c, c.Validate()
	}
	return config.LoadFile(path)
}

func ProvideLogger(c *config.Config) *log.Logger {
	return log.NewWithOptions(c.Log.Level, log.Options{
		Encoding:    c.Log.Encoding,
		OutputPaths: c.Log.OutputPaths,
	})
}

func ProvideWorld(c *config.Config, logger *log.Logger) (*world.World, error) {
	return world.New(c.World, logger)
}

// ProvideServer creates the diagnostics server and subscribes it to the
// world's snapshots.
func ProvideServer(c *config.Config, w *world.World, logger *log.Logger) (*server.Server, error) {
	s := server.NewServer(c.Server, w, logger)
	if _, err := w.OnStep(s.Broadcast); err != nil {
		return nil, err
	}
	return s, nil
}

func ProvideLoop(c *config.Config, w *world.World, logger *log.Logger) (*tick.Loop, error) {
	return tick.NewLoop(tick.LoopConfig{
		Rate:        c.Tick.Rate,
		MaxFPS:      c.Tick.MaxFPS,
		FPSInterval: c.Tick.FPSInterval,
		MaxCatchUp:  c.Tick.MaxCatchUp,
	}, w, logger)
}
