package world

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/worldpos/internal/core/events/bus"
	"github.com/zeusync/worldpos/internal/core/models"
	"github.com/zeusync/worldpos/internal/core/observability/log"
	"github.com/zeusync/worldpos/internal/core/systems"
	"github.com/zeusync/worldpos/internal/core/systems/movement"
)

// Listener receives every published snapshot. It runs on the ticking
// goroutine and must not block.
type Listener func(*Snapshot)

const eventSource = "world"

// World owns the entities, the camera and the terrain, and advances them
// one tick at a time. Registry calls are safe from any goroutine; Step
// must be driven by a single loop.
type World struct {
	config Config
	logger log.Log
	tiles  *TileMap
	camera *Camera
	shards []*shard

	stepMu  sync.Mutex
	systems []systems.System
	tick    uint64

	followMu sync.RWMutex
	follow   *models.EntityID

	snapshot atomic.Pointer[Snapshot]
	events   *bus.Bus
}

type shard struct {
	mu       sync.RWMutex
	entities map[models.EntityID]*entry
}

// entry holds input queued for an entity until the next tick applies it.
type entry struct {
	entity   *models.Entity
	controls movement.Controls
	pending  bool
}

var _ movement.BodySource = (*World)(nil)

// New creates a world with a movement system already registered.
func New(config Config, logger log.Log) (*World, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Nop()
	}
	camera, err := NewCamera(config.CameraRadix, config.TileSize, config.CameraSpeed)
	if err != nil {
		return nil, err
	}

	w := &World{
		config: config,
		logger: logger.With(log.String("component", "world")),
		tiles:  DefaultTileMap(config.DefaultTile, config.Seed),
		camera: camera,
		shards: make([]*shard, config.Shards),
		events: bus.New(),
	}
	for i := range w.shards {
		w.shards[i] = &shard{entities: make(map[models.EntityID]*entry)}
	}
	w.systems = []systems.System{movement.NewSystem(w, config.Workers, logger)}
	w.snapshot.Store(w.buildSnapshot(time.Now()))

	return w, nil
}

// Spawn places a new entity with its own body and returns its ID.
func (w *World) Spawn(kind models.Kind, name string, start []any, bearing float64, config movement.Config) (models.EntityID, error) {
	body, err := movement.NewBody(start, bearing, config)
	if err != nil {
		return models.EntityID{}, err
	}
	entity := models.NewEntity(kind, name, body)

	s := w.shardFor(entity.ID)
	s.mu.Lock()
	s.entities[entity.ID] = &entry{entity: entity}
	s.mu.Unlock()

	w.publish(bus.TypeEntitySpawned, entity.ID)
	w.logger.Info("Entity spawned",
		log.Entity(entity.ID.String()),
		log.String("kind", string(kind)),
		log.Position(body.Position()),
		log.Radix(config.Radix),
	)
	return entity.ID, nil
}

// Remove deletes an entity. A camera following it stays where it is.
func (w *World) Remove(id models.EntityID) error {
	s := w.shardFor(id)
	s.mu.Lock()
	_, ok := s.entities[id]
	delete(s.entities, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("remove %s: %w", id, ErrEntityNotFound)
	}

	w.followMu.Lock()
	if w.follow != nil && *w.follow == id {
		w.follow = nil
	}
	w.followMu.Unlock()

	w.publish(bus.TypeEntityRemoved, id)
	w.logger.Info("Entity removed", log.Entity(id.String()))
	return nil
}

// SetControls queues input for an entity; it takes effect on the next tick.
func (w *World) SetControls(id models.EntityID, controls movement.Controls) error {
	s := w.shardFor(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entities[id]
	if !ok {
		return fmt.Errorf("controls for %s: %w", id, ErrEntityNotFound)
	}
	e.controls = controls
	e.pending = true
	return nil
}

// Follow points the camera at an entity.
func (w *World) Follow(id models.EntityID) error {
	s := w.shardFor(id)
	s.mu.RLock()
	_, ok := s.entities[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("follow %s: %w", id, ErrEntityNotFound)
	}

	w.followMu.Lock()
	w.follow = &id
	w.followMu.Unlock()
	return nil
}

// AddSystem registers an extra per-tick system.
func (w *World) AddSystem(system systems.System) {
	w.stepMu.Lock()
	defer w.stepMu.Unlock()

	w.systems = append(w.systems, system)
	systems.Sort(w.systems)
}

// OnStep registers a listener for published snapshots.
func (w *World) OnStep(listener Listener) (*bus.Subscription, error) {
	return w.events.Subscribe(bus.TypeTick, func(e bus.Event) error {
		if snap, ok := e.Data.(*Snapshot); ok {
			listener(snap)
		}
		return nil
	})
}

// Events returns the bus carrying tick, spawn and removal events. Spawn
// and removal events carry the models.EntityID.
func (w *World) Events() *bus.Bus { return w.events }

// Bodies returns the body of every entity.
func (w *World) Bodies() []*movement.Body {
	entries := w.entries()
	bodies := make([]*movement.Body, len(entries))
	for i, e := range entries {
		bodies[i] = e.entity.Body
	}
	return bodies
}

// Len returns the number of entities.
func (w *World) Len() int {
	n := 0
	for _, s := range w.shards {
		s.mu.RLock()
		n += len(s.entities)
		s.mu.RUnlock()
	}
	return n
}

// Tiles returns the terrain.
func (w *World) Tiles() *TileMap { return w.tiles }

// Snapshot returns the state published by the latest tick.
func (w *World) Snapshot() *Snapshot {
	return w.snapshot.Load()
}

// Step runs one tick: queued input is handed to bodies, systems run in
// priority order, the camera catches up, and a snapshot is published.
// All body writes finish before any snapshot read.
func (w *World) Step(ctx context.Context, frameTime float64) error {
	w.stepMu.Lock()
	defer w.stepMu.Unlock()

	w.applyControls()

	for _, system := range w.systems {
		if err := system.Update(ctx, frameTime); err != nil {
			return fmt.Errorf("system %s: %w", system.Name(), err)
		}
	}
	w.tick++

	if target := w.followed(); target != nil {
		if err := w.camera.Follow(target.Body.Position()); err != nil {
			w.logger.Warn("Camera follow failed", log.Entity(target.ID.String()), log.Error(err))
		}
	}

	snap := w.buildSnapshot(time.Now())
	w.snapshot.Store(snap)
	w.logger.Debug("Tick", log.Tick(snap.Tick), log.Int("entities", len(snap.Entities)))

	w.publish(bus.TypeTick, snap)
	return nil
}

func (w *World) publish(eventType string, data any) {
	if err := w.events.Publish(bus.NewEvent(eventType, eventSource, data)); err != nil {
		w.logger.Warn("Event handler failed", log.String("event", eventType), log.Error(err))
	}
}

func (w *World) applyControls() {
	for _, s := range w.shards {
		s.mu.Lock()
		for _, e := range s.entities {
			if e.pending {
				e.entity.Body.SetControls(e.controls)
				e.pending = false
			}
		}
		s.mu.Unlock()
	}
}

func (w *World) followed() *models.Entity {
	w.followMu.RLock()
	defer w.followMu.RUnlock()
	if w.follow == nil {
		return nil
	}

	s := w.shardFor(*w.follow)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entities[*w.follow]; ok {
		return e.entity
	}
	return nil
}

// entries lists every entry ordered by ID.
func (w *World) entries() []*entry {
	var out []*entry
	for _, s := range w.shards {
		s.mu.RLock()
		for _, e := range s.entities {
			out = append(out, e)
		}
		s.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].entity.ID.String() < out[j].entity.ID.String()
	})
	return out
}

func (w *World) shardFor(id models.EntityID) *shard {
	return w.shards[xxhash.Sum64(id[:])%uint64(len(w.shards))]
}
