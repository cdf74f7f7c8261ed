package world

import (
	"time"

	"github.com/zeusync/worldpos/internal/core/models"
	"github.com/zeusync/worldpos/internal/core/observability/log"
)

// Snapshot is the read-only view of the world after a tick.
type Snapshot struct {
	Tick     uint64        `json:"tick"`
	Time     time.Time     `json:"time"`
	Camera   CameraState   `json:"camera"`
	Entities []EntityState `json:"entities"`
}

// CameraState is the camera part of a snapshot
type CameraState struct {
	Position  string           `json:"position"`
	Axes      []string         `json:"axes"`
	Cell      [2]string        `json:"cell"`
	Following *models.EntityID `json:"following,omitempty"`
}

// EntityState is one entity in a snapshot. Cell holds the integer tile
// indexes as decimal text since they may exceed 64 bits.
type EntityState struct {
	ID       models.EntityID `json:"id"`
	Kind     models.Kind     `json:"kind"`
	Name     string          `json:"name,omitempty"`
	Position string          `json:"position"`
	Axes     []string        `json:"axes"`
	Cell     [2]string       `json:"cell"`
	Tile     Tile            `json:"tile"`
	Bearing  float64         `json:"bearing"`
}

// Entity finds an entity in the snapshot.
func (s *Snapshot) Entity(id models.EntityID) (EntityState, bool) {
	for _, e := range s.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return EntityState{}, false
}

func (w *World) buildSnapshot(now time.Time) *Snapshot {
	snap := &Snapshot{
		Tick:     w.tick,
		Time:     now,
		Entities: make([]EntityState, 0),
	}

	camera := w.camera.Position()
	snap.Camera = CameraState{Position: camera.String(), Axes: camera.Strings()}
	if x, y, err := w.camera.Cell(); err == nil {
		snap.Camera.Cell = [2]string{x.String(), y.String()}
	}
	w.followMu.RLock()
	if w.follow != nil {
		id := *w.follow
		snap.Camera.Following = &id
	}
	w.followMu.RUnlock()

	for _, e := range w.entries() {
		position := e.entity.Body.Position()
		state := EntityState{
			ID:       e.entity.ID,
			Kind:     e.entity.Kind,
			Name:     e.entity.Name,
			Position: position.String(),
			Axes:     position.Strings(),
			Tile:     w.tiles.Fallback(),
			Bearing:  e.entity.Body.Bearing(),
		}
		x, y, err := cellOfVector(position, w.config.TileSize)
		if err != nil {
			w.logger.Warn("Cell lookup failed", log.Entity(e.entity.ID.String()), log.Error(err))
		} else {
			state.Cell = [2]string{x.String(), y.String()}
			state.Tile = w.tiles.TileAt(x, y)
		}
		snap.Entities = append(snap.Entities, state)
	}
	return snap
}
