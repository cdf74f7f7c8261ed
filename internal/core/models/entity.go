package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/worldpos/internal/core/systems/movement"
)

// EntityID identifies an entity for its whole lifetime
type EntityID uuid.UUID

// NewEntityID returns a random entity ID
func NewEntityID() EntityID {
	return EntityID(uuid.New())
}

// ParseEntityID parses the canonical text form of an ID
func ParseEntityID(text string) (EntityID, error) {
	id, err := uuid.Parse(text)
	if err != nil {
		return EntityID{}, fmt.Errorf("parse entity id %q: %w", text, err)
	}
	return EntityID(id), nil
}

func (id EntityID) String() string {
	return uuid.UUID(id).String()
}

func (id EntityID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *EntityID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

// Kind classifies entities
type Kind string

const (
	KindPlayer Kind = "player"
	KindNPC    Kind = "npc"
)

// Entity is a body living in the world. The body, and the position vector
// inside it, belong to this entity alone.
type Entity struct {
	ID        EntityID
	Kind      Kind
	Name      string
	Body      *movement.Body
	CreatedAt time.Time
}

// NewEntity creates an entity around an existing body.
func NewEntity(kind Kind, name string, body *movement.Body) *Entity {
	return &Entity{
		ID:        NewEntityID(),
		Kind:      kind,
		Name:      name,
		Body:      body,
		CreatedAt: time.Now(),
	}
}
