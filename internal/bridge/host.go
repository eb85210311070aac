package bridge

import "physbridge/internal/engine"

// Host is the bridge's view of the game world. The host application owns
// entity lifecycles; the bridge only reads through this port and must be
// told (via RemoveEntity or Delete) when entities cease to exist.
type Host interface {
	// EntityTransform returns the entity's current world placement.
	EntityTransform(entity EntityID) (engine.Transform, bool)

	// EntityModel returns the entity's model descriptor string.
	EntityModel(entity EntityID) (string, bool)
}
