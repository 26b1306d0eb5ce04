package interfaces

import "stock-insight/src/models"

// -----------------------------------------------------------------------------
// IEventBroadcaster pushes lookup events to live listeners.
// -----------------------------------------------------------------------------

type IEventBroadcaster interface {
	// Broadcast must not block the caller.
	Broadcast(event models.MLookupEvent)
}
