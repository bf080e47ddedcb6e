package storage

import "context"

// Slot is a durable key-value facility holding opaque serialized blobs.
// Load returns matcherrors.ErrSlotEmpty when nothing was saved under key.
type Slot interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error

	// Lifecycle
	Close()
}

// Ensure every backend implements Slot at compile time.
var (
	_ Slot = (*Store)(nil)
	_ Slot = (*FileSlot)(nil)
	_ Slot = (*MemorySlot)(nil)
)
