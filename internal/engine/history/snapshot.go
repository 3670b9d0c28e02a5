package history

import "time"

// Snapshot is an immutable copy of the buffer text taken before an edit.
type Snapshot struct {
	Text        string    // Full buffer content
	Description string    // Label of the edit that followed the snapshot
	Timestamp   time.Time // When the snapshot was taken
}

// NewSnapshot creates a snapshot stamped with the current time.
func NewSnapshot(description, text string) Snapshot {
	return Snapshot{
		Text:        text,
		Description: description,
		Timestamp:   time.Now(),
	}
}
