package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const snapshotContentType = "application/json"

// SnapshotKey returns a fresh object key for an event's bracket snapshot.
// Keys never repeat, so published snapshots are immutable.
func SnapshotKey(eventID int) string {
	return fmt.Sprintf("snapshots/events/%d/%s.json", eventID, uuid.NewString())
}

// Snapshot is the document written for a published bracket.
type Snapshot struct {
	EventID     int         `json:"event_id"`
	PublishedAt time.Time   `json:"published_at"`
	Data        interface{} `json:"data"`
}

// SnapshotStore publishes JSON bracket snapshots through an uploader.
type SnapshotStore struct {
	uploader FileUploader
	now      func() time.Time
}

func NewSnapshotStore(uploader FileUploader) *SnapshotStore {
	return &SnapshotStore{uploader: uploader, now: time.Now}
}

// Publish encodes data and uploads it under a new key.
func (s *SnapshotStore) Publish(ctx context.Context, eventID int, data interface{}) (*UploadResult, error) {
	var buf bytes.Buffer
	doc := Snapshot{EventID: eventID, PublishedAt: s.now().UTC(), Data: data}
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot for event %d: %w", eventID, err)
	}
	return s.uploader.Upload(ctx, SnapshotKey(eventID), snapshotContentType, &buf)
}
