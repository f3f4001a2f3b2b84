package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/swiss-tournament/models"
)

const snapshotContentType = "application/json"

// SnapshotArchiver uploads tournament snapshots as JSON documents.
type SnapshotArchiver struct {
	uploader FileUploader
}

func NewSnapshotArchiver(uploader FileUploader) *SnapshotArchiver {
	return &SnapshotArchiver{uploader: uploader}
}

// SnapshotKey: tournaments/<id>/snapshots/<UTC timestamp>.json
func SnapshotKey(tournamentID int, takenAt time.Time) string {
	return fmt.Sprintf("tournaments/%d/snapshots/%s.json", tournamentID, takenAt.UTC().Format("20060102T150405.000000000Z"))
}

func (a *SnapshotArchiver) Archive(ctx context.Context, snapshot *models.TournamentSnapshot) (*UploadResult, error) {
	if snapshot == nil || snapshot.Tournament == nil {
		return nil, fmt.Errorf("cannot archive an empty snapshot")
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot of tournament %d: %w", snapshot.Tournament.ID, err)
	}
	key := SnapshotKey(snapshot.Tournament.ID, snapshot.TakenAt)
	result, err := a.uploader.Upload(ctx, key, snapshotContentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to archive snapshot of tournament %d: %w", snapshot.Tournament.ID, err)
	}
	return result, nil
}

// Discard removes a previously archived snapshot.
func (a *SnapshotArchiver) Discard(ctx context.Context, key string) error {
	if err := a.uploader.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to discard snapshot %s: %w", key, err)
	}
	return nil
}
