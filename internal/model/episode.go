// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/ids"
)

// EpisodeStatus transitions strictly forward except GENERATING -> FAILED.
type EpisodeStatus string

const (
	EpisodeQueued     EpisodeStatus = "QUEUED"
	EpisodeGenerating EpisodeStatus = "GENERATING"
	EpisodeCompleted  EpisodeStatus = "COMPLETED"
	EpisodeFailed     EpisodeStatus = "FAILED"
)

// Episode is the output of one Episode Orchestrator run for a group.
type Episode struct {
	ID                 ids.ID
	GroupID            ids.ID
	CollectionSnapshotID ids.ID
	Status             EpisodeStatus
	Script             string
	Title              string
	Description        string
	Tags               []string
	DurationSeconds    int
	FailureReason      string
	Degraded           bool // true if the edit step failed and was skipped
	CreatedAt          time.Time
}

// AudioFormat is the encoding of a generated AudioFile.
type AudioFormat string

const (
	AudioMP3 AudioFormat = "mp3"
	AudioWAV AudioFormat = "wav"
)

// AudioFile is 1:1 with a COMPLETED episode.
type AudioFile struct {
	ID              ids.ID
	EpisodeID       ids.ID
	URL             string
	DurationSeconds int
	ByteSize        int64
	Format          AudioFormat
}
