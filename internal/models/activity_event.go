package models

import "time"

// StartActivityEvent is published before a tool activity runs
type StartActivityEvent struct {
	ToolName     string
	ActivityName string
	Input        map[string]any
	StartedAt    time.Time
}

// FinishActivityEvent is published after a tool activity returns an artifact.
// Output is nil when the activity failed with an error.
type FinishActivityEvent struct {
	ToolName     string
	ActivityName string
	Input        map[string]any
	Output       Artifact
	Err          error
	Duration     time.Duration
}

// ArtifactsStoredEvent is published after a memory stores artifacts under a namespace
type ArtifactsStoredEvent struct {
	MemoryName string
	Namespace  string
	Count      int
}
