package domain

import (
	"context"
	"time"
)

// Stage names the pipeline steps reported through LifecycleHooks.
type Stage string

const (
	StageClean       Stage = "clean"
	StagePortMetrics Stage = "port_metrics"
	StageSequence    Stage = "sequence"
	StageEdges       Stage = "edges"
	StageStrength    Stage = "strength"
)

// StageEvent reports the start or end of a pipeline stage.
type StageEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Stage     Stage         `json:"stage"`
	Input     int           `json:"input"`
	Output    int           `json:"output,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// DropEvent reports a raw record discarded by the cleaner.
type DropEvent struct {
	Index   int    `json:"index"`
	EventID string `json:"event_id,omitempty"`
	Reason  string `json:"reason"`
}

// LifecycleHooks defines callbacks for pipeline observability.
type LifecycleHooks struct {
	OnStageStart    func(context.Context, *StageEvent)
	OnStageEnd      func(context.Context, *StageEvent)
	OnRecordDropped func(context.Context, *DropEvent)
}
