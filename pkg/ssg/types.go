package ssg

import (
	"slices"

	"github.com/bianoble/ssg/internal/config"
	"github.com/bianoble/ssg/internal/engine"
)

// Type aliases re-export engine result types as the public API.

type FileSpec = engine.FileSpec
type Result = engine.Result
type TargetSuccess = engine.TargetSuccess
type TargetError = engine.TargetError
type IOError = engine.IOError
type FinalError = engine.FinalError
type FileAction = engine.FileAction
type PruneResult = engine.PruneResult

// Sentinels matched by a *FinalError.
var (
	ErrDuplicateTarget = engine.ErrDuplicateTarget
	ErrMissingTarget   = engine.ErrMissingTarget
	ErrFailedTarget    = engine.ErrFailedTarget
)

// ErrNoProject is returned by New when Options.ConfigPath is empty and no
// ssg.yaml is found above Options.Start.
var ErrNoProject = config.ErrNoProject

func sortTargets(infos []TargetInfo) {
	slices.SortStableFunc(infos, func(a, b TargetInfo) int { return a.Target.Compare(b.Target) })
}
