package services

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
)

// AssetPipelineError reports the pipeline step that failed. Steps completed
// before it are not rolled back.
type AssetPipelineError struct {
	Step models.PipelineStep
	Err  error
}

func (e *AssetPipelineError) Error() string {
	return fmt.Sprintf("asset pipeline: %s: %v", e.Step, e.Err)
}

func (e *AssetPipelineError) Unwrap() error { return e.Err }

// ProcessingTimeoutError means the CMS did not finish processing an asset in
// time.
type ProcessingTimeoutError struct {
	AssetID string
	Waited  time.Duration
}

func (e *ProcessingTimeoutError) Error() string {
	return fmt.Sprintf("asset %s not processed after %s", e.AssetID, e.Waited.Round(time.Millisecond))
}

type EntryCreationError struct {
	Err error
}

func (e *EntryCreationError) Error() string { return "create entry: " + e.Err.Error() }

func (e *EntryCreationError) Unwrap() error { return e.Err }

type EntryPublishError struct {
	EntryID string
	Err     error
}

func (e *EntryPublishError) Error() string {
	return fmt.Sprintf("publish entry %s: %v", e.EntryID, e.Err)
}

func (e *EntryPublishError) Unwrap() error { return e.Err }
