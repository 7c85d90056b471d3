package models

import "time"

// ImageRef is what the image capability hands over: where the image lives and
// the MIME type it claims to have.
type ImageRef struct {
	URI      string
	MIMEType string
}

// UploadedAsset is a published CMS asset.
type UploadedAsset struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	FileName    string `json:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// PipelineStep names a stage of the asset upload pipeline.
type PipelineStep string

const (
	StepResolve PipelineStep = "resolve"
	StepUpload  PipelineStep = "upload"
	StepLink    PipelineStep = "link"
	StepProcess PipelineStep = "process"
	StepPublish PipelineStep = "publish"
)

type AssetStatus string

const (
	AssetStatusPending   AssetStatus = "pending"
	AssetStatusFailed    AssetStatus = "failed"
	AssetStatusPublished AssetStatus = "published"
)

// AssetRecord is one row of the local upload journal. Records that never
// reach AssetStatusPublished point at server-side leftovers.
type AssetRecord struct {
	ID          string
	FileName    string
	ContentType string
	UploadID    string
	AssetID     string
	Step        PipelineStep
	Status      AssetStatus
	Error       string
	UpdatedAt   time.Time
}
