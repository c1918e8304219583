package ui

import (
	"showcase/internal/render"
)

// SwitchTabMsg activates a tab (1..4).
type SwitchTabMsg struct {
	Tab render.Tab
}

// RerenderMsg runs a render pass with unchanged state, drawing a new
// sample (SPC r).
type RerenderMsg struct{}

// ExportMsg writes the sample table to a workbook (SPC e).
type ExportMsg struct{}

// ExportDoneMsg reports where the export went, or why it failed.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// FileLoadedMsg carries a file read from the picker. Parse failures are
// inside Upload.Result.
type FileLoadedMsg struct {
	Upload *render.Upload
}

// ShowClearUploadMsg triggers the clear-upload confirmation (SPC c).
type ShowClearUploadMsg struct{}

// ClearUploadMsg is sent when the user confirms clearing the upload.
type ClearUploadMsg struct{}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}
