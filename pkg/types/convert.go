// Copyright Redwood Labs, 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// InputMode overrides the automatic transmission-shape decision.
type InputMode string

const (
	// InputModeAuto lets the classifier pick the request shape.
	InputModeAuto InputMode = "auto"
	// InputModeSingle requires exactly one primary input sent as a
	// single-file or single-URL request.
	InputModeSingle InputMode = "single"
	// InputModeMultipart forces a multipart body even for one input.
	InputModeMultipart InputMode = "multipart"
)

// ParseInputMode validates a user-supplied mode string. An empty string
// maps to InputModeAuto.
func ParseInputMode(s string) (InputMode, error) {
	switch InputMode(s) {
	case "", InputModeAuto:
		return InputModeAuto, nil
	case InputModeSingle:
		return InputModeSingle, nil
	case InputModeMultipart:
		return InputModeMultipart, nil
	}
	return "", fmt.Errorf("unknown input mode %q (want auto, single, or multipart)", s)
}

// ConversionRequest describes one conversion call. Files and URLs are the
// primary inputs; Params carries extra named parameters whose values may be
// strings, booleans, numbers, local file paths, or ordered collections.
type ConversionRequest struct {
	// From and To are the source and target format tags (e.g. "pdf", "docx").
	From string
	To   string

	// Files lists local input paths, in caller order.
	Files []string

	// URLs lists remote input documents, in caller order.
	URLs []string

	// Params maps extra parameter names to values.
	Params map[string]any

	// StoreRemote asks the API to keep the result files server-side.
	StoreRemote bool

	// Mode overrides the automatic shape decision.
	Mode InputMode
}

// PrimaryInputs returns the number of files plus URLs.
func (r ConversionRequest) PrimaryInputs() int {
	return len(r.Files) + len(r.URLs)
}

// ResultFile is one output entry returned by the conversion API.
type ResultFile struct {
	FileName string `json:"FileName"`
	FileExt  string `json:"FileExt,omitempty"`
	FileSize int64  `json:"FileSize,omitempty"`
	URL      string `json:"Url"`
}

// ConversionResult is the API's JSON response body. File order mirrors
// request input order; the API is the source of truth and the client never
// re-sorts.
type ConversionResult struct {
	Cost  int          `json:"ConversionCost,omitempty"`
	Files []ResultFile `json:"Files"`
}

// JobStatus indicates the outcome of a dispatched conversion.
type JobStatus string

const (
	JobDone   JobStatus = "done"
	JobFailed JobStatus = "failed"
)

// Job is one conversion-history record.
type Job struct {
	// ID is a generated identifier for the dispatch.
	ID string `json:"id" yaml:"id"`

	// From and To are the format tags of the call.
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`

	// Mode is the transmission shape that was selected.
	Mode string `json:"mode" yaml:"mode"`

	// Inputs lists the primary inputs (files then URLs) in request order.
	Inputs []string `json:"inputs" yaml:"inputs"`

	// Outputs lists the local paths saved from the response.
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`

	// Status records whether the dispatch succeeded.
	Status JobStatus `json:"status" yaml:"status"`

	// Error holds the failure message for failed jobs.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// CreatedAt is the dispatch time in UTC.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
