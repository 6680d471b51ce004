// Copyright Redwood Labs, 2026. All rights reserved.

// Package request decides the transmission shape for a conversion call and
// assembles the matching HTTP request body.
package request

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Mode is the transmission shape selected for a call.
type Mode string

const (
	// ModeRawFile uploads a single file's bytes as the request body.
	ModeRawFile Mode = "raw-file"
	// ModeSingleURL sends everything in the query string with no body.
	ModeSingleURL Mode = "single-url"
	// ModeMultipart sends an ordered multipart body of named parts.
	ModeMultipart Mode = "multipart"
)

// PartKind distinguishes file parts from string field parts.
type PartKind int

const (
	// FieldPart carries a UTF-8 string value.
	FieldPart PartKind = iota
	// FilePart streams the contents of a local file.
	FilePart
)

// Part is one named element of a multipart body.
type Part struct {
	Name string
	Kind PartKind

	// Path and Filename are set for file parts.
	Path     string
	Filename string

	// Value is set for field parts.
	Value string
}

// Plan is the classifier's decision: which shape to use and, depending on
// the shape, the raw file, the query parameters, or the ordered part list.
// Both the assembler and the dry-run preview consume it.
type Plan struct {
	Mode Mode

	// RawPath and RawFilename are set for ModeRawFile.
	RawPath     string
	RawFilename string

	// Query carries the full parameter set for ModeSingleURL and the
	// scalar extras for ModeRawFile. Empty for ModeMultipart.
	Query url.Values

	// Parts is the ordered part list for ModeMultipart.
	Parts []Part
}

// Describe renders a human-readable preview of what would be sent, used by
// dry-run output.
func (p *Plan) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode: %s\n", p.Mode)
	switch p.Mode {
	case ModeRawFile:
		fmt.Fprintf(&b, "  body: raw contents of %s\n", p.RawPath)
	case ModeSingleURL:
		fmt.Fprintf(&b, "  body: none\n")
	case ModeMultipart:
		for _, part := range p.Parts {
			if part.Kind == FilePart {
				fmt.Fprintf(&b, "  part %s: file %s\n", part.Name, part.Path)
			} else {
				fmt.Fprintf(&b, "  part %s: %q\n", part.Name, part.Value)
			}
		}
	}
	for _, k := range sortedKeys(p.Query) {
		for _, v := range p.Query[k] {
			fmt.Fprintf(&b, "  query %s=%s\n", k, v)
		}
	}
	return b.String()
}

func sortedKeys(v url.Values) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
