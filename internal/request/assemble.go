// Copyright Redwood Labs, 2026. All rights reserved.

package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/redwoodlabs/convertapi-cli/internal/api"
)

// Assemble builds the outgoing HTTP request for a plan. The endpoint must
// already carry the plan's query string (see api.BuildURL). Authorization
// and Accept headers are applied by the client, never here.
//
// File contents are read during assembly and every opened handle is closed
// before Assemble returns, on success and on every error path.
func Assemble(ctx context.Context, plan *Plan, endpoint string) (*http.Request, error) {
	switch plan.Mode {
	case ModeRawFile:
		return assembleRaw(ctx, plan, endpoint)
	case ModeSingleURL:
		return http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	case ModeMultipart:
		return assembleMultipart(ctx, plan, endpoint)
	}
	return nil, fmt.Errorf("unknown transmission mode %q", plan.Mode)
}

// assembleRaw uploads the file's bytes directly, naming the original file
// in a Content-Disposition header. No multipart framing.
func assembleRaw(ctx context.Context, plan *Plan, endpoint string) (*http.Request, error) {
	data, err := os.ReadFile(plan.RawPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, api.Validationf("input file %s does not exist", plan.RawPath)
		}
		return nil, fmt.Errorf("reading %s: %w", plan.RawPath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", plan.RawFilename))
	return req, nil
}

// assembleMultipart writes the ordered parts into a multipart body. File
// parts stream from disk; field parts carry UTF-8 strings.
func assembleMultipart(ctx context.Context, plan *Plan, endpoint string) (*http.Request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, part := range plan.Parts {
		var err error
		switch part.Kind {
		case FilePart:
			err = writeFilePart(mw, part)
		case FieldPart:
			err = mw.WriteField(part.Name, part.Value)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

// writeFilePart copies one file into the multipart writer. The handle is
// closed before returning regardless of the copy outcome.
func writeFilePart(mw *multipart.Writer, part Part) error {
	f, err := os.Open(part.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return api.Validationf("input file %s does not exist", part.Path)
		}
		return fmt.Errorf("opening %s: %w", part.Path, err)
	}
	defer f.Close()

	w, err := mw.CreateFormFile(part.Name, part.Filename)
	if err != nil {
		return fmt.Errorf("creating part %s: %w", part.Name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("writing part %s from %s: %w", part.Name, part.Path, err)
	}
	return nil
}
