// Copyright Redwood Labs, 2026. All rights reserved.

package request

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwoodlabs/convertapi-cli/internal/api"
	"github.com/redwoodlabs/convertapi-cli/pkg/types"
)

// parsedPart holds one decoded multipart section for assertions.
type parsedPart struct {
	name     string
	filename string
	content  string
}

// parseMultipart decodes an assembled request body back into ordered parts.
func parseMultipart(t *testing.T, contentType string, body io.Reader) []parsedPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	mr := multipart.NewReader(body, params["boundary"])
	var parts []parsedPart
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, parsedPart{
			name:     p.FormName(),
			filename: p.FileName(),
			content:  string(data),
		})
	}
	return parts
}

func TestAssemble_RawFileCarriesBytesAndDisposition(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "report.docx", "document bytes")

	plan, err := Classify(types.ConversionRequest{
		From:  "docx",
		To:    "pdf",
		Files: []string{file},
	})
	require.NoError(t, err)

	req, err := Assemble(context.Background(), plan, "https://api.example/convert/docx/to/pdf")
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "application/octet-stream", req.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report.docx"`, req.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "document bytes", string(body))
}

func TestAssemble_SingleURLHasNoBody(t *testing.T) {
	plan, err := Classify(types.ConversionRequest{
		From: "web",
		To:   "pdf",
		URLs: []string{"https://example.com"},
	})
	require.NoError(t, err)

	req, err := Assemble(context.Background(), plan, "https://api.example/convert/web/to/pdf?Url=https%3A%2F%2Fexample.com")
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Nil(t, req.Body)
}

func TestAssemble_MergeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "first")
	b := writeFile(t, dir, "b.pdf", "second")

	plan, err := Classify(types.ConversionRequest{
		From:        "pdf",
		To:          "merge",
		Files:       []string{a, b},
		StoreRemote: true,
	})
	require.NoError(t, err)

	req, err := Assemble(context.Background(), plan, "https://api.example/convert/pdf/to/merge")
	require.NoError(t, err)

	parts := parseMultipart(t, req.Header.Get("Content-Type"), req.Body)
	require.Len(t, parts, 3)

	assert.Equal(t, "Files[0]", parts[0].name)
	assert.Equal(t, "a.pdf", parts[0].filename)
	assert.Equal(t, "first", parts[0].content)

	assert.Equal(t, "Files[1]", parts[1].name)
	assert.Equal(t, "b.pdf", parts[1].filename)
	assert.Equal(t, "second", parts[1].content)

	assert.Equal(t, "StoreFile", parts[2].name)
	assert.Equal(t, "true", parts[2].content)
}

func TestAssemble_URLInputsBecomeStringFields(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "first")

	plan, err := Classify(types.ConversionRequest{
		From:  "pdf",
		To:    "merge",
		Files: []string{a},
		URLs:  []string{"https://example.com/b.pdf"},
	})
	require.NoError(t, err)

	req, err := Assemble(context.Background(), plan, "https://api.example/convert/pdf/to/merge")
	require.NoError(t, err)

	parts := parseMultipart(t, req.Header.Get("Content-Type"), req.Body)
	require.Len(t, parts, 2)

	assert.Equal(t, "Files[0]", parts[0].name)
	assert.NotEmpty(t, parts[0].filename)

	assert.Equal(t, "Files[1]", parts[1].name)
	assert.Empty(t, parts[1].filename)
	assert.Equal(t, "https://example.com/b.pdf", parts[1].content)
}

func TestAssemble_MissingPartFileIsValidationError(t *testing.T) {
	plan := &Plan{
		Mode: ModeMultipart,
		Parts: []Part{
			{Name: "Files[0]", Kind: FilePart, Path: filepath.Join(t.TempDir(), "gone.pdf"), Filename: "gone.pdf"},
		},
	}

	_, err := Assemble(context.Background(), plan, "https://api.example/convert/pdf/to/docx")
	require.Error(t, err)

	var verr *api.ValidationError
	assert.ErrorAs(t, err, &verr)
}
