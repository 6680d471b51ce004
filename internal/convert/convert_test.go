// Copyright Redwood Labs, 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redwoodlabs/convertapi-cli/internal/api"
	"github.com/redwoodlabs/convertapi-cli/internal/history"
	"github.com/redwoodlabs/convertapi-cli/internal/token"
	"github.com/redwoodlabs/convertapi-cli/pkg/types"
)

// fakeAPI is an in-process conversion service: POST /convert/... answers
// with result entries whose URLs point back at the same server.
type fakeAPI struct {
	ts        *httptest.Server
	convCalls int32
	lastPath  string
	lastAuth  string
	lastBody  []byte
	outputs   map[string]string
}

func newFakeAPI(t *testing.T, outputs map[string]string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{outputs: outputs}
	mux := http.NewServeMux()
	mux.HandleFunc("/convert/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.convCalls, 1)
		f.lastPath = r.URL.String()
		f.lastAuth = r.Header.Get("Authorization")
		f.lastBody, _ = io.ReadAll(r.Body)

		var files []types.ResultFile
		for name := range outputs {
			files = append(files, types.ResultFile{
				FileName: name,
				URL:      f.ts.URL + "/files/" + name,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.ConversionResult{Cost: 1, Files: files})
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.URL.Path)
		content, ok := outputs[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, content)
	})
	f.ts = httptest.NewServer(mux)
	t.Cleanup(f.ts.Close)
	return f
}

// newDispatcher builds a dispatcher with a process-local token, no history.
func newDispatcher(t *testing.T, baseURL string) *Dispatcher {
	t.Helper()
	t.Setenv(token.EnvVar, "")
	tokens := token.NewProvider(filepath.Join(t.TempDir(), "credentials.ini"))
	require.NoError(t, tokens.Set("test-token", false))
	return NewDispatcher(types.ClientConfig{BaseURL: baseURL}, tokens, nil, io.Discard)
}

func TestDispatch_SingleFileEndToEnd(t *testing.T) {
	f := newFakeAPI(t, map[string]string{"report.pdf": "pdf bytes"})
	d := newDispatcher(t, f.ts.URL)

	dir := t.TempDir()
	input := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(input, []byte("docx bytes"), 0o644))

	outDir := filepath.Join(dir, "out")
	saved, err := d.Dispatch(context.Background(), types.ConversionRequest{
		From:  "docx",
		To:    "pdf",
		Files: []string{input},
	}, Options{OutputDir: outDir})
	require.NoError(t, err)

	require.Equal(t, []string{filepath.Join(outDir, "report.pdf")}, saved)
	data, err := os.ReadFile(saved[0])
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))

	// Raw upload: the body is the file's bytes, not a multipart frame.
	assert.Equal(t, "docx bytes", string(f.lastBody))
	assert.Equal(t, "Bearer test-token", f.lastAuth)
	assert.Contains(t, f.lastPath, "/convert/docx/to/pdf")
}

func TestDispatch_MergeSendsMultipart(t *testing.T) {
	f := newFakeAPI(t, map[string]string{"merged.pdf": "merged"})
	d := newDispatcher(t, f.ts.URL)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	require.NoError(t, os.WriteFile(a, []byte("aa"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("bb"), 0o644))

	_, err := d.Dispatch(context.Background(), types.ConversionRequest{
		From:  "pdf",
		To:    "merge",
		Files: []string{a, b},
	}, Options{OutputDir: filepath.Join(dir, "out")})
	require.NoError(t, err)

	assert.True(t, bytes.Contains(f.lastBody, []byte(`name="Files[0]"`)))
	assert.True(t, bytes.Contains(f.lastBody, []byte(`name="Files[1]"`)))
}

func TestDispatch_DryRunSkipsNetwork(t *testing.T) {
	f := newFakeAPI(t, map[string]string{"out.pdf": "x"})

	t.Setenv(token.EnvVar, "")
	tokens := token.NewProvider(filepath.Join(t.TempDir(), "credentials.ini"))
	require.NoError(t, tokens.Set("test-token", false))

	var out bytes.Buffer
	d := NewDispatcher(types.ClientConfig{BaseURL: f.ts.URL}, tokens, nil, &out)

	dir := t.TempDir()
	input := filepath.Join(dir, "a.docx")
	require.NoError(t, os.WriteFile(input, []byte("a"), 0o644))

	saved, err := d.Dispatch(context.Background(), types.ConversionRequest{
		From:  "docx",
		To:    "pdf",
		Files: []string{input},
	}, Options{OutputDir: dir, DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, saved)
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.convCalls))
	assert.Contains(t, out.String(), "dry-run")
	assert.Contains(t, out.String(), "raw-file")
}

func TestDispatch_MissingCredential(t *testing.T) {
	t.Setenv(token.EnvVar, "")
	tokens := token.NewProvider(filepath.Join(t.TempDir(), "credentials.ini"))
	d := NewDispatcher(types.ClientConfig{}, tokens, nil, io.Discard)

	_, err := d.Dispatch(context.Background(), types.ConversionRequest{
		From: "web", To: "pdf", URLs: []string{"https://example.com"},
	}, Options{OutputDir: t.TempDir()})
	require.Error(t, err)

	var verr *api.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "credential")
}

func TestDispatch_NoInputs(t *testing.T) {
	f := newFakeAPI(t, nil)
	d := newDispatcher(t, f.ts.URL)

	_, err := d.Dispatch(context.Background(), types.ConversionRequest{
		From: "pdf", To: "merge",
	}, Options{OutputDir: t.TempDir()})
	require.Error(t, err)

	var verr *api.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.convCalls))
}

func TestDispatch_ExtraParamsAloneJustifyTheCall(t *testing.T) {
	f := newFakeAPI(t, map[string]string{"out.pdf": "x"})
	d := newDispatcher(t, f.ts.URL)

	_, err := d.Dispatch(context.Background(), types.ConversionRequest{
		From:   "pdf",
		To:     "pdf",
		Params: map[string]any{"StoredFileId": "abc123"},
	}, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.convCalls))
	assert.Contains(t, f.lastPath, "StoredFileId=abc123")
}

func TestDispatch_RemoteErrorPropagates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"Message":"Parameter validation error"}`))
	}))
	defer ts.Close()

	d := newDispatcher(t, ts.URL)
	_, err := d.Dispatch(context.Background(), types.ConversionRequest{
		From: "web", To: "pdf", URLs: []string{"https://example.com"},
	}, Options{OutputDir: t.TempDir()})
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestDispatch_RecordsHistory(t *testing.T) {
	f := newFakeAPI(t, map[string]string{"out.pdf": "x"})

	t.Setenv(token.EnvVar, "")
	tokens := token.NewProvider(filepath.Join(t.TempDir(), "credentials.ini"))
	require.NoError(t, tokens.Set("test-token", false))

	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	d := NewDispatcher(types.ClientConfig{BaseURL: f.ts.URL}, tokens, store, io.Discard)

	dir := t.TempDir()
	input := filepath.Join(dir, "a.docx")
	require.NoError(t, os.WriteFile(input, []byte("a"), 0o644))

	_, err = d.Dispatch(context.Background(), types.ConversionRequest{
		From:  "docx",
		To:    "pdf",
		Files: []string{input},
	}, Options{OutputDir: filepath.Join(dir, "out")})
	require.NoError(t, err)

	jobs, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "docx", jobs[0].From)
	assert.Equal(t, "pdf", jobs[0].To)
	assert.Equal(t, types.JobDone, jobs[0].Status)
	assert.Equal(t, []string{input}, jobs[0].Inputs)
	require.Len(t, jobs[0].Outputs, 1)
}
