// Copyright Redwood Labs, 2026. All rights reserved.

package request

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/redwoodlabs/convertapi-cli/internal/api"
	"github.com/redwoodlabs/convertapi-cli/pkg/types"
)

// storeParam asks the API to keep result files server-side.
const storeParam = "StoreFile"

// urlParam is the reserved query key carrying the remote document in
// single-URL mode.
const urlParam = "Url"

// Classify inspects a conversion request and produces the transmission
// plan. Decision table, with mode auto unless overridden:
//
//   - exactly 1 file, no URLs, no file-valued extra params: raw upload
//   - exactly 1 URL, no files, no file-valued extra params: query request
//   - 2+ primary inputs: multipart with Files[i] part names
//   - any file-valued extra param: multipart regardless of input count
//
// An extra parameter is file-valued only when its name ends in "File"
// (case-insensitive) and every item of its value exists as a local path;
// otherwise it stays a plain string field (covering values that are remote
// URLs). Primary files that do not exist fail classification before any
// network I/O.
func Classify(req types.ConversionRequest) (*Plan, error) {
	for _, f := range req.Files {
		if _, err := os.Stat(f); err != nil {
			return nil, api.Validationf("input file %s does not exist", f)
		}
	}

	fileParams, scalarParams := splitParams(req.Params)
	primary := req.PrimaryInputs()

	mode := req.Mode
	if mode == "" {
		mode = types.InputModeAuto
	}

	switch mode {
	case types.InputModeSingle:
		if primary != 1 {
			return nil, api.Validationf("input mode %q requires exactly 1 primary input, got %d", types.InputModeSingle, primary)
		}
		if len(fileParams) > 0 {
			return nil, api.Validationf("input mode %q cannot carry file-valued parameter %q; it needs a multipart body", types.InputModeSingle, fileParams[0].name)
		}
		return singlePlan(req, scalarParams)

	case types.InputModeMultipart:
		return multipartPlan(req, fileParams, scalarParams), nil
	}

	if len(fileParams) > 0 || primary >= 2 {
		return multipartPlan(req, fileParams, scalarParams), nil
	}
	return singlePlan(req, scalarParams)
}

// singlePlan builds the raw-file or single-URL shape for exactly one
// primary input, or a query-only request when only extra parameters are
// supplied (merge-style endpoints).
func singlePlan(req types.ConversionRequest, scalars []scalarParam) (*Plan, error) {
	query, err := scalarQuery(req, scalars)
	if err != nil {
		return nil, err
	}

	if len(req.Files) == 1 {
		return &Plan{
			Mode:        ModeRawFile,
			RawPath:     req.Files[0],
			RawFilename: filepath.Base(req.Files[0]),
			Query:       query,
		}, nil
	}
	if len(req.URLs) == 1 {
		query.Set(urlParam, req.URLs[0])
	}
	return &Plan{Mode: ModeSingleURL, Query: query}, nil
}

// multipartPlan assembles the ordered part list: primary files, then URLs
// (sharing one monotonically increasing Files[i] counter), then file-valued
// extra parameters, then scalar fields. A lone primary input keeps the bare
// File/Url part name.
func multipartPlan(req types.ConversionRequest, fileParams []fileParam, scalars []scalarParam) *Plan {
	var parts []Part

	bare := req.PrimaryInputs() == 1
	idx := 0
	for _, f := range req.Files {
		name := fmt.Sprintf("Files[%d]", idx)
		if bare {
			name = "File"
		}
		parts = append(parts, Part{
			Name:     name,
			Kind:     FilePart,
			Path:     f,
			Filename: filepath.Base(f),
		})
		idx++
	}
	for _, u := range req.URLs {
		name := fmt.Sprintf("Files[%d]", idx)
		if bare {
			name = urlParam
		}
		parts = append(parts, Part{Name: name, Kind: FieldPart, Value: u})
		idx++
	}

	for _, fp := range fileParams {
		for i, path := range fp.paths {
			parts = append(parts, Part{
				Name:     itemName(fp.name, i),
				Kind:     FilePart,
				Path:     path,
				Filename: filepath.Base(path),
			})
		}
	}

	for _, sp := range scalars {
		for i, v := range sp.values {
			parts = append(parts, Part{Name: itemName(sp.name, i), Kind: FieldPart, Value: v})
		}
	}
	if req.StoreRemote {
		parts = append(parts, Part{Name: storeParam, Kind: FieldPart, Value: "true"})
	}

	return &Plan{Mode: ModeMultipart, Parts: parts, Query: url.Values{}}
}

// scalarQuery serializes scalar parameters into the query string for the
// non-multipart shapes. Boolean values serialize lowercase via cast. The
// reserved Url key may not be shadowed by an extra parameter.
func scalarQuery(req types.ConversionRequest, scalars []scalarParam) (url.Values, error) {
	query := url.Values{}
	for _, sp := range scalars {
		if len(req.URLs) == 1 && sp.name == urlParam {
			return nil, api.Validationf("extra parameter %q conflicts with the reserved single-URL query key", urlParam)
		}
		for i, v := range sp.values {
			query.Add(itemName(sp.name, i), v)
		}
	}
	if req.StoreRemote {
		query.Set(storeParam, "true")
	}
	return query, nil
}

type fileParam struct {
	name  string
	paths []string
}

type scalarParam struct {
	name   string
	values []string
}

// splitParams separates file-valued parameters from plain scalars. Both
// groups come back sorted by name so part order is deterministic.
func splitParams(params map[string]any) ([]fileParam, []scalarParam) {
	var files []fileParam
	var scalars []scalarParam

	for _, name := range sortedParamNames(params) {
		items := paramItems(params[name])
		if isFileValued(name, items) {
			fp := fileParam{name: name}
			for _, it := range items {
				fp.paths = append(fp.paths, cast.ToString(it))
			}
			files = append(files, fp)
			continue
		}
		sp := scalarParam{name: name}
		for _, it := range items {
			sp.values = append(sp.values, cast.ToString(it))
		}
		scalars = append(scalars, sp)
	}
	return files, scalars
}

// isFileValued reports whether a parameter names an auxiliary upload: the
// name ends in "File" (case-insensitive) and every item exists as a local
// path. A value that is a remote URL fails the existence check and stays a
// plain field.
func isFileValued(name string, items []any) bool {
	if !strings.HasSuffix(strings.ToLower(name), "file") {
		return false
	}
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		path := cast.ToString(it)
		if path == "" {
			return false
		}
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// paramItems normalizes a parameter value to an ordered item list.
func paramItems(v any) []any {
	switch vv := v.(type) {
	case []any:
		return vv
	case []string:
		items := make([]any, len(vv))
		for i, s := range vv {
			items[i] = s
		}
		return items
	default:
		return []any{v}
	}
}

// itemName disambiguates collection items as name, name[1], name[2], ...
// The first item stays unindexed for backward compatibility.
func itemName(name string, i int) string {
	if i == 0 {
		return name
	}
	return fmt.Sprintf("%s[%d]", name, i)
}

func sortedParamNames(params map[string]any) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
