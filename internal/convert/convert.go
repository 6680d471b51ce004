// Copyright Redwood Labs, 2026. All rights reserved.

// Package convert wires credential resolution, classification, request
// assembly, the network call, and result materialization into one
// dispatch.
package convert

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/redwoodlabs/convertapi-cli/internal/api"
	"github.com/redwoodlabs/convertapi-cli/internal/download"
	"github.com/redwoodlabs/convertapi-cli/internal/history"
	"github.com/redwoodlabs/convertapi-cli/internal/request"
	"github.com/redwoodlabs/convertapi-cli/internal/token"
	"github.com/redwoodlabs/convertapi-cli/pkg/types"
)

// Options control one dispatch.
type Options struct {
	// OutputDir receives the downloaded result files. Created if absent.
	OutputDir string

	// Overwrite replaces existing files instead of picking alternate names.
	Overwrite bool

	// DryRun executes everything up to and excluding the network call,
	// printing a description of what would have been sent.
	DryRun bool
}

// Dispatcher executes conversion requests. The credential provider is
// consulted at dispatch time, so a token set or persisted mid-process is
// picked up by the next call.
type Dispatcher struct {
	cfg     types.ClientConfig
	tokens  *token.Provider
	history *history.Store
	out     io.Writer
}

// NewDispatcher builds a dispatcher. hist may be nil to disable history
// recording; out receives per-file progress lines.
func NewDispatcher(cfg types.ClientConfig, tokens *token.Provider, hist *history.Store, out io.Writer) *Dispatcher {
	if out == nil {
		out = io.Discard
	}
	return &Dispatcher{cfg: cfg, tokens: tokens, history: hist, out: out}
}

// Dispatch runs one conversion end to end and returns the saved file
// paths. Preconditions (credential present, at least one input unless
// extra parameters alone justify the call) and all classification checks
// fail before any network I/O.
func (d *Dispatcher) Dispatch(ctx context.Context, req types.ConversionRequest, opts Options) ([]string, error) {
	tok, ok := d.tokens.Resolve()
	if !ok {
		return nil, api.Validationf("no API credential: run \"token set\" or export %s", token.EnvVar)
	}
	if req.PrimaryInputs() == 0 && len(req.Params) == 0 {
		return nil, api.Validationf("no inputs: provide at least one file or URL")
	}

	plan, err := request.Classify(req)
	if err != nil {
		return nil, err
	}
	endpoint, err := api.BuildURL(d.cfg.BaseURL, req.From, req.To, plan.Query)
	if err != nil {
		return nil, err
	}
	httpReq, err := request.Assemble(ctx, plan, endpoint)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		fmt.Fprintf(d.out, "dry-run: would POST %s\n%s", endpoint, plan.Describe())
		return nil, nil
	}

	cfg := d.cfg
	cfg.Token = tok
	client := api.NewClient(cfg)

	result, err := client.Convert(httpReq)
	if err != nil {
		d.record(ctx, req, plan, nil, err)
		return nil, err
	}

	saved, err := download.Materialize(ctx, client, result, opts.OutputDir, opts.Overwrite, d.out)
	d.record(ctx, req, plan, saved, err)
	return saved, err
}

// record logs the dispatch outcome to the history store. Recording
// failures are reported as warnings and never mask the dispatch result.
func (d *Dispatcher) record(ctx context.Context, req types.ConversionRequest, plan *request.Plan, saved []string, err error) {
	if d.history == nil {
		return
	}

	job := types.Job{
		ID:        uuid.NewString(),
		From:      req.From,
		To:        req.To,
		Mode:      string(plan.Mode),
		Inputs:    append(append([]string{}, req.Files...), req.URLs...),
		Outputs:   saved,
		Status:    types.JobDone,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		job.Status = types.JobFailed
		job.Error = err.Error()
	}

	if rerr := d.history.Record(ctx, job); rerr != nil {
		fmt.Fprintf(d.out, "warning: could not record history: %v\n", rerr)
	}
}
