// Copyright Redwood Labs, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redwoodlabs/convertapi-cli/internal/convert"
	"github.com/redwoodlabs/convertapi-cli/internal/history"
	"github.com/redwoodlabs/convertapi-cli/internal/token"
	"github.com/redwoodlabs/convertapi-cli/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <from> <to> [inputs...]",
	Short: "Convert files or URLs through the remote conversion service",
	Long: `Convert uploads the given inputs to the {from}/to/{to} endpoint and
downloads the result files. Inputs starting with http:// or https:// are
treated as remote URLs, everything else as local file paths.

Extra API parameters are passed with --param Name=Value; repeating the same
name builds an ordered collection. A parameter whose name ends in "File" and
whose value is an existing local path is uploaded as an additional file part.`,
	Example: `  convertapi-cli convert docx pdf report.docx
  convertapi-cli convert pdf merge a.pdf b.pdf --out merged/
  convertapi-cli convert web pdf https://example.com --param FileName=homepage
  convertapi-cli convert pdf watermark in.pdf --param OverlayFile=logo.pdf`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("out", "", "output directory for result files (default: output_dir config, else .)")
	convertCmd.Flags().String("token", "", "API credential override for this call")
	convertCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	convertCmd.Flags().Bool("overwrite", false, "overwrite existing files instead of renaming")
	convertCmd.Flags().Bool("store", false, "ask the API to keep result files server-side")
	convertCmd.Flags().StringArray("param", nil, "extra API parameter as Name=Value (repeatable)")
	convertCmd.Flags().String("input-mode", "auto", "transmission shape: auto, single, or multipart")
	convertCmd.Flags().Bool("dry-run", false, "validate and preview the request without calling the API")
	convertCmd.Flags().Bool("no-history", false, "do not record this conversion in the local history")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	from, to := args[0], args[1]

	var files, urls []string
	for _, in := range args[2:] {
		if isRemote(in) {
			urls = append(urls, in)
		} else {
			files = append(files, in)
		}
	}

	rawParams, _ := cmd.Flags().GetStringArray("param")
	params, err := parseParams(rawParams)
	if err != nil {
		return err
	}

	modeStr, _ := cmd.Flags().GetString("input-mode")
	mode, err := types.ParseInputMode(modeStr)
	if err != nil {
		return err
	}

	store, _ := cmd.Flags().GetBool("store")
	req := types.ConversionRequest{
		From:        from,
		To:          to,
		Files:       files,
		URLs:        urls,
		Params:      params,
		StoreRemote: store,
		Mode:        mode,
	}

	cfg := types.ClientConfig{
		BaseURL:   viper.GetString("base_url"),
		Timeout:   viper.GetDuration("timeout"),
		UserAgent: viper.GetString("user_agent"),
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}

	tokens := token.NewProvider("")
	if override, _ := cmd.Flags().GetString("token"); override != "" {
		if err := tokens.Set(override, false); err != nil {
			return err
		}
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	var hist *history.Store
	if !noHistory && !dryRun {
		hist, err = openHistory()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
		} else {
			defer hist.Close()
		}
	}

	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = viper.GetString("output_dir")
	}
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	d := convert.NewDispatcher(cfg, tokens, hist, os.Stdout)
	saved, err := d.Dispatch(cmd.Context(), req, convert.Options{
		OutputDir: outDir,
		Overwrite: overwrite,
		DryRun:    dryRun,
	})
	if err != nil {
		return err
	}
	if !dryRun {
		fmt.Printf("%d file(s) saved\n", len(saved))
	}
	return nil
}

// isRemote reports whether an input argument is a URL rather than a path.
func isRemote(in string) bool {
	return strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://")
}

// parseParams turns repeated Name=Value flags into the parameter map.
// Repeating a name builds an ordered collection.
func parseParams(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make(map[string]any)
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q (want Name=Value)", kv)
		}
		switch existing := params[name].(type) {
		case nil:
			params[name] = value
		case []string:
			params[name] = append(existing, value)
		case string:
			params[name] = []string{existing, value}
		}
	}
	return params, nil
}
