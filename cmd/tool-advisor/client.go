package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joestump/tool-advisor/internal/advisor"
	"github.com/joestump/tool-advisor/internal/i18n"
	"github.com/joestump/tool-advisor/internal/termview"
	"github.com/joestump/tool-advisor/internal/theme"
	"github.com/joestump/tool-advisor/internal/view"
)

func newOptionsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the workpiece and tool materials the server offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if err := cfg.RequireUpstream(); err != nil {
				return err
			}

			opts, err := advisor.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout).Options(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, opts)
			}
			cat := i18n.Lookup(cfg.Locale)
			fmt.Fprintf(out, "%s: %s\n", cat.WorkpieceField, strings.Join(opts.Workpieces, ", "))
			fmt.Fprintf(out, "%s: %s\n", cat.ToolField, strings.Join(opts.ToolMaterials, ", "))
			fmt.Fprintf(out, "%s: %s\n", cat.OperationField, strings.Join(advisor.Operations, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the option lists as JSON")
	return cmd
}

func newRecommendCmd() *cobra.Command {
	var (
		workpiece string
		tool      string
		operation string
		asJSON    bool
		dark      bool
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Ask the server for a tool recommendation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if err := cfg.RequireUpstream(); err != nil {
				return err
			}

			client := advisor.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout)
			resp, err := client.Recommend(cmd.Context(), advisor.NewRequest(workpiece, tool, operation))
			if err != nil {
				return err
			}

			cat := i18n.Lookup(cfg.Locale)
			builder := view.NewBuilder(cat, logger)
			var page *view.Page
			if resp.OK() {
				page = builder.Build(resp.Result)
			} else {
				page = builder.BuildError(resp.Raw)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, page); err != nil {
					return err
				}
			} else {
				t := theme.Light
				if dark {
					t = theme.Dark
				}
				fmt.Fprint(out, termview.New(cat, t).Render(page))
			}
			if !resp.OK() {
				return fmt.Errorf("server answered %d", resp.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&workpiece, "workpiece", "", "workpiece material (required)")
	cmd.Flags().StringVar(&tool, "tool", "", "tool material; empty lets the server choose")
	cmd.Flags().StringVar(&operation, "operation", "", "roughing or finishing; empty means unspecified")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view-model as JSON")
	cmd.Flags().BoolVar(&dark, "dark", false, "use the dark terminal palette")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
