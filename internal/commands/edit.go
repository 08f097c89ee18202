package commands

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-repeater/pkg/orchestrator"
	"github.com/goliatone/go-repeater/pkg/preview"
	"github.com/goliatone/go-repeater/pkg/render"
	"github.com/goliatone/go-repeater/pkg/tui"
)

func addEdit(topLevel *cobra.Command, a *app) {
	o := &renderOptions{}
	var format string
	cmd := &cobra.Command{
		Use:   "edit <definitions>",
		Short: "Edit collections interactively and print the result.",
		Example: `
repeater edit forms/page.yaml --format form
repeater edit forms/page.yaml --preview-url http://127.0.0.1:8080/api/oembed
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.source(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(o.Values)
			if err != nil {
				return err
			}
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			ctx := a.context(cmd)
			doc, err := orch.Build(ctx, orchestrator.Request{Source: src, Values: values})
			if err != nil {
				return err
			}

			opts := []tui.Option{
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithLogger(a.logger),
				tui.WithTheme(tui.Theme{InfoPrefix: "» ", ErrorPrefix: "! "}),
			}
			if a.cfg.PreviewURL != "" {
				transport := preview.NewHTTPTransport(a.cfg.PreviewURL,
					preview.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
					preview.WithAction(a.cfg.PreviewAction),
				)
				opts = append(opts, tui.WithPreview(transport, a.cfg.PreviewWidth))
			}
			out, err := tui.New(opts...).Render(ctx, doc, render.RenderOptions{Collections: o.Collections})
			if err != nil {
				return err
			}
			return a.write(o.Output, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "Output format: json, form or pretty.")
	addPreviewArgs(cmd, a)
	addRenderArgs(cmd, o, a)
	topLevel.AddCommand(cmd)
}

func addPreviewArgs(cmd *cobra.Command, a *app) {
	cmd.Flags().String("preview-url", "", "Preview endpoint used for preview-enabled fields.")
	cmd.Flags().String("preview-action", "oembed_handler", "Action name sent to the preview endpoint.")
	cmd.Flags().Int("width", 640, "Requested embed width.")
}
