package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-repeater/components/oembed"
	"github.com/goliatone/go-repeater/pkg/preview"
)

func addPreview(topLevel *cobra.Command, a *app) {
	var fieldID string
	cmd := &cobra.Command{
		Use:   "preview <url>",
		Short: "Fetch the embed preview markup for a URL.",
		Example: `
repeater preview https://www.youtube.com/watch?v=dQw4w9WgXcQ
repeater preview https://vimeo.com/76979871 --preview-url http://127.0.0.1:8080/api/oembed
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.TrimSpace(args[0])
			if len(value) < preview.EmbedMinLength {
				return fmt.Errorf("preview: value %q is too short", value)
			}
			ctx, cancel := context.WithTimeout(a.context(cmd), a.cfg.Timeout)
			defer cancel()

			markup, err := a.fetchPreview(ctx, preview.Request{
				Value:      value,
				Width:      a.cfg.PreviewWidth,
				FieldID:    fieldID,
				ObjectID:   a.cfg.ObjectID,
				ObjectType: a.cfg.ObjectType,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, markup)
			return err
		},
	}
	cmd.Flags().StringVar(&fieldID, "field", "preview_0", "Field id sent with the request.")
	addPreviewArgs(cmd, a)
	addObjectArgs(cmd, a)
	topLevel.AddCommand(cmd)
}

// fetchPreview asks the configured endpoint when one is set and resolves the
// embed locally through the built-in providers otherwise.
func (a *app) fetchPreview(ctx context.Context, req preview.Request) (string, error) {
	if req.Width < preview.DefaultMinWidth {
		req.Width = preview.DefaultMinWidth
	}
	if a.cfg.PreviewURL != "" {
		transport := preview.NewHTTPTransport(a.cfg.PreviewURL,
			preview.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
			preview.WithAction(a.cfg.PreviewAction),
		)
		a.logger.Debug("remote preview", zap.String("endpoint", a.cfg.PreviewURL), zap.String("value", req.Value))
		return transport.Fetch(ctx, req)
	}
	client := oembed.NewClient(oembed.DefaultProviders(),
		oembed.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
	)
	markup, err := client.Embed(ctx, req.Value, req.Width)
	if err != nil {
		return "", err
	}
	return oembed.Sanitize(markup), nil
}
