package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-repeater/pkg/model"
	"github.com/goliatone/go-repeater/pkg/orchestrator"
	"github.com/goliatone/go-repeater/pkg/render"
)

// renderOptions holds flags shared by commands that produce output.
type renderOptions struct {
	Renderer    string
	Collections []string
	Values      string
	Output      string
}

func addRenderArgs(cmd *cobra.Command, o *renderOptions, a *app) {
	cmd.Flags().StringSliceVarP(&o.Collections, "collection", "c", nil,
		"Limit output to these collection ids.")
	cmd.Flags().StringVar(&o.Values, "values", "",
		"JSON file of initial values keyed by collection id.")
	cmd.Flags().StringVarP(&o.Output, "out", "o", "",
		"Write output to a file instead of stdout.")
	cmd.Flags().String("theme", "", "Theme name emitted on the wrapper element.")
	cmd.Flags().String("variant", "", "Theme variant.")
}

func addRender(topLevel *cobra.Command, a *app) {
	o := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <definitions>",
		Short: "Render collections from a definition file as HTML or JSON.",
		Example: `
repeater render forms/page.yaml
repeater render forms/openapi.yaml --renderer json -c sections
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
			out, err := orch.Generate(a.context(cmd), orchestrator.Request{
				Source:   src,
				Values:   values,
				Renderer: o.Renderer,
				RenderOptions: render.RenderOptions{
					Collections: o.Collections,
					Action:      a.cfg.SubmitAction,
					Hidden:      render.PreviewContext(uuid.NewString(), a.cfg.ObjectID, a.cfg.ObjectType),
					Theme:       a.theme(),
				},
			})
			if err != nil {
				return err
			}
			return a.write(o.Output, out)
		},
	}
	cmd.Flags().StringVarP(&o.Renderer, "renderer", "r", "html", "Renderer: html or json.")
	cmd.Flags().String("action", "", "Wrap output in a form posting to this URL.")
	addObjectArgs(cmd, a)
	addRenderArgs(cmd, o, a)
	topLevel.AddCommand(cmd)
}

func addObjectArgs(cmd *cobra.Command, a *app) {
	cmd.Flags().String("object-id", "", "Object id sent with preview requests.")
	cmd.Flags().String("object-type", "post", "Object type sent with preview requests.")
}

func readValues(path string) (map[string][]map[string]model.Value, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values map[string][]map[string]model.Value
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode values %s: %w", path, err)
	}
	return values, nil
}

func (a *app) write(path string, out []byte) error {
	if path == "" {
		_, err := a.out.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.logger.Info("output written")
	return nil
}
