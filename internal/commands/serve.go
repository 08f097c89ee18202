package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-repeater/components/oembed"
	"github.com/goliatone/go-repeater/pkg/orchestrator"
	"github.com/goliatone/go-repeater/pkg/render"
	"github.com/goliatone/go-repeater/pkg/schema"
)

func addServe(topLevel *cobra.Command, a *app) {
	o := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "serve <definitions>",
		Short: "Serve rendered collections together with the preview endpoint.",
		Example: `
repeater serve forms/page.yaml --addr 127.0.0.1:8080
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.source(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(a.context(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			handler, err := a.serveMux(ctx, src, o)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              a.cfg.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				a.logger.Info("serving", zap.String("addr", a.cfg.Addr))
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdown)
		},
	}
	cmd.Flags().String("addr", "127.0.0.1:8080", "Listen address.")
	cmd.Flags().String("action", "", "Form action; defaults to the submit echo endpoint.")
	cmd.Flags().String("preview-action", "oembed_handler", "Action name accepted by the preview endpoint.")
	addObjectArgs(cmd, a)
	addRenderArgs(cmd, o, a)
	topLevel.AddCommand(cmd)
}

// serveMux builds the routes: the rendered page at "/", the preview endpoint
// and a submit endpoint echoing the decoded submission as JSON. The page and
// the preview endpoint share one nonce per process.
func (a *app) serveMux(ctx context.Context, src schema.Source, o *renderOptions) (http.Handler, error) {
	values, err := readValues(o.Values)
	if err != nil {
		return nil, err
	}
	orch, err := a.orchestrator()
	if err != nil {
		return nil, err
	}
	// Fail fast on broken definitions.
	if _, err := orch.Build(ctx, orchestrator.Request{Source: src, Values: values}); err != nil {
		return nil, err
	}

	nonce := uuid.NewString()
	mux := http.NewServeMux()
	if _, err := oembed.New(
		oembed.WithAction(a.cfg.PreviewAction),
		oembed.WithStaticNonce(nonce),
		oembed.WithLogger(a.logger),
	).RegisterRoutes(mux, ""); err != nil {
		return nil, err
	}

	action := a.cfg.SubmitAction
	if action == "" {
		action = "/submit"
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		out, err := orch.Generate(r.Context(), orchestrator.Request{
			Source: src,
			Values: values,
			RenderOptions: render.RenderOptions{
				Collections: o.Collections,
				Action:      action,
				Hidden:      render.PreviewContext(nonce, a.cfg.ObjectID, a.cfg.ObjectType),
				Theme:       a.theme(),
			},
		})
		if err != nil {
			a.logger.Error("render page", zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(out)
	})
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		doc, err := orch.Build(r.Context(), orchestrator.Request{Source: src})
		if err != nil {
			http.Error(w, "build failed", http.StatusInternalServerError)
			return
		}
		if err := doc.Decode(r.PostForm); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, err := render.JSONRenderer{Indent: "  "}.Render(r.Context(), doc, render.RenderOptions{Collections: o.Collections})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(out)
	})
	return mux, nil
}
