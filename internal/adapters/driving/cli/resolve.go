package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/metaresolve/internal/core/domain"
	"github.com/custodia-labs/metaresolve/internal/logger"
)

// watchDebounce groups bursts of file events into one re-resolution.
const watchDebounce = 200 * time.Millisecond

var resolveCmd = &cobra.Command{
	Use:   "resolve [files...]",
	Short: "Resolve type names in model files",
	Long: `Resolve every model document found in the given files and directories.

A file may hold a Models document or a single Model. Directories are
scanned for *.json files. The resolved Models document is written to
stdout, or one file per namespace with --out. Documents keep the order of
the files given, followed by any fetched with --fetch-external.

Only the given files and what they fetch are resolved together. With
--store they are added to the workspace database and the run is recorded;
documents stored by earlier runs are not peers.

Examples:
  # Resolve all documents
  metaresolve resolve models/

  # Resolve one namespace against the others
  metaresolve resolve models/ --target org.acme.car

  # Download external imports first and record the run
  metaresolve resolve models/ --fetch-external --store

  # Re-resolve whenever a file changes
  metaresolve resolve models/ --out resolved/ --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringP("target", "t", "", "resolve only this namespace against the others")
	resolveCmd.Flags().StringP("out", "o", "", "write one <namespace>.json file per document to this directory")
	resolveCmd.Flags().BoolP("watch", "w", false, "re-resolve when model files change")
	resolveCmd.Flags().Bool("fetch-external", false, "download imports that carry a uri before resolving")
	resolveCmd.Flags().Bool("store", false, "store the models and record the run in the workspace database")
	rootCmd.AddCommand(resolveCmd)
}

// resolveOptions are the parsed flags of the resolve command.
type resolveOptions struct {
	paths         []string
	target        string
	out           string
	watch         bool
	fetchExternal bool
	store         bool
}

func runResolve(cmd *cobra.Command, args []string) error {
	opts := resolveOptions{paths: args}
	opts.target, _ = cmd.Flags().GetString("target")
	opts.out, _ = cmd.Flags().GetString("out")
	opts.watch, _ = cmd.Flags().GetBool("watch")
	opts.fetchExternal, _ = cmd.Flags().GetBool("fetch-external")
	opts.store, _ = cmd.Flags().GetBool("store")

	svc, err := getServices()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if !opts.watch {
		return resolveOnce(ctx, cmd, svc, opts)
	}
	if err := resolveOnce(ctx, cmd, svc, opts); err != nil {
		cmd.PrintErrln(style(cmd.ErrOrStderr(), failureStyle, "Error: "+err.Error()))
	}
	return watchAndResolve(ctx, cmd, svc, opts)
}

// resolveOnce resolves the documents under opts.paths and writes the result.
func resolveOnce(ctx context.Context, cmd *cobra.Command, svc *Services, opts resolveOptions) error {
	var resolved *domain.Models
	var err error
	if opts.store || opts.fetchExternal {
		resolved, err = resolveInWorkspace(ctx, cmd, svc, opts)
	} else {
		resolved, err = resolveFiles(ctx, svc, opts)
	}
	if err != nil {
		return err
	}

	if opts.out == "" {
		return writeModels(cmd.OutOrStdout(), resolved)
	}
	if err := writeModelFiles(opts.out, resolved); err != nil {
		return err
	}
	cmd.Printf("%s %d documents to %s\n",
		style(cmd.OutOrStdout(), successStyle, "Wrote"), len(resolved.Models), opts.out)
	return nil
}

// resolveFiles resolves documents straight from the files, keeping their
// order.
func resolveFiles(ctx context.Context, svc *Services, opts resolveOptions) (*domain.Models, error) {
	var docs []*domain.Document
	for _, path := range opts.paths {
		loaded, err := svc.Source.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		docs = append(docs, loaded...)
	}
	models := domain.NewModels(docs...)

	if opts.target == "" {
		return svc.Resolver.ResolveLocalNamesForAll(ctx, models)
	}
	for _, doc := range docs {
		if doc.Namespace == opts.target {
			resolved, err := svc.Resolver.ResolveLocalNames(ctx, docs, doc)
			if err != nil {
				return nil, err
			}
			return domain.NewModels(resolved), nil
		}
	}
	return nil, fmt.Errorf("namespace %s: %w", opts.target, domain.ErrNotFound)
}

// resolveInWorkspace loads the files into a scratch workspace and
// optionally fetches external imports there, so the peer set is exactly
// the given files plus what they fetch. The set is then resolved in file
// order; with --store it is resolved in the persistent workspace, which
// keeps the documents and records the run.
func resolveInWorkspace(ctx context.Context, cmd *cobra.Command, svc *Services, opts resolveOptions) (*domain.Models, error) {
	scratch := svc.Scratch()

	namespaces, err := scratch.Load(ctx, opts.paths)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded %d namespaces", len(namespaces))

	if opts.fetchExternal {
		fetched, err := scratch.FetchExternal(ctx)
		if err != nil {
			return nil, err
		}
		if len(fetched) > 0 {
			cmd.PrintErrf("%s %d external namespaces\n", style(cmd.ErrOrStderr(), mutedStyle, "Fetched"), len(fetched))
		}
		namespaces = append(namespaces, fetched...)
	}

	docs := make([]*domain.Document, 0, len(namespaces))
	for _, namespace := range namespaces {
		doc, err := scratch.Get(ctx, namespace)
		if err != nil {
			return nil, fmt.Errorf("namespace %s: %w", namespace, err)
		}
		docs = append(docs, doc)
	}

	ws := scratch
	if opts.store {
		ws = svc.Workspace
	}
	run, err := ws.ResolveModels(ctx, domain.NewModels(docs...), opts.target)
	if run != nil && opts.store {
		cmd.PrintErrf("Run %s %s\n", run.ID, statusText(cmd.ErrOrStderr(), run.Status))
	}
	if err != nil {
		return nil, err
	}
	return run.Resolved, nil
}

// watchAndResolve re-resolves after every burst of changes until ctx is done.
func watchAndResolve(ctx context.Context, cmd *cobra.Command, svc *Services, opts resolveOptions) error {
	changes := make(chan domain.ModelChange)
	for _, path := range opts.paths {
		ch, err := svc.Source.Watch(ctx, path)
		if err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		go func() {
			for change := range ch {
				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	cmd.PrintErrln(style(cmd.ErrOrStderr(), mutedStyle, "Watching for changes. Press Ctrl+C to stop."))

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case change := <-changes:
			logger.Debug("%s %s", change.Type, change.Path)
			timer.Reset(watchDebounce)
		case <-timer.C:
			cmd.PrintErrln(style(cmd.ErrOrStderr(), mutedStyle, "Change detected, resolving"))
			if err := resolveOnce(ctx, cmd, svc, opts); err != nil {
				cmd.PrintErrln(style(cmd.ErrOrStderr(), failureStyle, "Error: "+err.Error()))
			}
		}
	}
}

// writeModels writes models as indented JSON, keeping field order.
func writeModels(w io.Writer, models *domain.Models) error {
	data, err := indentJSON(models)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// writeModelFiles writes each document to dir/<namespace>.json.
func writeModelFiles(dir string, models *domain.Models) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, doc := range models.Models {
		data, err := indentJSON(doc)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, doc.Namespace+".json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func indentJSON(v json.Marshaler) ([]byte, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding models: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("encoding models: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func statusText(w io.Writer, status domain.RunStatus) string {
	if status == domain.RunSucceeded {
		return style(w, successStyle, status.String())
	}
	return style(w, failureStyle, status.String())
}
