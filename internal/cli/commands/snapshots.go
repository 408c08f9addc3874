package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/inspector/internal/cli/ui"
	"github.com/conduit-lang/inspector/internal/store"
	"github.com/conduit-lang/inspector/runtime/document"
)

// storeError marks a failure of the configured snapshot store
type storeError struct{ err error }

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

// snapshotNotFoundError names the snapshot a command asked for
type snapshotNotFoundError struct{ id string }

func (e *snapshotNotFoundError) Error() string { return fmt.Sprintf("snapshot %s not found", e.id) }
func (e *snapshotNotFoundError) Unwrap() error { return store.ErrNotFound }

// withStore opens the configured store for the duration of fn
func (g *globals) withStore(ctx context.Context, fn func(store.Store) error) error {
	s, err := g.openStore(ctx, g.cfg.Store)
	if err != nil {
		return &storeError{err: fmt.Errorf("failed to open %s store: %w", g.cfg.Store.Driver, err)}
	}
	defer func() {
		if err := s.Close(); err != nil {
			g.logger.Warn("failed to close store", zap.Error(err))
		}
	}()
	return fn(s)
}

// notFound turns store.ErrNotFound into an error carrying id
func notFound(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &snapshotNotFoundError{id: id}
	}
	return &storeError{err: err}
}

func newSnapshotsCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshots",
		Aliases: []string{"snap"},
		Short:   "Manage stored snapshots",
		Long: `Snapshots are documents saved with --save or through the HTTP API. They
live in the store configured under "store" (memory, sqlite3, pgx, postgres
or redis).`,
	}
	cmd.AddCommand(newSnapshotsListCommand(g))
	cmd.AddCommand(newSnapshotsShowCommand(g))
	cmd.AddCommand(newSnapshotsDeleteCommand(g))
	return cmd
}

func newSnapshotsListCommand(g *globals) *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, oldest first",
		Example: `  inspector snapshots list
  inspector snapshots list --type Player --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var snaps []*store.Snapshot
			err := g.withStore(cmd.Context(), func(s store.Store) error {
				var err error
				snaps, err = s.List(cmd.Context(), typeName)
				if err != nil {
					return &storeError{err: err}
				}
				return nil
			})
			if err != nil {
				return err
			}

			if g.structured() {
				if snaps == nil {
					snaps = []*store.Snapshot{}
				}
				return g.encode(cmd.OutOrStdout(), snaps)
			}
			if len(snaps) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), ui.Info("No snapshots stored", g.colorless()))
				return nil
			}

			table := ui.NewTable(cmd.OutOrStdout(), []string{"ID", "TYPE", "CREATED", "SIZE"}, &ui.TableOptions{NoColor: g.colorless()})
			for _, snap := range snaps {
				table.AddRow(snap.ID, snap.Type, snap.CreatedAt.Local().Format(time.DateTime), fmt.Sprintf("%d B", len(snap.Document)))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "", "Only list snapshots of this type")
	return cmd
}

func newSnapshotsShowCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a snapshot and its document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var snap *store.Snapshot
			err := g.withStore(cmd.Context(), func(s store.Store) error {
				var err error
				snap, err = s.Get(cmd.Context(), args[0])
				if err != nil {
					return notFound(args[0], err)
				}
				return nil
			})
			if err != nil {
				return err
			}

			doc := document.New()
			if err := doc.UnmarshalJSON(snap.Document); err != nil {
				return fmt.Errorf("snapshot %s has a malformed document: %w", snap.ID, err)
			}

			out := cmd.OutOrStdout()
			if !g.structured() {
				kv := ui.NewKeyValueTable(out, g.colorless())
				kv.AddRow("ID", snap.ID)
				kv.AddRow("Type", snap.Type)
				kv.AddRow("Created", snap.CreatedAt.Local().Format(time.RFC3339))
				kv.AddRow("Fields", strings.Join(doc.Keys(), ", "))
				kv.Render()
				fmt.Fprintln(out)
			}
			return doc.Encode(out, g.documentFormat(), g.indent())
		},
	}
}

func newSnapshotsDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a snapshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := g.withStore(cmd.Context(), func(s store.Store) error {
				if err := s.Delete(cmd.Context(), args[0]); err != nil {
					return notFound(args[0], err)
				}
				return nil
			})
			if err != nil {
				return err
			}
			ui.WriteSuccess(cmd.OutOrStdout(), "deleted snapshot "+args[0], g.colorless())
			return nil
		},
	}
}
