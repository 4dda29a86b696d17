package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tasks-dev/tasks/frontend/internal/state"
	"github.com/tasks-dev/tasks/shared/config"
	"github.com/tasks-dev/tasks/shared/domain"
)

var errThreadNotFound = errors.New("thread not found")

// threadFlags select the thread a command works on.
type threadFlags struct {
	name string
	id   int64
}

func (f *threadFlags) register(cmd *cobra.Command, withId bool) {
	cmd.Flags().StringVar(&f.name, "thread", config.DefaultThreadName, "Thread name")
	if withId {
		cmd.Flags().Int64Var(&f.id, "thread-id", 0, "Thread id (overrides --thread)")
	}
}

// load points store at the selected thread and loads its boards.
func (f *threadFlags) load(ctx context.Context, store *state.Store) error {
	if f.id != 0 {
		if err := store.InitThreads(ctx); err != nil {
			return err
		}
		if err := store.ChangeThread(ctx, domain.ThreadId(f.id)); err != nil {
			return err
		}
	} else if err := store.InitBoard(ctx, f.name); err != nil {
		return err
	}
	if _, ok := store.CurrentThread(); !ok {
		return fmt.Errorf("%w: %s", errThreadNotFound, store.Pointer())
	}
	return nil
}

func newThreadsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "threads",
		Short: "List threads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.newStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := store.InitThreads(commandContext(cmd)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, store.Threads())
		},
	}
}

func newBoardsCmd(app *App) *cobra.Command {
	var thread threadFlags
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List boards of a thread, current board first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.newStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := thread.load(commandContext(cmd), store); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, store.Boards())
		},
	}
	thread.register(cmd, true)
	return cmd
}

func newFocusCmd(app *App) *cobra.Command {
	var thread threadFlags
	cmd := &cobra.Command{
		Use:   "focus TEXT",
		Short: "Set the focus of the current board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			store, err := app.newStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := thread.load(ctx, store); err != nil {
				return writeErr(cmd, err)
			}

			focus := args[0]
			if err := store.Save(ctx, domain.BoardPatch{Focus: &focus}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, store.CurrentBoard())
		},
	}
	thread.register(cmd, false)
	return cmd
}

func newCloseCmd(app *App) *cobra.Command {
	var thread threadFlags
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close the current board and print what it carried",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			store, err := app.newStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := thread.load(ctx, store); err != nil {
				return writeErr(cmd, err)
			}

			closed := store.Summary()
			if err := store.Close(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"closed":  closed,
				"current": store.CurrentBoard(),
			})
		},
	}
	thread.register(cmd, false)
	return cmd
}

func newSummaryCmd(app *App) *cobra.Command {
	var thread threadFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count tasks of the current board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.newStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := thread.load(commandContext(cmd), store); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, store.Summary())
		},
	}
	thread.register(cmd, false)
	return cmd
}
