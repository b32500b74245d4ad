// Package cmd assembles ribezal's cobra command surface and owns the
// top-level poll loop, kept separate from main.go so command wiring and
// process bootstrap don't share one file.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pecora0/ribezal/internal/config"
	"github.com/pecora0/ribezal/internal/logging"
	"github.com/pecora0/ribezal/internal/replcmd"
	"github.com/pecora0/ribezal/internal/task"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "ribezal",
	Short: "A cooperative task runtime that drives a Telegram bot from a REPL",
	Long: `ribezal reads postfix commands from a named pipe and drives Telegram
Bot API calls through a single-threaded, non-blocking task runtime: one
poll loop, no worker goroutines other than the one bridging outbound
HTTP requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cfg)
	},
}

func init() {
	config.RegisterFlags(rootCmd, &cfg)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func run(cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pool := task.NewPool(cfg.PoolCapacity)

	runner := pool.Parallel()
	replRef, stack := buildReplTask(pool, runner, cfg.FifoPath, logger)
	if err := pool.ParAppend(runner, replRef); err != nil {
		return fmt.Errorf("ribezal: %w", err)
	}

	root := pool.ContextNode(task.ContextCurlGlobal, runner)

	ctx := task.NewContext()
	logging.Log(logger, fmt.Sprintf("starting, pool capacity %d, fifo %q", cfg.PoolCapacity, cfg.FifoPath))

	result := task.ResultPending
	for result.State == task.Pending {
		result = pool.Poll(root, &ctx)
	}

	if result.State == task.Error {
		logging.Errorf(logger, "%s", result.Err)
	}
	logging.Info(logger, "Stack: %s", stack.String())
	logging.Info(logger, "shutdown, %d/%d pool slots still in use", cfg.PoolCapacity-pool.FreeCount(), cfg.PoolCapacity)
	return nil
}

// buildReplTask wraps a FifoRepl node in its own Fifo context so the pipe
// stays open for the node's lifetime. The handler closes over pool and
// logger so the two tg-* keywords can build HTTP subtasks and append them
// onto runner, the enclosing Parallel node. It also returns the
// interpreter's value stack, so the caller can report its final contents
// once the poll loop exits.
func buildReplTask(pool *task.Pool, runner task.Ref, fifoPath string, logger *zap.Logger) (task.Ref, *replcmd.Stack) {
	enqueue := func(child task.Ref) error {
		return pool.ParAppend(runner, child)
	}
	print := func(line string) { logging.Raw(logger, line) }

	interp := replcmd.NewInterpreter(pool, enqueue, print)
	handler := func(line []byte) task.Reply {
		return interp.Execute(line)
	}

	repl := pool.FifoRepl(handler)
	return pool.FifoContext(fifoPath, repl), interp.Stack
}
