package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliState 在子命令之间共享日志配置。
type cliState struct {
	stderr  io.Writer
	verbose bool
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	state := &cliState{stderr: stderr}
	root := &cobra.Command{
		Use:           "folio",
		Short:         "folio 将声明式布局 DSL 渲染为 PDF",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "输出调试日志")
	root.AddCommand(newRenderCmd(state))
	return root
}

// newLogger 创建带时间戳的日志，--verbose 优先于配置文件中的级别。
func (s *cliState) newLogger(level log.Level) *log.Logger {
	if s.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(s.stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
