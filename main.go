package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var logFlags = logger.Flags{
	Level:       "info",
	LogToStderr: true,
}

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pricetag",
		Short: "价签自动排版：按商品数据计算字号与位置，输出 PDF",
		Example: `  pricetag layout -t shelf.tag -d item.yaml -o label.pdf
  pricetag sheet -t shelf.tag -d products.yaml --preset A4 -o sheet.pdf
  pricetag version`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Configure(logFlags)
		},
	}
	bindLogFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newLayoutCommand())
	rootCmd.AddCommand(newSheetCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func bindLogFlags(flags *pflag.FlagSet) {
	flags.CountVarP(&logFlags.LevelCount, "loglevel", "v", "提高日志级别")
	flags.StringVar(&logFlags.Level, "log-level", "info", "默认日志级别")
	flags.BoolVar(&logFlags.JsonLogs, "json-logs", false, "以 JSON 格式输出日志")
	flags.BoolVar(&logFlags.ReportCaller, "report-caller", false, "日志中包含调用位置")
	flags.BoolVar(&logFlags.LogToStderr, "log-to-stderr", true, "日志写到 stderr 而不是 stdout")
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), getVersionInfo())
		},
	}
}

func getVersionInfo() string {
	return fmt.Sprintf("pricetag %s (commit: %s, built: %s, go: %s)",
		version, commit, date, runtime.Version())
}
