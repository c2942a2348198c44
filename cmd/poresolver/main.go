package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/poresolver/config"
)

const version = "0.1.0"

var log = commonlog.GetLogger("poresolver")

// settings is shared by all commands; flags are bound to its keys.
var settings = config.New()

func main() {
	rootCmd := &cobra.Command{
		Use:           "poresolver",
		Short:         "Page object completion for end-to-end test suites",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(settings)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("root", "", "workspace root (default: nearest directory with a config file or objects folder)")
	flags.String("resolver", "", "reference resolver: imports or lines")
	flags.String("token", "", "token mode: identifier or split")
	flags.String("sort", "", "completion order: label or source")
	flags.CountP("verbose", "v", "increase log verbosity")
	flags.String("log-file", "", "write logs to this file instead of stderr")

	bindFlag(rootCmd, "resolver", "resolver")
	bindFlag(rootCmd, "token", "token")
	bindFlag(rootCmd, "sort", "sort")
	bindFlag(rootCmd, "log.verbosity", "verbose")
	bindFlag(rootCmd, "log.file", "log-file")

	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newCompleteCmd())
	rootCmd.AddCommand(newRefsCmd())
	rootCmd.AddCommand(newKeysCmd())
	rootCmd.AddCommand(newCheckCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if err := settings.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func configureLogging(v *viper.Viper) {
	var path *string
	if file := v.GetString("log.file"); file != "" {
		path = &file
	}
	commonlog.Configure(v.GetInt("log.verbosity"), path)
}
