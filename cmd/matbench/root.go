package main

import (
	"errors"
	"fmt"
	"os"

	"matbench/internal/config"
	"matbench/internal/db"
	apperrors "matbench/internal/errors"
	"matbench/internal/telemetry"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "matbench",
	Short: "Benchmark naive dense matrix multiplication",
	Long: `matbench multiplies freshly generated random square matrices with the
textbook triple loop and records wall time and resident memory for every
run. Results are written to CSV and can optionally be kept in a history
database, exported as Prometheus metrics and announced on Slack.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "matbench: command panicked: %v\n", r)
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		var runErr *apperrors.RunError
		if errors.As(err, &runErr) {
			fmt.Fprintln(os.Stderr, runErr.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./matbench.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
	rootCmd.PersistentFlags().String("history-type", "sqlite", "History store backend (sqlite, postgres)")
	rootCmd.PersistentFlags().String("history-dsn", db.DefaultSQLitePath, "History store path or connection string")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("history.type", rootCmd.PersistentFlags().Lookup("history-type"))
	viper.BindPFlag("history.dsn", rootCmd.PersistentFlags().Lookup("history-dsn"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		exit(1)
		return
	}

	if err := config.ValidateConfig(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		exit(1)
		return
	}

	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
}
