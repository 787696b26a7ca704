package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"matbench/internal/benchmark"
	"matbench/internal/config"
	"matbench/internal/db"
	"matbench/internal/matrix"
	"matbench/internal/notify"
	"matbench/internal/telemetry"
	"matbench/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runCompare   bool
	runThreshold float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the matrix multiplication benchmark",
	Long: `Multiplies two random NxN matrices for every configured size, Runs times
per size, and appends one CSV row per run with the elapsed time in seconds
and the resident memory of the process in MB.

The output file is opened before the first run, so an unwritable
destination fails immediately. Rows are flushed one at a time; when a run
fails the rows already written remain valid.`,
	Example: `  matbench run
  matbench run --sizes 128,256 --runs 3 --output data/go_benchmark_results.csv
  matbench run --history --compare --threshold 5`,
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("sizes", joinSizes(config.DefaultSizes), "Comma separated matrix sizes, in order")
	runCmd.Flags().Int("runs", config.DefaultRuns, "Runs per matrix size")
	runCmd.Flags().StringP("output", "o", config.DefaultOutput, "CSV output path")
	runCmd.Flags().Int64("seed", 0, "Seed for matrix generation (0 seeds from the clock)")
	runCmd.Flags().Bool("history", false, "Record the run in the history store")
	runCmd.Flags().String("metrics-textfile", "", "Write Prometheus metrics to this file after the run")
	runCmd.Flags().Int("metrics-port", 0, "Serve Prometheus metrics on this port while running (0 disables)")
	runCmd.Flags().BoolVar(&runCompare, "compare", false, "Compare averages with the latest completed run in history")
	runCmd.Flags().Float64Var(&runThreshold, "threshold", 10.0, "Percentage of time increase reported as a regression")

	viper.BindPFlag("sizes", runCmd.Flags().Lookup("sizes"))
	viper.BindPFlag("runs", runCmd.Flags().Lookup("runs"))
	viper.BindPFlag("output", runCmd.Flags().Lookup("output"))
	viper.BindPFlag("seed", runCmd.Flags().Lookup("seed"))
	viper.BindPFlag("history.enabled", runCmd.Flags().Lookup("history"))
	viper.BindPFlag("metrics.textfile", runCmd.Flags().Lookup("metrics-textfile"))
	viper.BindPFlag("metrics.port", runCmd.Flags().Lookup("metrics-port"))
}

func joinSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	settings, err := config.Current()
	if err != nil {
		return err
	}
	if runCompare && !settings.History.Enabled {
		return fmt.Errorf("--compare requires the history store, enable it with --history")
	}

	out := cmd.OutOrStdout()

	// Opened first so an unwritable destination fails before any run
	csvSink, err := benchmark.NewCSVSink(settings.Output)
	if err != nil {
		return err
	}
	defer csvSink.Close()
	sinks := []benchmark.Sink{csvSink}

	memory, err := memorySamplerFactory()
	if err != nil {
		return fmt.Errorf("failed to initialize memory sampler: %w", err)
	}

	host, _ := os.Hostname()

	var store db.Store
	var recorder *db.Recorder
	if settings.History.Enabled {
		store, err = storeFactory(db.StoreConfig{
			Type:             settings.History.Type,
			ConnectionString: settings.History.DSN,
		})
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()

		recorder, err = db.NewRecorder(store, db.RunMeta{
			StartedAt: time.Now(),
			Sizes:     settings.Sizes,
			Runs:      settings.Runs,
			Output:    settings.Output,
			Hostname:  host,
		})
		if err != nil {
			return err
		}
		sinks = append(sinks, recorder)
	}

	var metrics *telemetry.Metrics
	if settings.Metrics.Textfile != "" || settings.Metrics.Port != 0 {
		metrics = telemetry.NewMetrics()
		sinks = append(sinks, metrics)
		if settings.Metrics.Port != 0 {
			stopServer, err := metrics.StartMetricsServer(settings.Metrics.Port)
			if err != nil {
				return err
			}
			defer stopServer()
		}
	}

	runner := benchmark.NewRunner(benchmark.Config{Sizes: settings.Sizes, Runs: settings.Runs}, memory, sinks...)
	if settings.Seed != 0 {
		runner.Generator = matrix.NewSeededGenerator(settings.Seed)
	}
	runner.Progress = out

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprint(out, ui.Banner(settings.Sizes, settings.Runs, settings.Output))
	result, runErr := runner.Run(ctx)

	if recorder != nil {
		if err := recorder.Finish(runErr); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: history run %d was not finalized and stays %q: %v\n",
				recorder.RunID(), db.StatusRunning, err)
		}
	}
	if metrics != nil && settings.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(settings.Metrics.Textfile); err != nil {
			slog.Warn("Failed to write metrics textfile", "path", settings.Metrics.Textfile, "error", err)
		}
	}

	notifier := notifierFactory(settings)
	if runErr != nil {
		sendNotification(cmd.Context(), notifier, notify.FailedMessage(host, runErr))
		fmt.Fprintf(out, "\nPartial results saved at %s\n", csvSink.Path())
		return runErr
	}

	averages := result.Averages()
	fmt.Fprint(out, ui.RenderAverages(averages))

	if runCompare {
		if err := compareWithPrevious(out, store, recorder.RunID(), averages); err != nil {
			return err
		}
	}

	sendNotification(cmd.Context(), notifier, notify.FinishedMessage(host, averages, csvSink.Path()))
	fmt.Fprintf(out, "\nResults saved at %s\n", csvSink.Path())
	return nil
}

func compareWithPrevious(out io.Writer, store db.Store, currentID int64, averages []benchmark.Average) error {
	prev, err := store.LatestCompletedRun(currentID)
	if err != nil {
		return fmt.Errorf("failed to load previous run: %w", err)
	}
	if prev == nil {
		fmt.Fprintln(out, "\nNo previous completed run to compare against.")
		return nil
	}

	samples, err := store.Samples(prev.ID)
	if err != nil {
		return fmt.Errorf("failed to load samples of run %d: %w", prev.ID, err)
	}

	comps := benchmark.Compare(averagesOf(samples), averages)
	fmt.Fprint(out, ui.RenderComparison(prev.ID, comps, runThreshold))
	return nil
}

// sendNotification never fails the command.
func sendNotification(ctx context.Context, n notify.Notifier, message string) {
	if err := n.Notify(ctx, message); err != nil {
		slog.Warn("Failed to send notification", "error", err)
	}
}

func averagesOf(samples []benchmark.Sample) []benchmark.Average {
	result := benchmark.NewResult()
	for _, s := range samples {
		result.Add(s)
	}
	return result.Averages()
}
