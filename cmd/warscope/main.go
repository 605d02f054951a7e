// Command warscope statically analyzes a WAR file and prints a
// structured report of the HTTP endpoints it exposes, without ever
// loading or executing the archive's bytecode.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"warscope/internal/analyzer"
	"warscope/internal/config"
	"warscope/internal/tracelog"
)

var (
	configPath string
	timeout    int
	pretty     bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "warscope",
		Short: "Static endpoint analyzer for Java WAR files",
		Long:  "warscope decodes a WAR's class files to report the HTTP endpoints it exposes and whether each one appears to mutate state, without loading or running the archive.",
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <path-to-war>",
		Short: "Analyze a WAR file and print its endpoint report",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	analyzeCmd.Flags().StringVar(&configPath, "config", "", "path to a warscope.yaml config file")
	analyzeCmd.Flags().IntVar(&timeout, "timeout", 0, "analysis timeout in seconds (0 uses the config default)")
	analyzeCmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print the JSON report")
	analyzeCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")

	rootCmd.AddCommand(analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	level := tracelog.Info
	if verbose {
		level = tracelog.Debug
	}
	if err := tracelog.Init(os.Stderr, "", level); err != nil {
		return err
	}
	defer tracelog.Close()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if timeout > 0 {
		cfg.Analysis.TimeoutSeconds = timeout
	}

	warPath := args[0]
	tracelog.Infof("analyzing %s", warPath)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("[analyzing]"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go animate(bar, done)

	rep, err := analyzer.Analyze(context.Background(), warPath, cfg)
	close(done)
	bar.Finish()

	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return printReport(rep)
}

// animate advances the indeterminate progress bar while Analyze runs in
// the foreground goroutine — the archive entry count isn't known ahead
// of time, so this is a spinner rather than a bounded bar.
func animate(bar *progressbar.ProgressBar, done <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func printReport(rep interface{}) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(rep, "", "  ")
	} else {
		data, err = json.Marshal(rep)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
