package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/eligibility/internal/config"
	"github.com/JonMunkholm/eligibility/internal/core"
	"github.com/JonMunkholm/eligibility/internal/metrics"
	"github.com/JonMunkholm/eligibility/internal/partners"
	"github.com/JonMunkholm/eligibility/internal/web"
)

// app holds what every command shares.
type app struct {
	cfg      *config.Config
	registry *prometheus.Registry
	service  *core.Service

	configPath string
	outputPath string
}

func newApp(cfg *config.Config) *app {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &app{
		cfg:      cfg,
		registry: reg,
		service: core.NewService(core.Options{
			MaxConcurrent: cfg.Pipeline.MaxConcurrent,
			MaxFileSize:   cfg.Pipeline.MaxFileSize,
			Recorder:      metrics.New(reg),
		}),
		configPath: cfg.Pipeline.ConfigPath,
		outputPath: cfg.Pipeline.OutputPath,
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "eligibility",
		Short: "Unify partner eligibility files into one dataset",
		Long: `Eligibility reads each partner file named in the partner configuration,
normalizes it into the canonical member schema and writes the concatenated
result as a single CSV file.

Partners are processed in the order they are declared. Any partner failure
aborts the run and leaves the previous output file untouched.`,
		Args:          cobra.NoArgs,
		RunE:          a.runUnify,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", a.configPath, "partner configuration file")
	root.Flags().StringVarP(&a.outputPath, "output", "o", a.outputPath, "unified output file")

	root.AddCommand(a.validateCommand(), a.serveCommand())
	return root
}

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the partner configuration without reading partner files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := partners.Load(a.configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d partners\n", a.configPath, len(list))
			for _, p := range list {
				fmt.Fprintf(out, "  %s (%s) %s, %d mapped columns\n",
					p.Name, p.PartnerCode, p.FilePath, len(p.Mapping))
			}
			return nil
		},
	}
}

func (a *app) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve unified data over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) runUnify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	list, err := partners.Load(a.configPath)
	if err != nil {
		return err
	}

	dataset, err := a.service.Unify(ctx, list)
	if err != nil {
		return err
	}

	if err := core.WriteFile(a.outputPath, dataset); err != nil {
		return err
	}

	records, err := dataset.Records()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote: %s\n", a.outputPath)
	if err := core.Preview(out, dataset, a.cfg.Pipeline.PreviewRows); err != nil {
		return err
	}
	fmt.Fprintf(out, "Created %d EligibilityRecord objects\n", len(records))
	return nil
}

// serve runs the HTTP server until ctx is cancelled.
func (a *app) serve(ctx context.Context) error {
	// Fail fast on a broken configuration; requests reload it anyway.
	if _, err := partners.Load(a.configPath); err != nil {
		return err
	}

	loader := func() ([]core.PartnerConfig, error) {
		return partners.Load(a.configPath)
	}
	srv := web.NewServer(a.service, loader, a.cfg.Server, a.registry)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// exitCode reports err on stderr and returns the process exit status.
func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}

	slog.Error("command failed", "error", err, "kind", core.KindOf(err))
	if core.IsUserFacing(err) {
		fmt.Fprintln(stderr, "Error:", core.FormatUserError(err))
	} else {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return 1
}
