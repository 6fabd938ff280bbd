package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dd0wney/tbd/pkg/export"
	"github.com/dd0wney/tbd/pkg/logging"
	"github.com/dd0wney/tbd/pkg/metrics"
	"github.com/dd0wney/tbd/pkg/model"
	"github.com/dd0wney/tbd/pkg/tbd"
)

type runOptions struct {
	modelPath   string
	writeModel  string
	outDir      string
	name        string
	format      string
	reportLevel string
	overrides   bool
	snappy      bool
	dryRun      bool
	strict      bool
	workers     int
	metricsFile string

	s3Bucket   string
	s3Prefix   string
	s3Region   string
	s3Endpoint string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify edges, resolve PSI factors and derate insulating layers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerate(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.modelPath, "model", "m", "", "building model (YAML or JSON)")
	f.StringVar(&opts.writeModel, "write-model", "", "write the derated model to this path")
	f.StringVarP(&opts.outDir, "out", "o", "", "directory for the report")
	f.StringVar(&opts.name, "name", "", "report name (default tbd-<run id>)")
	f.StringVarP(&opts.format, "format", "f", "json", "report format: json or yaml")
	f.StringVar(&opts.reportLevel, "report-level", "info", "lowest diagnostic level kept in the report")
	f.BoolVar(&opts.overrides, "overrides", false, "also write the edge overrides that reproduce this run")
	f.BoolVar(&opts.snappy, "snappy", false, "snappy-compress written reports")
	f.BoolVar(&opts.dryRun, "dry-run", false, "compute without changing the model")
	f.BoolVar(&opts.strict, "strict", false, "exit with an error when the run status is ERROR or worse")
	f.IntVarP(&opts.workers, "workers", "w", 0, "edge workers (overrides the config)")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format")
	f.StringVar(&opts.s3Bucket, "s3-bucket", "", "upload reports to this bucket")
	f.StringVar(&opts.s3Prefix, "s3-prefix", "", "key prefix for uploaded reports")
	f.StringVar(&opts.s3Region, "s3-region", "", "bucket region")
	f.StringVar(&opts.s3Endpoint, "s3-endpoint", "", "S3 compatible endpoint")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func runDerate(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Options.Workers = opts.workers
	}
	m, err := model.LoadFile(opts.modelPath)
	if err != nil {
		return err
	}
	sinks, err := opts.sinks(ctx)
	if err != nil {
		return err
	}

	var reg *metrics.Registry
	if opts.metricsFile != "" {
		reg = metrics.NewRegistry()
	}
	res, err := tbd.Run(m, tbd.Options{
		Config:  cfg,
		Logger:  root.logger(cmd.ErrOrStderr()),
		Metrics: reg,
		DryRun:  opts.dryRun,
	})
	if err != nil {
		return err
	}

	name := opts.name
	if name == "" {
		name = "tbd-" + res.RunID
	}
	report := export.NewReport(res, logging.ParseLevel(opts.reportLevel))
	for _, s := range sinks {
		if err := export.Write(ctx, s, name, report, format); err != nil {
			return err
		}
		if opts.overrides {
			if err := export.Write(ctx, s, name+"-overrides", export.Overrides(res), export.YAML); err != nil {
				return err
			}
		}
	}
	if opts.writeModel != "" && !opts.dryRun {
		if err := writeModel(opts.writeModel, m); err != nil {
			return err
		}
	}
	if reg != nil {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg.GetPrometheusRegistry()); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(report))
	if opts.strict && res.Status >= logging.ErrorLevel {
		return fmt.Errorf("run %s finished with status %s", res.RunID, res.Status)
	}
	return nil
}

// sinks returns where reports go. Without --out or --s3-bucket nothing is
// written and only the summary is printed.
func (o *runOptions) sinks(ctx context.Context) ([]export.Sink, error) {
	var out []export.Sink
	if o.outDir != "" {
		out = append(out, export.FileSink{Dir: o.outDir})
	}
	if o.s3Bucket != "" {
		s, err := export.NewS3Sink(ctx, export.S3Options{
			Bucket:    o.s3Bucket,
			Prefix:    o.s3Prefix,
			Region:    o.s3Region,
			Endpoint:  o.s3Endpoint,
			AccessKey: os.Getenv("TBD_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("TBD_S3_SECRET_KEY"),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if o.snappy {
		for i, s := range out {
			out[i] = export.SnappySink{Next: s}
		}
	}
	return out, nil
}

func writeModel(path string, m *model.Model) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	if err := export.Encode(f, m.Document(), export.YAML); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
