package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	entsoe "github.com/gridwatch/entsoe-go"
	"github.com/gridwatch/entsoe-go/internal/poll"
	"github.com/gridwatch/entsoe-go/internal/store"
)

// Command entsoe-fetch queries the ENTSO-E Transparency Platform and writes
// flattened observation records to stdout, a file, or TimescaleDB.
//
// It supports:
//   - One-shot collection of an explicit period
//   - Scheduled collection of a trailing window on a cron expression
//   - JSON and CSV output, or direct insertion into a hypertable
//
// Usage:
//
//	entsoe-fetch -endpoint day_ahead_prices \
//	    -in 10YCZ-CEPS-----N -out 10YCZ-CEPS-----N \
//	    -start 202012312300 -end 202101022300 -format csv
//
// The API key is read from the ENTSOE_API_KEY environment variable or the
// config file given with -config.
func main() {
	cfg := parseFlags()

	// Initialize structured logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := run(cfg, logger); err != nil {
		logger.Fatalf("entsoe-fetch: %v", err)
	}
}

type Config struct {
	Endpoint   string
	InDomain   string
	OutDomain  string
	Start      string
	End        string
	ConfigFile string
	ParamsFile string

	Domain        string
	AddTimestamps bool
	Format        string
	Output        string

	ConnString string
	CronSpec   string
	Lookback   time.Duration
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.Endpoint, "endpoint", "", "Data view to query (day_ahead_prices, actual_total_load, generation_per_type, generation_per_unit, physical_flows, imbalance_prices)")
	flag.StringVar(&cfg.InDomain, "in", "", "Primary EIC area code")
	flag.StringVar(&cfg.OutDomain, "out", "", "Secondary EIC area code, for views that take one")
	flag.StringVar(&cfg.Start, "start", "", "Period start, YYYYMMDDHHMM UTC")
	flag.StringVar(&cfg.End, "end", "", "Period end, YYYYMMDDHHMM UTC")
	flag.StringVar(&cfg.ConfigFile, "config", "", "Path to config file")
	flag.StringVar(&cfg.ParamsFile, "params", "", "YAML file with extra endpoint parameters, e.g. psrType: B14")
	flag.StringVar(&cfg.Domain, "domain", "time_series", "Sub-structure to flatten; empty flattens whole documents")
	flag.BoolVar(&cfg.AddTimestamps, "timestamps", true, "Derive per-observation timestamps")
	flag.StringVar(&cfg.Format, "format", "json", "Output format: json or csv")
	flag.StringVar(&cfg.Output, "output", "", "Output file; defaults to stdout")
	flag.StringVar(&cfg.ConnString, "conn-string", "", "TimescaleDB connection string; enables the store sink")
	flag.StringVar(&cfg.CronSpec, "cron", "", "Cron expression for scheduled collection; runs once when empty")
	flag.DurationVar(&cfg.Lookback, "lookback", 24*time.Hour, "Period length for scheduled runs, ending now")

	flag.Parse()

	return cfg
}

func run(cfg *Config, logger *logrus.Logger) error {
	extra, err := loadExtraParams(cfg.ParamsFile)
	if err != nil {
		return err
	}

	opts := []entsoe.Option{entsoe.WithLogger(logger)}
	if cfg.ConfigFile != "" {
		opts = append(opts, entsoe.WithConfigFile(cfg.ConfigFile))
	}
	client, err := entsoe.NewClient(opts...)
	if err != nil {
		return err
	}

	// Create a context that will be canceled on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleShutdown(cancel, logger)

	var sink store.RecordStore
	if cfg.ConnString != "" {
		st, err := store.New(cfg.ConnString, logger)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()
		if err := st.EnsureSchema(ctx); err != nil {
			return err
		}
		sink = st
	}

	if cfg.CronSpec == "" {
		q, err := buildQuery(cfg, extra)
		if err != nil {
			return err
		}
		return collect(ctx, client, q, cfg, sink, logger)
	}

	// Scheduled mode: each run covers the trailing lookback window.
	poller := poll.New(logger, 10*time.Minute)
	err = poller.Schedule(cfg.CronSpec, func(runCtx context.Context) error {
		q, err := buildQuery(cfg, extra)
		if err != nil {
			return err
		}
		end := time.Now().UTC().Truncate(time.Minute)
		q.PeriodStart, q.PeriodEnd = end.Add(-cfg.Lookback), end
		return collect(runCtx, client, q, cfg, sink, logger)
	})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"cron":     cfg.CronSpec,
		"lookback": cfg.Lookback.String(),
	}).Info("Starting scheduled collection")
	poller.Start()
	<-ctx.Done()
	poller.Stop()
	return nil
}

func buildQuery(cfg *Config, extra map[string]string) (entsoe.Query, error) {
	q := entsoe.Query{
		Endpoint:  entsoe.EndpointKind(cfg.Endpoint),
		InDomain:  cfg.InDomain,
		OutDomain: cfg.OutDomain,
		Extra:     extra,
	}
	if cfg.Endpoint == "" {
		return q, fmt.Errorf("-endpoint is required")
	}
	if cfg.CronSpec != "" {
		// The period comes from the schedule.
		return q, nil
	}

	var err error
	if q.PeriodStart, err = entsoe.ParsePeriod(cfg.Start); err != nil {
		return q, fmt.Errorf("-start: %w", err)
	}
	if q.PeriodEnd, err = entsoe.ParsePeriod(cfg.End); err != nil {
		return q, fmt.Errorf("-end: %w", err)
	}
	return q, nil
}

// collect runs one query and hands the records to the configured sink.
func collect(ctx context.Context, client *entsoe.Client, q entsoe.Query, cfg *Config, sink store.RecordStore, logger *logrus.Logger) error {
	result, err := client.QueryAPI(ctx, q)
	if err != nil {
		return err
	}

	for _, failure := range result.Failures {
		logger.WithFields(logrus.Fields{
			"chunk":   failure.Chunk.Index,
			"outcome": failure.Kind.String(),
		}).Warn(failure.Error())
	}

	var extractOpts []entsoe.ExtractOption
	if cfg.Domain != "" {
		extractOpts = append(extractOpts, entsoe.WithDomain(cfg.Domain))
	}
	records, err := result.Records(extractOpts...)
	if err != nil {
		return err
	}

	if cfg.AddTimestamps {
		var derrs []*entsoe.DeriveError
		records, derrs = entsoe.AddTimestamps(records)
		for _, derr := range derrs {
			logger.Warn(derr.Error())
		}
	}

	logger.WithFields(logrus.Fields{
		"endpoint":  string(q.Endpoint),
		"documents": len(result.Documents),
		"records":   len(records),
	}).Info("Collection finished")

	if sink != nil {
		n, err := sink.InsertRecords(ctx, string(q.Endpoint), records)
		if err != nil {
			return fmt.Errorf("failed to store records: %w", err)
		}
		logger.WithField("rows", n).Info("Records stored")
		return nil
	}
	return writeRecords(records, cfg)
}

func writeRecords(records []*entsoe.Record, cfg *Config) error {
	var out io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch cfg.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "csv":
		return writeCSV(out, records)
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
}

// writeCSV renders records under a header that is the union of all field
// names in first-seen order. Fields a record lacks stay empty.
func writeCSV(out io.Writer, records []*entsoe.Record) error {
	var header []string
	seen := map[string]bool{}
	for _, rec := range records {
		for _, k := range rec.Keys() {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, k := range header {
			v, ok := rec.Get(k)
			if !ok || v == nil {
				row[i] = ""
				continue
			}
			row[i] = fmt.Sprintf("%v", v)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func loadExtraParams(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}
	params := map[string]string{}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse params file: %w", err)
	}
	return params, nil
}

// Handle graceful shutdown
func handleShutdown(cancel context.CancelFunc, logger *logrus.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.WithField("signal", sig.String()).Info("Received signal, shutting down")
	cancel()
}
