// Package etl implements the daily MBTA commuter rail delay pipeline:
// an API reachability check, raw extraction, transform to clean CSV,
// append into the warehouse CSV and a soft data quality gate.
package etl

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"mbta-delay-pipeline/mbta"
	"mbta-delay-pipeline/warehouse"
)

const (
	// DefaultRouteFilter is a single commuter rail route so the
	// filter is always valid.
	DefaultRouteFilter = "CR-Fitchburg"

	defaultCheckLimit   = 5
	defaultExtractLimit = 500

	warehouseFile = "mbta_delay_warehouse.csv"
)

// Config holds pipeline settings.
type Config struct {
	RouteFilter      string
	DataDir          string
	CheckPageLimit   int
	ExtractPageLimit int
}

// Pipeline executes one ETL run at a time. Stages are strictly
// sequential; a run writes the dated raw and clean files and appends
// to the single warehouse file.
type Pipeline struct {
	client *mbta.Client
	cfg    Config

	// Optional mirrors. When nil the corresponding mirror is skipped.
	// Mirror failures never affect the CSV warehouse or the run outcome.
	DB    *pgxpool.Pool
	Redis *redis.Client
}

// New builds a pipeline, filling in defaults for unset config fields.
func New(client *mbta.Client, cfg Config) *Pipeline {
	if cfg.RouteFilter == "" {
		cfg.RouteFilter = DefaultRouteFilter
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.CheckPageLimit <= 0 {
		cfg.CheckPageLimit = defaultCheckLimit
	}
	if cfg.ExtractPageLimit <= 0 {
		cfg.ExtractPageLimit = defaultExtractLimit
	}
	return &Pipeline{client: client, cfg: cfg}
}

// WarehousePath returns the cumulative warehouse CSV location.
func (p *Pipeline) WarehousePath() string {
	return filepath.Join(p.cfg.DataDir, warehouseFile)
}

func (p *Pipeline) rawPath(executionDate string) string {
	return filepath.Join(p.cfg.DataDir, "raw", fmt.Sprintf("mbta_predictions_%s.json", executionDate))
}

func (p *Pipeline) cleanPath(executionDate string) string {
	return filepath.Join(p.cfg.DataDir, "clean", fmt.Sprintf("mbta_delays_%s.csv", executionDate))
}

// RunResult summarizes one completed run.
type RunResult struct {
	ExecutionDate string
	RawPath       string
	CleanPath     string
	LoadedRows    int
	QualityPassed bool
}

// Run executes the five stages for one execution date. Any stage error
// halts the run; later stages do not execute.
func (p *Pipeline) Run(ctx context.Context, executionDate string) (*RunResult, error) {
	start := time.Now()
	defer func() {
		runDuration.Observe(time.Since(start).Seconds())
	}()

	if err := p.CheckAPI(ctx); err != nil {
		runsFailed.Inc()
		return nil, err
	}

	rawPath, err := p.Extract(ctx, executionDate)
	if err != nil {
		runsFailed.Inc()
		return nil, err
	}

	cleanPath, cleaned, err := p.Transform(rawPath, executionDate)
	if err != nil {
		runsFailed.Inc()
		return nil, err
	}
	log.Printf("transform: %d delayed rows -> %s", cleaned, cleanPath)

	loaded, err := p.Load(ctx, cleanPath)
	if err != nil {
		runsFailed.Inc()
		return nil, err
	}

	passed := p.QualityCheck(loaded)

	runsCompleted.Inc()
	log.Printf("etl run completed: date=%s loaded=%d (%.2fs)",
		executionDate, loaded, time.Since(start).Seconds())

	return &RunResult{
		ExecutionDate: executionDate,
		RawPath:       rawPath,
		CleanPath:     cleanPath,
		LoadedRows:    loaded,
		QualityPassed: passed,
	}, nil
}

// CheckAPI verifies the predictions endpoint answers 200. Anything
// else is fatal for the run.
func (p *Pipeline) CheckAPI(ctx context.Context) error {
	status, err := p.client.Ping(ctx, p.cfg.RouteFilter)
	if err != nil {
		return fmt.Errorf("mbta api check failed: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("mbta api not available: status %d", status)
	}
	return nil
}

// Extract fetches the prediction page for the route filter and writes
// the body verbatim to the dated raw file.
func (p *Pipeline) Extract(ctx context.Context, executionDate string) (string, error) {
	raw, err := p.client.PredictionsRaw(ctx, p.cfg.RouteFilter, p.cfg.ExtractPageLimit)
	if err != nil {
		return "", err
	}

	path := p.rawPath(executionDate)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create raw dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write raw payload: %w", err)
	}
	return path, nil
}

// Transform reads the raw file, keeps predictions with a known delay
// and writes the dated clean CSV. Returns the clean path and row count.
func (p *Pipeline) Transform(rawPath, executionDate string) (string, int, error) {
	raw, err := os.ReadFile(rawPath)
	if err != nil {
		return "", 0, fmt.Errorf("read raw payload: %w", err)
	}

	records, err := TransformPayload(raw, executionDate)
	if err != nil {
		return "", 0, err
	}

	path := p.cleanPath(executionDate)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", 0, fmt.Errorf("create clean dir: %w", err)
	}
	if err := warehouse.WriteRecords(path, records); err != nil {
		return "", 0, err
	}
	return path, len(records), nil
}

// Load appends the clean CSV's rows to the warehouse file and feeds
// the optional mirrors. Returns the number of rows loaded this run.
func (p *Pipeline) Load(ctx context.Context, cleanPath string) (int, error) {
	records, err := warehouse.ReadRecords(cleanPath)
	if err != nil {
		return 0, err
	}

	loaded, err := warehouse.Append(p.WarehousePath(), records)
	if err != nil {
		return 0, err
	}
	rowsLoaded.Add(float64(loaded))

	if p.DB != nil {
		mirrored := p.mirrorToPostgres(ctx, records)
		log.Printf("load: %d/%d rows mirrored to postgres", mirrored, len(records))
	}
	if p.Redis != nil {
		published := p.publishLive(ctx, records)
		log.Printf("load: %d/%d rows published to redis", published, len(records))
	}

	return loaded, nil
}

// QualityCheck is the soft gate: an empty run logs a warning but is
// still a successful run.
func (p *Pipeline) QualityCheck(loaded int) bool {
	if loaded <= 0 {
		emptyRuns.Inc()
		log.Printf("data quality check: no delayed trips loaded this run; there may simply have been no delays")
		return false
	}
	log.Printf("data quality check passed: delayed trips loaded: %d", loaded)
	return true
}
