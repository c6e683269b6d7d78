package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"mbta-delay-pipeline/config"
	"mbta-delay-pipeline/etl"
	"mbta-delay-pipeline/mbta"
)

func main() {
	once := flag.Bool("once", false, "run a single pipeline cycle and exit")
	date := flag.String("date", "", "execution date override (YYYY-MM-DD, defaults to today)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	client := mbta.NewClient(mbta.Config{
		BaseURL: cfg.MBTA.BaseURL,
		APIKey:  cfg.MBTA.APIKey,
	})
	pipeline := etl.New(client, etl.Config{
		RouteFilter: cfg.ETL.RouteFilter,
		DataDir:     cfg.ETL.DataDir,
	})

	if cfg.DB.DSN != "" {
		dbPool, err := pgxpool.New(ctx, cfg.DB.DSN)
		if err != nil {
			log.Printf("db pool init failed, skipping Postgres mirror: %v", err)
		} else if err := dbPool.Ping(ctx); err != nil {
			log.Printf("db ping failed, skipping Postgres mirror: %v", err)
			dbPool.Close()
		} else {
			defer dbPool.Close()
			pipeline.DB = dbPool
			log.Printf("postgres mirror enabled")
		}
	}

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Printf("invalid REDIS_URL, skipping live feed: %v", err)
		} else {
			redisClient := redis.NewClient(opts)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Printf("redis ping failed, skipping live feed: %v", err)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				pipeline.Redis = redisClient
				log.Printf("redis live feed enabled: %s", cfg.Redis.URL)
			}
		}
	}

	if *once {
		if err := runCycle(ctx, pipeline, *date); err != nil {
			log.Fatalf("pipeline run failed: %v", err)
		}
		return
	}

	go serveOps(cfg.ETL.MetricsAddr)

	interval := time.Duration(cfg.ETL.IntervalHours) * time.Hour
	log.Printf("etl service running, route=%s interval=%s metrics=%s",
		cfg.ETL.RouteFilter, interval, cfg.ETL.MetricsAddr)

	if err := runCycle(ctx, pipeline, *date); err != nil {
		log.Printf("pipeline run failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := runCycle(ctx, pipeline, ""); err != nil {
				log.Printf("pipeline run failed: %v", err)
			}
		case <-ctx.Done():
			log.Printf("etl service shutting down")
			return
		}
	}
}

func runCycle(ctx context.Context, pipeline *etl.Pipeline, dateOverride string) error {
	executionDate := dateOverride
	if executionDate == "" {
		executionDate = time.Now().Format("2006-01-02")
	}

	result, err := pipeline.Run(ctx, executionDate)
	if err != nil {
		return err
	}
	log.Printf("run complete: date=%s loaded=%d quality_passed=%v warehouse=%s",
		result.ExecutionDate, result.LoadedRows, result.QualityPassed, pipeline.WarehousePath())
	return nil
}

func serveOps(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("ops server error: %v", err)
	}
}
