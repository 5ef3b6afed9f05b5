/*
Package metrics provides Prometheus-based metrics collection for a collection run.

# Overview

The metrics package tracks artifact acquisition, hashing, and upload operations,
retry outcomes, per-stage queue depth, and errors. It exports both live Prometheus
metrics and a human-readable debug summary for troubleshooting without a scrape target.

Architecture

	┌─────────────┐
	│  Collector  │  ← Main metrics aggregator
	└──────┬──────┘
	       │
	   ┌───┴────────────────────────────┐
	   │                                │
	┌──▼───────────┐         ┌─────────▼──────┐
	│  Prometheus  │         │  HTTP Endpoints │
	│   Registry   │         │  /metrics       │
	│              │         │  /health        │
	│ - Counters   │         │  /debug/metrics │
	│ - Histograms │         └─────────────────┘
	│ - Gauges     │
	└──────────────┘

# Core Components

Collector: the main metrics collector that aggregates and exports metrics.
It maintains both Prometheus metrics (for monitoring systems) and internal
operation tracking (for debugging).

	collector, err := metrics.NewCollector(&metrics.Config{
		Enabled:   true,
		Port:      8080,
		Path:      "/metrics",
		Namespace: "collector",
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := collector.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer collector.Stop(ctx)

# Recording Operations

The collector tracks operations with timing, size, and success/failure status:

	startTime := time.Now()
	meta, err := reader.Collect(ctx, source, destination)
	duration := time.Since(startTime)

	collector.RecordOperation("acquire", duration, meta.FileSize, err == nil)

# Retry Metrics

Track retried upload jobs per destination:

	// Job succeeded after a transport error and backoff
	collector.RecordRetrySuccess("s3")

	// Job exhausted its retry budget
	collector.RecordRetryExhausted("sftp")

	// Update pending-job depth per pipeline stage (periodically)
	collector.UpdateQueueDepth("acquire", pendingJobs)
	collector.UpdateQueueDepth("upload", pendingUploads)

# Error Tracking

Record and classify errors for monitoring and alerting:

	if err != nil {
		collector.RecordError("s3_upload", err)
		return err
	}

# Prometheus Metrics

The collector exports the following Prometheus metrics:

Counters:
  - collector_operations_total{operation,status}: Total operations by type and status
  - collector_retry_outcomes_total{outcome,destination}: Retried jobs by outcome and destination
  - collector_errors_total{operation,type}: Errors by operation and classification

Histograms:
  - collector_operation_duration_seconds{operation}: Operation latency distribution
  - collector_operation_size_bytes{operation}: Operation size distribution

Gauges:
  - collector_queue_depth{stage}: Pending jobs per pipeline stage
  - collector_active_upload_sessions: Current concurrent upload sessions

# HTTP Endpoints

The metrics server exposes several endpoints:

/metrics - Prometheus-formatted metrics (for scraping)

	curl http://localhost:8080/metrics

/health - Health check endpoint

	curl http://localhost:8080/health
	{"status":"healthy","service":"collector-metrics"}

/debug/metrics - Human-readable metrics summary

	curl http://localhost:8080/debug/metrics
	{
	  "uptime": "2h15m30s",
	  "operations": {
	    "acquire": {
	      "count": 152,
	      "errors": 3,
	      "avg_duration": "45ms",
	      "avg_size": 524288.00
	    }
	  }
	}

/debug/operations - Tabular operations summary

	curl http://localhost:8080/debug/operations
	Operation            Count     Errors   Avg Duration      Avg Size
	----------           -----     ------   ------------      --------
	acquire                152          3         45ms        524288
	upload                  18          1        890ms       4194304

# Configuration

The Config struct controls metrics behavior:

	config := &metrics.Config{
		Enabled:        true,              // Enable/disable metrics collection
		Port:           8080,              // HTTP server port
		Path:           "/metrics",        // Prometheus metrics endpoint path
		Namespace:      "collector",       // Prometheus namespace
		Subsystem:      "",                // Optional subsystem prefix
		UpdateInterval: 30 * time.Second,  // Periodic update interval
		Labels:         map[string]string{ // Custom labels for all metrics
			"host":    "forensic-ws-01",
			"case_id": "2026-0731-01",
		},
	}

# Best Practices

1. Operation Recording
Record every acquisition, hash, package, and upload operation with accurate
timing and size information. Use consistent operation names across the codebase.

2. Retry Metrics
Record a retry outcome each time the upload retry policy exhausts or eventually
succeeds; this distinguishes transient transport flakiness from real failures.

3. Error Classification
Record all errors with meaningful operation context. The collector automatically
classifies errors (timeout, connection, not_found, permission, throttling) for
better monitoring and alerting.

4. Resource Limits
Be mindful of metric cardinality. Avoid high-cardinality labels (like artifact
paths) that can explode the metric count and impact Prometheus performance.

5. Debugging
Use the /debug/* endpoints for troubleshooting without requiring Prometheus.
These endpoints provide human-readable summaries of current system state.

# Thread Safety

All Collector methods are thread-safe and can be called concurrently from
multiple goroutines. The collector uses RWMutex for efficient concurrent access.

# Integration with Monitoring Systems

Prometheus Setup:

	scrape_configs:
	  - job_name: 'collector'
	    static_configs:
	      - targets: ['localhost:8080']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

# Example Usage

	package main

	import (
		"context"
		"log"
		"time"

		"github.com/hostforensics/collector/internal/metrics"
	)

	func main() {
		collector, err := metrics.NewCollector(&metrics.Config{
			Enabled:   true,
			Port:      8080,
			Namespace: "collector",
		})
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		if err := collector.Start(ctx); err != nil {
			log.Fatal(err)
		}
		defer collector.Stop(ctx)

		start := time.Now()
		err = runCollectionJob()
		collector.RecordOperation("acquire", time.Since(start), 1024, err == nil)
		if err != nil {
			collector.RecordError("acquire", err)
		}
	}

	func runCollectionJob() error {
		return nil
	}

# See Also

- internal/circuit: Circuit breaker for transport reliability
- pkg/errors: Structured error handling

For more information on Prometheus metrics and best practices, see:
https://prometheus.io/docs/practices/naming/
*/
package metrics
