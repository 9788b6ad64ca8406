// Package metrics exports the outcome of runs as Prometheus metrics.
//
// A [Recorder] observes the rule engine and the file pipeline:
//
//	rec := metrics.New(nil)
//	eng := rule.NewEngine(catalog, rule.WithObserver(rec))
//	fx := fixer.New(eng, fixer.WithFileObserver(rec.File))
//
//	start := time.Now()
//	fx.Run(ctx, units...)
//	rec.Finish(start)
//
//	rec.WriteFile("/var/lib/node_exporter/protofix.prom")
package metrics
