// Package metrics exposes Prometheus metrics for catalog validation and
// import loading runs. Metrics are collected in a private registry and can
// be written out in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semcatalog/catalog"
	"github.com/c360studio/semcatalog/imports"
)

const namespace = "semcatalog"

// Metrics holds the collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	importOutcomes *prometheus.CounterVec
	mappings       *prometheus.GaugeVec
	graphTriples   prometheus.Gauge
}

// New creates the collectors and registers them in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		importOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "imports",
			Name:      "outcomes_total",
			Help:      "Ontology imports processed, by outcome",
		}, []string{"status"}),
		mappings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "mappings",
			Help:      "Catalog mapping keys by whether their file exists",
		}, []string{"state"}),
		graphTriples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "triples",
			Help:      "Distinct triples in the loaded graph",
		}),
	}

	m.registry.MustRegister(m.importOutcomes, m.mappings, m.graphTriples)

	// Pre-create label values so every series is present at zero.
	for _, s := range []imports.Status{
		imports.StatusLoaded,
		imports.StatusSkippedLegacy,
		imports.StatusUnmapped,
		imports.StatusLoadError,
	} {
		m.importOutcomes.WithLabelValues(s.String())
	}
	return m
}

// Observe counts an import outcome. It satisfies imports.Observer.
func (m *Metrics) Observe(o imports.Outcome) {
	m.importOutcomes.WithLabelValues(o.Status.String()).Inc()
}

// RecordReport records the graph size after an import run.
func (m *Metrics) RecordReport(r *imports.Report) {
	m.graphTriples.Set(float64(r.Triples))
}

// RecordValidation records the valid and invalid mapping counts.
func (m *Metrics) RecordValidation(v *catalog.Validation) {
	m.mappings.WithLabelValues("valid").Set(float64(v.Valid()))
	m.mappings.WithLabelValues("invalid").Set(float64(v.Invalid()))
}

// WriteTextfile writes the current values to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
