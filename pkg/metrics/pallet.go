package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// pallet holds the business collectors of the pallet service
type pallet struct {
	ItemsAdded          *prometheus.CounterVec
	ItemsPacked         prometheus.Counter
	ItemsShipped        prometheus.Counter
	AllocationRuns      *prometheus.CounterVec
	AllocationDuration  *prometheus.HistogramVec
	PendingItems        prometheus.Gauge
	PalletUtilization   *prometheus.GaugeVec
	PersistenceFailures *prometheus.CounterVec
}

func (m *Metrics) registerPallet() {
	m.ItemsAdded = m.counterVec("pallet_items_added_total", "Items added to the catalog", "category")
	m.ItemsPacked = m.counter("pallet_items_packed_total", "Items packed onto pallets by allocation")
	m.ItemsShipped = m.counter("pallet_items_shipped_total", "Items moved to shipped")
	m.AllocationRuns = m.counterVec("pallet_allocation_runs_total", "Allocation runs by outcome", "outcome")
	m.AllocationDuration = m.histogramVec("pallet_allocation_duration_seconds", "Allocation run duration in seconds",
		[]float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1})
	m.PendingItems = m.gauge("pallet_pending_items", "Items still waiting for a pallet")
	m.PalletUtilization = m.gaugeVec("pallet_utilization_ratio", "Used fraction of a pallet limit", "pallet_id", "dimension")
	m.PersistenceFailures = m.counterVec("pallet_persistence_failures_total", "Write-through persistence failures", "operation")
}

func (m *Metrics) counter(name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        name,
		Help:        help,
		ConstLabels: prometheus.Labels{"service": m.serviceName},
	})
	m.registry.MustRegister(c)
	return c
}

// RecordItemAdded records a new catalog item
func (m *Metrics) RecordItemAdded(category string) {
	m.ItemsAdded.WithLabelValues(m.serviceName, category).Inc()
}

// RecordItemsShipped records items moved to shipped
func (m *Metrics) RecordItemsShipped(count int) {
	m.ItemsShipped.Add(float64(count))
}

// RecordAllocationRun records one allocation run. outcome is "complete" when
// nothing was left pending and "partial" otherwise.
func (m *Metrics) RecordAllocationRun(packed, unallocated int, duration time.Duration) {
	outcome := "complete"
	if unallocated > 0 {
		outcome = "partial"
	}
	m.AllocationRuns.WithLabelValues(m.serviceName, outcome).Inc()
	m.AllocationDuration.WithLabelValues(m.serviceName).Observe(duration.Seconds())
	m.ItemsPacked.Add(float64(packed))
}

// SetPendingItems sets the pending item gauge
func (m *Metrics) SetPendingItems(count int) {
	m.PendingItems.Set(float64(count))
}

// SetPalletUtilization sets the weight and height utilisation of one pallet
func (m *Metrics) SetPalletUtilization(palletID string, weight, height float64) {
	m.PalletUtilization.WithLabelValues(m.serviceName, palletID, "weight").Set(weight)
	m.PalletUtilization.WithLabelValues(m.serviceName, palletID, "height").Set(height)
}

// DeletePalletUtilization drops the series of a removed pallet
func (m *Metrics) DeletePalletUtilization(palletID string) {
	m.PalletUtilization.DeleteLabelValues(m.serviceName, palletID, "weight")
	m.PalletUtilization.DeleteLabelValues(m.serviceName, palletID, "height")
}

// RecordPersistenceFailure records a failed write-through
func (m *Metrics) RecordPersistenceFailure(operation string) {
	m.PersistenceFailures.WithLabelValues(m.serviceName, operation).Inc()
}
