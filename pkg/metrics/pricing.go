package metrics

import "github.com/prometheus/client_golang/prometheus"

// PricingMetrics counts pricing calculations and catalog lookups that fell
// back to a zero price because the baker's catalog had no matching entry.
type PricingMetrics struct {
	calculations *prometheus.CounterVec
	catalogMiss  *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_calculations_total",
		Help: "Price calculations performed, by build category.",
	}, []string{"category"})
	catalogMiss := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_catalog_miss_total",
		Help: "Catalog lookups that resolved to no entry, by catalog category.",
	}, []string{"category"})
	reg.MustRegister(calculations, catalogMiss)
	return &PricingMetrics{
		calculations: calculations,
		catalogMiss:  catalogMiss,
	}
}

// IncCalculation increments the calculation counter for the build category.
func (p *PricingMetrics) IncCalculation(category string) {
	if p == nil || p.calculations == nil {
		return
	}
	p.calculations.WithLabelValues(normalizeLabel(category)).Inc()
}

// IncCatalogMiss increments the miss counter for the catalog category.
func (p *PricingMetrics) IncCatalogMiss(category string) {
	if p == nil || p.catalogMiss == nil {
		return
	}
	p.catalogMiss.WithLabelValues(normalizeLabel(category)).Inc()
}

// PaymentMetrics counts the outcome of processor payment notifications.
type PaymentMetrics struct {
	applied    *prometheus.CounterVec
	duplicates prometheus.Counter
	rejected   *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment reconciliation metrics.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_applied_total",
		Help: "Payment notifications applied to a quote, by payment type.",
	}, []string{"type"})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_duplicate_total",
		Help: "Payment notifications absorbed as replays of a known external id.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_rejected_total",
		Help: "Payment notifications rejected, by reason.",
	}, []string{"reason"})
	reg.MustRegister(applied, duplicates, rejected)
	return &PaymentMetrics{
		applied:    applied,
		duplicates: duplicates,
		rejected:   rejected,
	}
}

// IncApplied increments the applied counter for the payment type.
func (p *PaymentMetrics) IncApplied(paymentType string) {
	if p == nil || p.applied == nil {
		return
	}
	p.applied.WithLabelValues(normalizeLabel(paymentType)).Inc()
}

// IncDuplicate increments the replayed-notification counter.
func (p *PaymentMetrics) IncDuplicate() {
	if p == nil || p.duplicates == nil {
		return
	}
	p.duplicates.Inc()
}

// IncRejected increments the rejection counter for the given reason.
func (p *PaymentMetrics) IncRejected(reason string) {
	if p == nil || p.rejected == nil {
		return
	}
	p.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}
