package metrics

import "testing"

func TestRegistry_GatherSucceeds(t *testing.T) {
	ResidentModelsGauge.Set(2)
	ModelEvictionsTotal.Add(1)

	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Fatal("Gather() returned no metric families")
	}
}

func TestRouteDecisionsTotal_Labels(t *testing.T) {
	RouteDecisionsTotal.WithLabelValues("llama-3.2-1b-q4_k_m", "false").Inc()
	RouteDecisionsTotal.WithLabelValues("sarvam-2b-q4_k_m", "true").Inc()
}
