package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var m *CartMetrics
	m.ObserveReconcile(time.Second, nil)
	m.IncSuccess("add")
	m.IncFailure("remove")
}

func TestRegistersOnRegisterer(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)

	m.ObserveReconcile(50*time.Millisecond, nil)
	m.ObserveReconcile(10*time.Millisecond, errors.New("boom"))
	m.IncSuccess("add")
	m.IncFailure("")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 3 {
		t.Fatalf("expected three metric families, got %d", len(families))
	}
}
