package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Stats is a point-in-time reading of the session collectors.
type Stats struct {
	Added           int
	AddedByCategory map[string]int
	Removed         int
	Expenses        int
	SpendCents      int64
	Version         uint64
	CacheHits       int
	CacheMisses     int
}

// ReadStats gathers g and picks out the collectors registered by New.
func ReadStats(g prometheus.Gatherer) (Stats, error) {
	families, err := g.Gather()
	if err != nil {
		return Stats{}, fmt.Errorf("gather metrics: %w", err)
	}

	st := Stats{AddedByCategory: make(map[string]int)}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch mf.GetName() {
			case namespace + "_store_expenses_added_total":
				n := int(m.GetCounter().GetValue())
				st.Added += n
				st.AddedByCategory[labelValue(m.GetLabel(), "category")] += n
			case namespace + "_store_expenses_removed_total":
				st.Removed += int(m.GetCounter().GetValue())
			case namespace + "_store_expenses":
				st.Expenses = int(m.GetGauge().GetValue())
			case namespace + "_store_spend_cents":
				st.SpendCents = int64(m.GetGauge().GetValue())
			case namespace + "_store_version":
				st.Version = uint64(m.GetGauge().GetValue())
			case namespace + "_dashboard_cache_lookups_total":
				switch labelValue(m.GetLabel(), "result") {
				case "hit":
					st.CacheHits += int(m.GetCounter().GetValue())
				case "miss":
					st.CacheMisses += int(m.GetCounter().GetValue())
				}
			}
		}
	}
	return st, nil
}

func labelValue(labels []*dto.LabelPair, name string) string {
	for _, l := range labels {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}
