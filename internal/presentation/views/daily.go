package views

import (
	"sort"
	"strings"
	"time"

	"github.com/aretw0/portnet/pkg/domain"
	"github.com/spf13/cast"
)

// DailyCount is the number of visits starting on one UTC day.
type DailyCount struct {
	Day        time.Time `json:"day"`
	PortVisits int       `json:"port_visits"`
}

// DailyVisits counts raw records per UTC day of their start, optionally for one port.
// Records without a readable start or a port id are ignored. Days are ascending and
// days without visits are omitted.
func DailyVisits(records []domain.RawRecord, portID string) []DailyCount {
	counts := make(map[time.Time]int)
	for _, r := range records {
		pid := strings.TrimSpace(cast.ToString(r.Get(domain.KeyPortID)))
		if pid == "" {
			continue
		}
		if portID != "" && pid != portID {
			continue
		}
		raw := r.Get(domain.KeyStart)
		if raw == nil {
			continue
		}
		start, err := cast.ToTimeE(raw)
		if err != nil || start.IsZero() {
			continue
		}
		counts[start.UTC().Truncate(24*time.Hour)]++
	}

	out := make([]DailyCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DailyCount{Day: day, PortVisits: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}
