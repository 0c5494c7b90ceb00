package roi

import (
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

// WeeklyBucket aggregates the tickets of one period created in one calendar week.
type WeeklyBucket struct {
	WeekStart       string  `json:"week_start"`
	Period          Period  `json:"period"`
	TaskCount       int     `json:"task_count"`
	AvgHoursPerTask float64 `json:"avg_hours_per_task"`
	AvgDays         float64 `json:"avg_days"`
	AvgCost         float64 `json:"avg_cost"`

	// TotalHours is AvgHoursPerTask × TaskCount. It equals the summed hours
	// only when every ticket in the bucket has a duration.
	TotalHours float64 `json:"total_hours"`
}

type bucketKey struct {
	week   time.Time
	period Period
}

type bucketAcc struct {
	count int
	hours []float64
	days  []float64
	costs []float64
}

// TimeSeries buckets tickets by the Monday-anchored week of their creation
// date and period. Tickets without a creation date are not bucketed and
// empty buckets are not emitted.
func (s *AnalysisSession) TimeSeries() []WeeklyBucket {
	buckets := make(map[bucketKey]*bucketAcc)

	for _, t := range s.tickets {
		if t.CreatedAt == nil {
			continue
		}
		k := bucketKey{week: weekStart(*t.CreatedAt), period: t.Period}
		acc, ok := buckets[k]
		if !ok {
			acc = &bucketAcc{}
			buckets[k] = acc
		}
		acc.count++
		if t.HasDuration() {
			acc.hours = append(acc.hours, *t.HoursPerTicket)
			acc.days = append(acc.days, float64(*t.DurationDays))
			acc.costs = append(acc.costs, *t.CostPerTicket)
		}
	}

	keys := make([]bucketKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b bucketKey) int {
		if c := a.week.Compare(b.week); c != 0 {
			return c
		}
		return periodOrder(a.period) - periodOrder(b.period)
	})

	results := make([]WeeklyBucket, 0, len(keys))
	for _, k := range keys {
		acc := buckets[k]
		avgHours := mean(acc.hours)
		results = append(results, WeeklyBucket{
			WeekStart:       k.week.Format(CanonicalDateLayout),
			Period:          k.period,
			TaskCount:       acc.count,
			AvgHoursPerTask: avgHours,
			AvgDays:         mean(acc.days),
			AvgCost:         mean(acc.costs),
			TotalHours:      avgHours * float64(acc.count),
		})
	}

	if len(results) > 0 {
		log.Debug().
			Int("buckets", len(results)).
			Str("first", results[0].WeekStart).
			Str("last", results[len(results)-1].WeekStart).
			Msg("Weekly time series computed")
	}

	return results
}

func periodOrder(p Period) int {
	if p == PeriodPre {
		return 0
	}
	return 1
}
