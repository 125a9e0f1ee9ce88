package stats

import (
	"sort"

	"github.com/jakechorley/exam-invigilation/pkg/core/allocator"
	"github.com/jakechorley/exam-invigilation/pkg/core/model"
)

// Summary describes how evenly supervision was spread across the teacher pool
type Summary struct {
	Teachers  int
	MinTotal  int
	MaxTotal  int
	Spread    int // MaxTotal - MinTotal
	MeanTotal float64

	// Idle lists teachers who supervised nothing, in input order
	Idle []string
}

// Aggregate folds the final per-teacher counters into statistics rows, in roster order
func Aggregate(invigilators []*allocator.Invigilator) []model.StatisticsRow {
	rows := make([]model.StatisticsRow, 0, len(invigilators))
	for _, inv := range invigilators {
		rows = append(rows, model.StatisticsRow{
			Teacher:   inv.Name(),
			Primary:   inv.PrimaryCount,
			Secondary: inv.SecondaryCount,
			Total:     inv.TotalCount(),
		})
	}
	return rows
}

// SortByTotal orders rows by total descending, then by teacher name for a stable presentation
func SortByTotal(rows []model.StatisticsRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Teacher < rows[j].Teacher
	})
}

// Summarize computes the spread of total supervision counts
func Summarize(rows []model.StatisticsRow) Summary {
	summary := Summary{
		Teachers: len(rows),
		Idle:     []string{},
	}
	if len(rows) == 0 {
		return summary
	}

	summary.MinTotal = rows[0].Total
	summary.MaxTotal = rows[0].Total
	sum := 0
	for _, row := range rows {
		summary.MinTotal = min(summary.MinTotal, row.Total)
		summary.MaxTotal = max(summary.MaxTotal, row.Total)
		sum += row.Total
		if row.Total == 0 {
			summary.Idle = append(summary.Idle, row.Teacher)
		}
	}
	summary.Spread = summary.MaxTotal - summary.MinTotal
	summary.MeanTotal = float64(sum) / float64(len(rows))

	return summary
}
