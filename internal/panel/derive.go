package panel

import (
	"sort"
	"strconv"
	"strings"

	"bankpanel/internal/logging"
)

// Derive computes the derived metrics in place and returns the rows sorted
// by (RSSD_ID, Year):
//
//   - BranchEfficiencyPercentile: within-year percentile rank of
//     DepositsPerBranch (average rank of ties, scaled to (0,1])
//   - AssetGrowthYoY: change in TotalAssets vs the bank's previous
//     observation
//   - IsPublicCompany: mirror of Has10K
func Derive(rows []Row) []Row {
	timer := logging.StartTimer(logging.CategoryPanel, "Derive")
	defer timer.Stop()

	sort.Slice(rows, func(i, j int) bool {
		if c := compareRSSD(rows[i].RSSDID, rows[j].RSSDID); c != 0 {
			return c < 0
		}
		return rows[i].Year < rows[j].Year
	})

	rankBranchEfficiency(rows)

	for i := range rows {
		rows[i].IsPublicCompany = rows[i].Has10K

		if i == 0 || rows[i].RSSDID != rows[i-1].RSSDID {
			continue
		}
		prev, cur := rows[i-1].TotalAssets, rows[i].TotalAssets
		if prev == nil || cur == nil || *prev == 0 {
			continue
		}
		growth := (*cur - *prev) / *prev
		rows[i].AssetGrowthYoY = &growth
	}

	return rows
}

// compareRSSD orders RSSD_IDs numerically when both parse as integers, so
// "900" sorts before "10012". Non-numeric identifiers fall back to string
// order after the numeric ones.
func compareRSSD(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// rankBranchEfficiency assigns each row with a DepositsPerBranch value its
// percentile rank within the year. Ties receive the average of the ranks
// they span, so a unique maximum ranks 1.0.
func rankBranchEfficiency(rows []Row) {
	byYear := make(map[int][]int)
	for i := range rows {
		if rows[i].DepositsPerBranch != nil {
			byYear[rows[i].Year] = append(byYear[rows[i].Year], i)
		}
	}

	for _, idxs := range byYear {
		sort.Slice(idxs, func(a, b int) bool {
			return *rows[idxs[a]].DepositsPerBranch < *rows[idxs[b]].DepositsPerBranch
		})

		n := len(idxs)
		for start := 0; start < n; {
			end := start + 1
			for end < n && *rows[idxs[end]].DepositsPerBranch == *rows[idxs[start]].DepositsPerBranch {
				end++
			}
			// 1-based ranks start+1..end, averaged across the tie group.
			avgRank := float64(start+1+end) / 2
			pct := avgRank / float64(n)
			for k := start; k < end; k++ {
				p := pct
				rows[idxs[k]].BranchEfficiencyPercentile = &p
			}
			start = end
		}
	}
}
