// Package match builds the CIK-RSSD crosswalk by fuzzy-matching FFIEC bank
// names against Edgar company names. The scoring is a token-sort ratio from
// an existing fuzzy-matching library; this package only cleans names and
// applies the acceptance threshold.
package match

import (
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"bankpanel/internal/logging"
)

// DefaultThreshold is the minimum token-sort similarity (inclusive) for a
// match to be accepted.
const DefaultThreshold = 80

// Entity is one named record on either side of the match: a registry bank
// (ID = RSSD_ID) or an Edgar company (ID = CIK).
type Entity struct {
	ID   string
	Name string
}

// Mapping links an Edgar CIK to an FFIEC RSSD_ID via a name match.
type Mapping struct {
	CIK       string
	RSSDID    string
	EdgarName string
	FFIECName string
	Score     int
}

// removeTerms strips the regulatory suffixes and noise that differ between
// the FFIEC and Edgar renderings of the same institution's name.
var removeTerms = []*regexp.Regexp{
	regexp.MustCompile(`\bNA\b`),
	regexp.MustCompile(`\bN\.A\.?\b`),
	regexp.MustCompile(`\bFSB\b`),
	regexp.MustCompile(`\bF\.S\.B\.?\b`),
	regexp.MustCompile(`\bSSB\b`),
	regexp.MustCompile(`\bS\.S\.B\.?\b`),
	regexp.MustCompile(`\bNATIONAL ASSOCIATION\b`),
	regexp.MustCompile(`\bFEDERAL SAVINGS BANK\b`),
	regexp.MustCompile(`\bSAVINGS BANK\b`),
	regexp.MustCompile(`\bBANK\b`),
	regexp.MustCompile(`\bCOMPANY\b`),
	regexp.MustCompile(`\bCORP\b`),
	regexp.MustCompile(`\bCORPORATION\b`),
	regexp.MustCompile(`\bINC\b`),
	regexp.MustCompile(`\bINCORPORATED\b`),
	regexp.MustCompile(`\bLTD\b`),
	regexp.MustCompile(`\bLIMITED\b`),
	regexp.MustCompile(`\bTHE\b`),
	regexp.MustCompile(`[&.,\-]`),
}

// CleanName standardizes a bank name for matching: uppercase, regulatory
// suffixes removed, whitespace collapsed.
func CleanName(name string) string {
	name = strings.ToUpper(name)
	for _, re := range removeTerms {
		name = re.ReplaceAllString(name, " ")
	}
	return strings.Join(strings.Fields(name), " ")
}

// BuildMapping matches each registry bank against the Edgar company list and
// returns the accepted pairs. Entities whose cleaned name is empty are
// excluded on both sides. For each bank the single best-scoring company is
// considered; it is accepted when its score is >= threshold.
//
// This is O(banks x companies) token-sort comparisons, the same brute-force
// scan the source methodology uses. progressEvery > 0 logs a progress line
// every that many banks.
func BuildMapping(banks, companies []Entity, threshold, progressEvery int) []Mapping {
	timer := logging.StartTimer(logging.CategoryMatch, "BuildMapping")
	defer timer.StopWithInfo()

	log := logging.Get(logging.CategoryMatch)

	type cleaned struct {
		Entity
		clean string
	}
	candidates := make([]cleaned, 0, len(companies))
	for _, c := range companies {
		if clean := CleanName(c.Name); clean != "" {
			candidates = append(candidates, cleaned{c, clean})
		}
	}
	log.Info("matching %d banks against %d companies (threshold %d)", len(banks), len(candidates), threshold)

	var mappings []Mapping
	processed := 0
	for _, bank := range banks {
		bankClean := CleanName(bank.Name)
		if bankClean == "" {
			continue
		}

		best := -1
		bestScore := 0
		for i, c := range candidates {
			score := fuzzy.TokenSortRatio(bankClean, c.clean)
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		if best >= 0 && bestScore >= threshold {
			mappings = append(mappings, Mapping{
				CIK:       candidates[best].ID,
				RSSDID:    bank.ID,
				EdgarName: candidates[best].Name,
				FFIECName: bank.Name,
				Score:     bestScore,
			})
		}

		processed++
		if progressEvery > 0 && processed%progressEvery == 0 {
			log.Info("processed %d/%d banks, %d matches so far", processed, len(banks), len(mappings))
		}
	}

	log.Info("built %d CIK-RSSD mappings (%.1f%% of banks)", len(mappings), matchRate(len(mappings), len(banks)))
	return mappings
}

func matchRate(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(matched) / float64(total)
}

// ByCIK indexes a mapping slice by CIK. A holding company can file for
// several charters, so one CIK may map to multiple RSSD_IDs.
func ByCIK(mappings []Mapping) map[string][]Mapping {
	m := make(map[string][]Mapping, len(mappings))
	for _, mp := range mappings {
		m[mp.CIK] = append(m[mp.CIK], mp)
	}
	return m
}
