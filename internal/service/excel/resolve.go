package excel

import (
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/jadonco1010/PPTAutomation/internal/fiscal"
	"github.com/jadonco1010/PPTAutomation/internal/model"
)

// rolePatterns builds the candidate regex for each role from the fiscal
// labels. Sheet names shift every month ("M2 Aug Exec View", "Q1 Commit"),
// so the patterns are rebuilt per run.
func rolePatterns(label fiscal.Label) map[model.SheetRole]string {
	return map[model.SheetRole]string{
		model.RoleMarginsScenarios: `^Margins Scenarios$`,
		model.RoleExecView:         fmt.Sprintf(`^%s .*Exec View$`, label.MonthInQuarter),
		model.RoleComparisons:      fmt.Sprintf(`^%s %s .*Comparisons$`, label.Quarter, label.MonthInQuarter),
		model.RoleCommit:           fmt.Sprintf(`^%s Commit$`, label.Quarter),
	}
}

// ResolveSheets selects the source sheet for each semantic role by scanning
// sheetNames in order and taking the first case-insensitive match. A role
// with no matching sheet is reported in Missing and the pipeline continues
// with partial coverage.
func ResolveSheets(sheetNames []string, label fiscal.Label) model.ResolveResult {
	patterns := rolePatterns(label)

	result := model.ResolveResult{
		Sheets: make(map[model.SheetRole]string, len(patterns)),
	}

	for _, role := range model.MatchOrder {
		pattern := patterns[role]
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			log.Error().Err(err).Str("role", string(role)).Str("pattern", pattern).
				Msg("invalid sheet pattern")
			result.Missing = append(result.Missing, role)
			continue
		}

		matched := ""
		for _, name := range sheetNames {
			if re.MatchString(name) {
				matched = name
				break
			}
		}

		if matched == "" {
			log.Warn().Str("role", string(role)).Str("pattern", pattern).
				Msg("no sheet matched role pattern")
			result.Missing = append(result.Missing, role)
			continue
		}

		result.Sheets[role] = matched
		log.Info().Str("role", string(role)).Str("sheet", matched).Msg("resolved sheet")
	}

	return result
}
