package model

// SheetRole identifies one of the fixed semantic roles a source sheet can
// play in the report.
type SheetRole string

const (
	RoleMarginsScenarios SheetRole = "margins_scenarios"
	RoleExecView         SheetRole = "exec_view"
	RoleComparisons      SheetRole = "comparisons"
	RoleCommit           SheetRole = "commit"
)

// MatchOrder is the order roles are matched against sheet names.
var MatchOrder = []SheetRole{
	RoleMarginsScenarios,
	RoleExecView,
	RoleComparisons,
	RoleCommit,
}

// FlattenOrder is the canonical role order used when flattening tables into
// the positional index consumed by the deck filler.
var FlattenOrder = []SheetRole{
	RoleExecView,
	RoleComparisons,
	RoleCommit,
	RoleMarginsScenarios,
}

// ResolveResult maps each role to the sheet name that matched it. Roles with
// no matching sheet are listed in Missing; the pipeline continues with the
// roles that did resolve.
type ResolveResult struct {
	Sheets  map[SheetRole]string
	Missing []SheetRole
}

// Complete reports whether every role resolved to a sheet.
func (r ResolveResult) Complete() bool {
	return len(r.Missing) == 0
}

// OrderedSheets returns the resolved sheet names in canonical flatten order,
// omitting missing roles.
func (r ResolveResult) OrderedSheets() []string {
	out := make([]string, 0, len(r.Sheets))
	for _, role := range FlattenOrder {
		if name, ok := r.Sheets[role]; ok {
			out = append(out, name)
		}
	}
	return out
}

// RoleFor returns the role a resolved sheet name was selected for.
func (r ResolveResult) RoleFor(sheetName string) (SheetRole, bool) {
	for role, name := range r.Sheets {
		if name == sheetName {
			return role, true
		}
	}
	return "", false
}

// Region is one rectangular cell range, e.g. {"C3", "E13"}.
type Region struct {
	Start string
	End   string
}

// RoleRegions returns the fixed list of table regions extracted for a role.
// The lists are positional: placeholder prefixes downstream are assigned by
// region order within the canonical role order.
func RoleRegions(role SheetRole) []Region {
	return roleRegions[role]
}

var roleRegions = map[SheetRole][]Region{
	RoleExecView: {
		{"C3", "E13"}, {"F3", "F13"},
		{"C18", "E24"}, {"F18", "F24"}, {"H18", "H18"}, {"H20", "H22"},
		{"C29", "E36"}, {"F29", "F36"}, {"H29", "H29"}, {"H31", "H33"},
		{"K3", "K3"}, {"K4", "N13"}, {"O3", "O3"}, {"R4", "R13"},
		{"S3", "S3"}, {"V4", "V13"}, {"W3", "W3"}, {"W4", "W13"},
	},
	RoleComparisons: {
		{"K3", "K3"}, {"K4", "N13"}, {"S3", "S13"}, {"T3", "T3"},
		{"W4", "W13"}, {"X3", "X13"}, {"AC3", "AC13"}, {"AD3", "AD3"},
		{"AG4", "AG13"}, {"AH3", "AH13"}, {"AM3", "AM13"}, {"AN3", "AN3"},
		{"AQ4", "AQ13"}, {"AR3", "AR13"},
	},
	RoleCommit: {
		{"C3", "C3"}, {"C4", "F13"}, {"G3", "G3"}, {"J4", "J13"},
		{"K3", "K3"}, {"N4", "N13"}, {"O3", "O3"}, {"R4", "R13"},
		{"S3", "S3"}, {"V4", "V13"},
	},
	RoleMarginsScenarios: {
		{"B15", "B15"}, {"B16", "G19"}, {"B20", "G20"}, {"B25", "B25"},
		{"B26", "G29"}, {"B30", "G30"}, {"B32", "B32"}, {"B33", "G36"},
		{"B37", "G37"}, {"B39", "B39"}, {"B40", "G43"}, {"B44", "G44"},
		{"B46", "B46"}, {"B47", "G50"}, {"B51", "G51"}, {"I39", "I39"},
		{"I40", "N43"}, {"I44", "N44"},
	},
}
