package service

// PlanCutoverYear is the year the collector plan data moved from the legacy
// precomputed reports to the current target-based source. Fixed system
// constant, not configuration.
const PlanCutoverYear = 2026

// PlanRoute is the outcome of routing a report request between the legacy
// and current plan sources
type PlanRoute struct {
	OldYears     []int
	NewYears     []int
	DefaultIsNew bool
}

// SpansBoth reports whether the request needs both sources
func (r PlanRoute) SpansBoth() bool {
	return len(r.OldYears) > 0 && len(r.NewYears) > 0
}

// RoutePlanYears partitions requested years around the cutover. With no year
// filter, the current year alone decides the source.
func RoutePlanYears(requestedYears []int, currentYear int) PlanRoute {
	if len(requestedYears) == 0 {
		return PlanRoute{DefaultIsNew: currentYear >= PlanCutoverYear}
	}

	route := PlanRoute{}
	for _, year := range requestedYears {
		if year < PlanCutoverYear {
			route.OldYears = append(route.OldYears, year)
		} else {
			route.NewYears = append(route.NewYears, year)
		}
	}
	route.DefaultIsNew = len(route.NewYears) > 0 && len(route.OldYears) == 0
	return route
}
