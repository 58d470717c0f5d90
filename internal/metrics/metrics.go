// Package metrics provides application-level counters using stdlib expvar.
// Counters are automatically exported on the /debug/vars HTTP endpoint
// when net/http/pprof is imported in the main binary.
package metrics

import "expvar"

// Operation counters.
var (
	SearchTotal                = expvar.NewInt("talentgraph_search_total")
	ConsultantsCreated         = expvar.NewInt("talentgraph_consultants_created_total")
	AssignmentsCreated         = expvar.NewInt("talentgraph_assignments_created_total")
	AssignmentsDeactivated     = expvar.NewInt("talentgraph_assignments_deactivated_total")
	AssignmentsRemoved         = expvar.NewInt("talentgraph_assignments_removed_total")
	AvailabilityRecomputations = expvar.NewInt("talentgraph_availability_recompute_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }
