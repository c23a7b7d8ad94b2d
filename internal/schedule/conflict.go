package schedule

// ConflictKind classifies a scheduling conflict.
type ConflictKind string

const (
	ResourceConflict    ConflictKind = "resource_conflict"
	PrecedenceViolation ConflictKind = "precedence_violation"
	CapacityOverload    ConflictKind = "capacity_overload"
	DeadlineMissed      ConflictKind = "deadline_missed"
)

// ConflictKinds lists the four kinds in display order.
func ConflictKinds() []ConflictKind {
	return []ConflictKind{ResourceConflict, PrecedenceViolation, CapacityOverload, DeadlineMissed}
}

// Severity ranks conflicts. The order is total: low < medium < high.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

// String returns the wire/display name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// Conflict is a detected scheduling issue for one candidate placement.
// Conflicts are always derived, never persisted: a conflict list is valid
// only for the placement that produced it.
type Conflict struct {
	Kind                ConflictKind
	Severity            Severity
	Description         string
	AffectedOperations  []int64
	SuggestedResolution string
}

// Worst returns the highest-severity conflict. Ties keep the first
// encountered. ok is false for an empty list.
func Worst(conflicts []Conflict) (worst Conflict, ok bool) {
	for i, c := range conflicts {
		if i == 0 || c.Severity > worst.Severity {
			worst = c
			ok = true
		}
	}
	return worst, ok
}

// GroupByKind buckets conflicts into the four fixed kinds, preserving
// input order within each bucket.
func GroupByKind(conflicts []Conflict) map[ConflictKind][]Conflict {
	groups := make(map[ConflictKind][]Conflict)
	for _, c := range conflicts {
		groups[c.Kind] = append(groups[c.Kind], c)
	}
	return groups
}

// ResolutionActions returns the default resolution affordances for a kind.
// These are presentation hints only; invoking one is delegated to the
// planning layer, never automated here.
func (k ConflictKind) ResolutionActions() []string {
	switch k {
	case ResourceConflict:
		return []string{"Split earlier", "Delay later", "Reassign machine"}
	case PrecedenceViolation:
		return []string{"Reschedule successor", "Advance predecessor"}
	case CapacityOverload:
		return []string{"Spread to available capacity", "Reschedule off-peak"}
	case DeadlineMissed:
		return []string{"Manual resolution required"}
	default:
		return []string{"Manual resolution required"}
	}
}

// MergeConflicts unions the synchronous local result with an authoritative
// result. Local conflicts come first so the badge stays stable while a
// validation round trip is in flight.
func MergeConflicts(local, authoritative []Conflict) []Conflict {
	if len(authoritative) == 0 {
		return local
	}
	merged := make([]Conflict, 0, len(local)+len(authoritative))
	merged = append(merged, local...)
	seen := make(map[string]bool, len(local))
	for _, c := range local {
		seen[string(c.Kind)+"|"+c.Description] = true
	}
	for _, c := range authoritative {
		if seen[string(c.Kind)+"|"+c.Description] {
			continue
		}
		merged = append(merged, c)
	}
	return merged
}
