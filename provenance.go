package gamerules

import "sort"

// Source names recorded in provenance for the built-in entry points.
const (
	SourceInitial  = "initial"
	SourceCommand  = "command"
	SourceSnapshot = "snapshot"
)

// Provenance lists where each rule's committed value came from.
// Rules still holding their initial value are omitted.
type Provenance struct {
	Rules []RuleProvenance `json:"rules"`
}

// RuleProvenance describes the last source that committed a rule.
type RuleProvenance struct {
	Rule       string `json:"rule"`        // Registered rule name (e.g., "doFireTick")
	KeyPath    string `json:"key_path"`    // Key as written in the source (e.g., "dofiretick")
	SourceName string `json:"source_name"` // Source identifier (e.g., "env:GAMERULE_DOFIRETICK")
}

// Provenance returns a sorted copy of the set's provenance.
func (rs *RuleSet) Provenance() *Provenance {
	prov := &Provenance{Rules: make([]RuleProvenance, 0, len(rs.provenance))}
	for _, p := range rs.provenance {
		prov.Rules = append(prov.Rules, p)
	}
	sort.Slice(prov.Rules, func(i, j int) bool { return prov.Rules[i].Rule < prov.Rules[j].Rule })
	return prov
}

// ProvenanceOf returns where the named rule's value came from. Rules that
// were never committed through a tracked entry point report SourceInitial.
func (rs *RuleSet) ProvenanceOf(name string) (RuleProvenance, bool) {
	if _, ok := rs.cells[name]; !ok {
		return RuleProvenance{}, false
	}
	if p, ok := rs.provenance[name]; ok {
		return p, true
	}
	return RuleProvenance{Rule: name, KeyPath: name, SourceName: SourceInitial}, true
}

func (rs *RuleSet) record(rule, keyPath, source string) {
	rs.provenance[rule] = RuleProvenance{Rule: rule, KeyPath: keyPath, SourceName: source}
}
