// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     formation
// Description: Maps free-text well formations onto a known formation set
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package formation

import (
	"strings"

	"github.com/petroval/wellecon/pkg/core/logging"
)

// DefaultKnownFormations is the standard normalization vocabulary
var DefaultKnownFormations = []string{
	"WOODFORD",
	"MERAMEC",
	"SPRINGER",
	"SYCAMORE",
	"OSAGE",
	"OSWEGO",
	"HOXBAR",
	"MAYES",
	"DES MOINES",
	"MARMATON",
	"CLEVELAND",
	"COTTAGE GROVE",
	"TONKAWA",
}

// Well is the text describing one producing well. Assumption1 and
// Assumption2 are the section's primary and secondary target formations.
type Well struct {
	API         string `json:"api"`
	Name        string `json:"name"`
	Operator    string `json:"operator"`
	Formation   string `json:"formation"`
	Assumption1 string `json:"assumption_1"`
	Assumption2 string `json:"assumption_2"`
}

// Coverage counts how wells were labelled
type Coverage struct {
	Total     int            `json:"total"`
	Unmatched int            `json:"unmatched"`
	ByRule    map[string]int `json:"by_rule"`
}

// rule returns a label or "" when it does not apply
type rule struct {
	name  string
	apply func(w Well) string
}

// Normalizer applies an ordered rule list; the first rule producing a
// non-empty label wins
type Normalizer struct {
	known  map[string]struct{}
	rules  []rule
	logger *logging.Logger
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithLogger sets the logger used for coverage warnings
func WithLogger(l *logging.Logger) Option {
	return func(n *Normalizer) {
		n.logger = l
	}
}

// New creates a normalizer. An empty known list selects DefaultKnownFormations.
func New(known []string, opts ...Option) *Normalizer {
	if len(known) == 0 {
		known = DefaultKnownFormations
	}
	n := &Normalizer{
		known:  make(map[string]struct{}, len(known)),
		logger: logging.Nop(),
	}
	for _, k := range known {
		n.known[clean(k)] = struct{}{}
	}
	for _, opt := range opts {
		opt(n)
	}
	n.rules = n.buildRules()
	return n
}

var mississippian = map[string]struct{}{"SYCAMORE": {}, "SPRINGER": {}, "OSAGE": {}}

func (n *Normalizer) buildRules() []rule {
	return []rule{
		{"known_formation", func(w Well) string {
			if _, ok := n.known[w.Formation]; ok {
				return w.Formation
			}
			return ""
		}},
		{"assumption_1", func(w Well) string {
			return w.Assumption1
		}},
		{"casillas_horizontal", func(w Well) string {
			if strings.Contains(w.Operator, "CASILLAS") && horizontal(w.Name) {
				return "SYCAMORE"
			}
			return ""
		}},
		{"single_mississippian", func(w Well) string {
			if !horizontal(w.Name) {
				return ""
			}
			_, m1 := mississippian[w.Assumption1]
			_, m2 := mississippian[w.Assumption2]
			switch {
			case m1 && !m2:
				return w.Assumption1
			case m2 && !m1:
				return w.Assumption2
			}
			return ""
		}},
		{"contains_woodford", func(w Well) string {
			if strings.Contains(w.Formation, "WOODFORD") {
				return "WOODFORD"
			}
			return ""
		}},
		{"oea_operator", func(w Well) string {
			if strings.Contains(w.Operator, "OKLAHOMA ENERGY ACQUISITIONS") {
				return "OSAGE"
			}
			return ""
		}},
		{"meramec_miss", func(w Well) string {
			if (w.Assumption1 == "MERAMEC" || w.Assumption2 == "MERAMEC") && strings.Contains(w.Formation, "MISS") {
				return "MERAMEC"
			}
			return ""
		}},
		{"contains_springer", func(w Well) string {
			if strings.Contains(w.Formation, "SPRINGER") || strings.Contains(w.Formation, "GODDARD") {
				return "SPRINGER"
			}
			return ""
		}},
		{"oswego_secondary", func(w Well) string {
			if w.Assumption1 == "OSWEGO" {
				return w.Assumption2
			}
			return ""
		}},
		{"woodford_secondary", func(w Well) string {
			if w.Assumption1 == "WOODFORD" {
				return w.Assumption2
			}
			return ""
		}},
	}
}

// horizontal reports whether a well name marks a horizontal completion
func horizontal(name string) bool {
	return strings.Contains(name, "MXH") || strings.Contains(name, "MH")
}

func clean(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Label returns the normalized formation of w and the rule that produced it.
// Both are empty when no rule matches.
func (n *Normalizer) Label(w Well) (label, ruleName string) {
	w = Well{
		API:         w.API,
		Name:        clean(w.Name),
		Operator:    clean(w.Operator),
		Formation:   clean(w.Formation),
		Assumption1: clean(w.Assumption1),
		Assumption2: clean(w.Assumption2),
	}
	for _, r := range n.rules {
		if l := r.apply(w); l != "" {
			return l, r.name
		}
	}
	return "", ""
}

// Normalize labels every well. Unlabelled wells get "".
func (n *Normalizer) Normalize(wells []Well) ([]string, Coverage) {
	labels, _, cov := n.NormalizeRules(wells)
	return labels, cov
}

// NormalizeRules is Normalize that also returns, per well, the name of the
// rule that produced its label
func (n *Normalizer) NormalizeRules(wells []Well) (labels, rules []string, cov Coverage) {
	labels = make([]string, len(wells))
	rules = make([]string, len(wells))
	cov = Coverage{Total: len(wells), ByRule: make(map[string]int)}
	for i, w := range wells {
		l, r := n.Label(w)
		labels[i], rules[i] = l, r
		if l == "" {
			cov.Unmatched++
			continue
		}
		cov.ByRule[r]++
	}
	if cov.Unmatched > 0 {
		n.logger.Warn("wells have no normalized formation",
			"unmatched", cov.Unmatched,
			"total", cov.Total,
		)
	}
	return labels, rules, cov
}

// Rules lists rule names in evaluation order
func (n *Normalizer) Rules() []string {
	names := make([]string, len(n.rules))
	for i, r := range n.rules {
		names[i] = r.name
	}
	return names
}
