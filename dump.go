package gamerules

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

type dumpConfig struct {
	withSources bool       // Include source attribution for each rule
	asJSON      bool       // Output as JSON instead of text format
	indent      string     // Indentation for JSON output (default: "  ")
	categories  []Category // Restrict output to these categories
}

// WithSources includes source attribution for each rule in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs rules as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// WithCategories limits the dump to rules in the given categories.
func WithCategories(categories ...Category) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.categories = append(cfg.categories, categories...)
	}
}

// DumpRules writes every rule of rs in name order.
// Returns an error if writing to the writer fails.
func DumpRules(w io.Writer, rs *RuleSet, opts ...DumpOption) error {
	if rs == nil {
		return ErrNilRuleSet
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	rules := collectRules(rs, config.categories)
	if config.asJSON {
		return dumpAsJSON(w, rules, config)
	}
	return dumpAsText(w, rules, config)
}

// ruleData holds information about a single rule for dumping.
type ruleData struct {
	Name       string   `json:"-"`
	Kind       Kind     `json:"kind"`
	Category   Category `json:"category"`
	Value      string   `json:"value"`
	SourceName string   `json:"source,omitempty"`
}

func collectRules(rs *RuleSet, categories []Category) []ruleData {
	allowed := make(map[Category]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}

	var rules []ruleData
	for _, key := range rs.Keys() {
		if len(allowed) > 0 && !allowed[key.Category] {
			continue
		}
		cell := rs.cells[key.Name]
		prov, _ := rs.ProvenanceOf(key.Name)
		rules = append(rules, ruleData{
			Name:       key.Name,
			Kind:       cell.Kind(),
			Category:   key.Category,
			Value:      cell.Serialize(),
			SourceName: prov.SourceName,
		})
	}
	return rules
}

// dumpAsText outputs rules in text format (name: value).
func dumpAsText(w io.Writer, rules []ruleData, config dumpConfig) error {
	for _, rule := range rules {
		line := fmt.Sprintf("%s: %s", rule.Name, displayValue(rule))
		if config.withSources && rule.SourceName != "" {
			line += fmt.Sprintf(" (source: %s)", rule.SourceName)
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

// dumpAsJSON outputs rules as a JSON object keyed by rule name.
func dumpAsJSON(w io.Writer, rules []ruleData, config dumpConfig) error {
	result := make(map[string]ruleData, len(rules))
	for _, rule := range rules {
		if !config.withSources {
			rule.SourceName = ""
		}
		result[rule.Name] = rule
	}

	var (
		data []byte
		err  error
	)
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// displayValue quotes free-form text so empty and padded values stay visible.
func displayValue(rule ruleData) string {
	switch rule.Kind {
	case KindString, KindText, KindEntitySelector:
		return strconv.Quote(rule.Value)
	default:
		return rule.Value
	}
}
