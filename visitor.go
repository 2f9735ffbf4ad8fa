package gamerules

import "github.com/Azhovan/gamerules/selector"

// Visitor receives one call per rule, typed by the rule's kind. Settings
// screens use it to pick a widget per kind.
type Visitor interface {
	VisitBool(key Key, rule *Rule[bool])
	VisitInt(key Key, rule *Rule[int32])
	VisitLong(key Key, rule *Rule[int64])
	VisitFloat(key Key, rule *Rule[float32])
	VisitDouble(key Key, rule *Rule[float64])
	VisitString(key Key, rule *Rule[string])
	VisitText(key Key, rule *Rule[string])
	// VisitEnum receives the kind-erased cell; Names lists the cycle order.
	VisitEnum(key Key, rule Cell)
	VisitEntitySelector(key Key, rule *Rule[selector.Selector])
}

// BaseVisitor implements every Visitor method as a no-op. Embed it to handle
// only some kinds.
type BaseVisitor struct{}

func (BaseVisitor) VisitBool(Key, *Rule[bool]) {}
func (BaseVisitor) VisitInt(Key, *Rule[int32]) {}
func (BaseVisitor) VisitLong(Key, *Rule[int64]) {}
func (BaseVisitor) VisitFloat(Key, *Rule[float32]) {}
func (BaseVisitor) VisitDouble(Key, *Rule[float64]) {}
func (BaseVisitor) VisitString(Key, *Rule[string]) {}
func (BaseVisitor) VisitText(Key, *Rule[string]) {}
func (BaseVisitor) VisitEnum(Key, Cell) {}
func (BaseVisitor) VisitEntitySelector(Key, *Rule[selector.Selector]) {}

// Visit dispatches cell to the Visitor method for its kind. Cells built from
// a custom codec whose value type does not match its kind are skipped and
// Visit reports false.
func Visit(key Key, cell Cell, v Visitor) bool {
	switch cell.Kind() {
	case KindBool:
		if r, ok := cell.(*Rule[bool]); ok {
			v.VisitBool(key, r)
			return true
		}
	case KindInt:
		if r, ok := cell.(*Rule[int32]); ok {
			v.VisitInt(key, r)
			return true
		}
	case KindLong:
		if r, ok := cell.(*Rule[int64]); ok {
			v.VisitLong(key, r)
			return true
		}
	case KindFloat:
		if r, ok := cell.(*Rule[float32]); ok {
			v.VisitFloat(key, r)
			return true
		}
	case KindDouble:
		if r, ok := cell.(*Rule[float64]); ok {
			v.VisitDouble(key, r)
			return true
		}
	case KindString:
		if r, ok := cell.(*Rule[string]); ok {
			v.VisitString(key, r)
			return true
		}
	case KindText:
		if r, ok := cell.(*Rule[string]); ok {
			v.VisitText(key, r)
			return true
		}
	case KindEnum:
		v.VisitEnum(key, cell)
		return true
	case KindEntitySelector:
		if r, ok := cell.(*Rule[selector.Selector]); ok {
			v.VisitEntitySelector(key, r)
			return true
		}
	}
	logger.Debug("skipping rule with mismatched kind", "rule", key.Name, "kind", cell.Kind())
	return false
}

// Walk visits every rule in name order.
func (rs *RuleSet) Walk(v Visitor) {
	for _, key := range rs.Keys() {
		Visit(key, rs.cells[key.Name], v)
	}
}
