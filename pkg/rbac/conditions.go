package rbac

import (
	"reflect"
	"sync"
	"time"
)

// Environment carries request-time signals conditions may inspect. The zero
// value is valid: a missing clock falls back to time.Now and a missing
// client IP makes ipWhitelist conditions pass (fail-open on missing signal;
// callers needing strict IP enforcement must supply it).
type Environment struct {
	ClientIP string
	Now      time.Time
}

func (e Environment) now() time.Time {
	if e.Now.IsZero() {
		return time.Now()
	}
	return e.Now
}

// ConditionInput is everything a condition evaluator may look at.
type ConditionInput struct {
	User     UserContext
	Resource ResourceContext
	Action   Action
	Env      Environment
}

// ConditionEvaluator decides whether one condition value passes for the
// given input. Evaluators must be pure and must not mutate the input.
type ConditionEvaluator func(value any, in ConditionInput) bool

// Built-in condition keys.
const (
	ConditionTimeOfDay          = "timeOfDay"
	ConditionIPWhitelist        = "ipWhitelist"
	ConditionUserAttributes     = "userAttributes"
	ConditionResourceAttributes = "resourceAttributes"
)

// conditionRegistry maps condition keys to their evaluators. Keys not in
// the registry are ignored during evaluation, which keeps old engines
// forward-compatible with newer permission documents.
var conditionRegistry = struct {
	mu         sync.RWMutex
	evaluators map[string]ConditionEvaluator
}{
	evaluators: map[string]ConditionEvaluator{
		ConditionTimeOfDay:          evaluateTimeOfDay,
		ConditionIPWhitelist:        evaluateIPWhitelist,
		ConditionUserAttributes:     evaluateUserAttributes,
		ConditionResourceAttributes: evaluateResourceAttributes,
	},
}

// RegisterCondition installs an evaluator for a condition key, replacing
// any existing one. Registration is expected at startup, before checks run.
func RegisterCondition(key string, eval ConditionEvaluator) {
	if key == "" || eval == nil {
		return
	}
	conditionRegistry.mu.Lock()
	defer conditionRegistry.mu.Unlock()
	conditionRegistry.evaluators[key] = eval
}

// EvaluateConditions reports whether every recognized condition in conds
// passes for the given input. Semantics are AND across conditions; unknown
// keys are skipped. A nil or empty map always passes.
func EvaluateConditions(conds Attributes, in ConditionInput) bool {
	if len(conds) == 0 {
		return true
	}

	conditionRegistry.mu.RLock()
	defer conditionRegistry.mu.RUnlock()

	for key, value := range conds {
		eval, ok := conditionRegistry.evaluators[key]
		if !ok {
			continue
		}
		if !eval(value, in) {
			return false
		}
	}
	return true
}

// evaluateTimeOfDay passes when the current hour falls within the inclusive
// [start, end] window. Absent bounds pass, so {start: 9} means "9:00 or
// later" and an empty window always passes.
func evaluateTimeOfDay(value any, in ConditionInput) bool {
	window, ok := asAttributeMap(value)
	if !ok {
		return false
	}

	hour := in.Env.now().Hour()
	if start, ok := asInt(window["start"]); ok && hour < start {
		return false
	}
	if end, ok := asInt(window["end"]); ok && hour > end {
		return false
	}
	return true
}

// evaluateIPWhitelist passes when the client IP is in the allowed list.
// With no client IP in the environment the condition passes.
func evaluateIPWhitelist(value any, in ConditionInput) bool {
	if in.Env.ClientIP == "" {
		return true
	}

	allowed, ok := asStringSlice(value)
	if !ok {
		return false
	}
	for _, ip := range allowed {
		if ip == in.Env.ClientIP {
			return true
		}
	}
	return false
}

// evaluateUserAttributes passes when every required attribute equals the
// corresponding value in the user's context map.
func evaluateUserAttributes(value any, in ConditionInput) bool {
	required, ok := asAttributeMap(value)
	if !ok {
		return false
	}
	for key, want := range required {
		got, present := in.User.Context[key]
		if !present || !valuesEqual(want, got) {
			return false
		}
	}
	return true
}

// evaluateResourceAttributes passes when every required attribute equals
// the corresponding value in the resource's attribute map.
func evaluateResourceAttributes(value any, in ConditionInput) bool {
	required, ok := asAttributeMap(value)
	if !ok {
		return false
	}
	for key, want := range required {
		got, present := in.Resource.Attributes[key]
		if !present || !valuesEqual(want, got) {
			return false
		}
	}
	return true
}

// asAttributeMap normalizes the map shapes produced by hand-written Go,
// encoding/json and yaml.v3 decoding.
func asAttributeMap(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case Attributes:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

func asStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			result = append(result, s)
		}
		return result, true
	default:
		return nil, false
	}
}

func asInt(value any) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// valuesEqual compares attribute values across the numeric representations
// different decoders produce for the same document.
func valuesEqual(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
