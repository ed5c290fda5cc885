// Package query evaluates declarative predicates against decoded records.
//
// A predicate maps a field name either to a literal, meaning equality, or to
// an operator expression:
//
//	{"name": "Ford Prefect"}
//	{"name": {"equals": "Ford Prefect"}}
//	{"age": {"gt": 40, "lt": 60}}
//	{"$or": [{"name": "Arthur Dent"}, {"name": "Ford Prefect"}]}
//
// A map value is always an operator expression, every key must be an
// operator. Comparing against an object literal goes through equals:
//
//	{"address": {"equals": {"city": "Cottington"}}}
//
// Predicates are normalized to their JSON decoded form before matching, so
// Go integers compare equal to the float64 numbers read from disk.
//
// Matching itself is delegated to connor.
package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/SierraSoftworks/connor"
	"github.com/go-json-experiment/json"
)

var ErrUnsupportedOperator = errors.New("unsupported operator")
var ErrInvalidPredicate = errors.New("invalid predicate")

var operators = map[string]string{
	"equals":    "$eq",
	"eq":        "$eq",
	"$eq":       "$eq",
	"ne":        "$ne",
	"$ne":       "$ne",
	"gt":        "$gt",
	"$gt":       "$gt",
	"gte":       "$ge",
	"ge":        "$ge",
	"$ge":       "$ge",
	"lt":        "$lt",
	"$lt":       "$lt",
	"lte":       "$le",
	"le":        "$le",
	"$le":       "$le",
	"in":        "$in",
	"$in":       "$in",
	"nin":       "$nin",
	"$nin":      "$nin",
	"contains":  "$contains",
	"$contains": "$contains",
}

var logical = map[string]string{
	"and":  "$and",
	"$and": "$and",
	"or":   "$or",
	"$or":  "$or",
}

// Operators returns the accepted operator spellings, sorted.
func Operators() []string {
	names := make([]string, 0, len(operators))
	for name := range operators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Query struct {
	conditions map[string]any
}

// Compile validates a predicate. A nil or empty predicate matches everything.
func Compile(predicate map[string]any) (*Query, error) {

	if len(predicate) == 0 {
		return &Query{}, nil
	}

	decoded, err := remarshal(predicate)
	if err != nil {
		return nil, err
	}

	conditions, err := normalize(decoded)
	if err != nil {
		return nil, err
	}

	return &Query{conditions: conditions}, nil
}

// remarshal turns any Go value accepted by the JSON encoder into its decoded
// form: maps, []any, float64, string, bool and nil.
func remarshal(predicate map[string]any) (map[string]any, error) {

	data, err := json.Marshal(predicate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPredicate, err)
	}

	decoded := map[string]any{}
	err = json.Unmarshal(data, &decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPredicate, err)
	}

	return decoded, nil
}

func normalize(predicate map[string]any) (map[string]any, error) {

	conditions := make(map[string]any, len(predicate))

	for field, value := range predicate {

		if op, ok := logical[field]; ok {
			branches, err := normalizeBranches(field, value)
			if err != nil {
				return nil, err
			}
			conditions[op] = branches
			continue
		}

		if strings.HasPrefix(field, "$") {
			return nil, fmt.Errorf("%w '%s' at top level, must be one of [and|or]", ErrUnsupportedOperator, field)
		}

		expression, isExpression := value.(map[string]any)
		if !isExpression {
			conditions[field] = value
			continue
		}

		if len(expression) == 0 {
			return nil, fmt.Errorf("%w: empty expression for field '%s'", ErrUnsupportedOperator, field)
		}

		normalized := make(map[string]any, len(expression))
		for name, argument := range expression {
			op, ok := operators[name]
			if !ok {
				return nil, fmt.Errorf("%w '%s' for field '%s', must be one of [%s]", ErrUnsupportedOperator, name, field, strings.Join(Operators(), "|"))
			}
			normalized[op] = argument
		}
		conditions[field] = normalized
	}

	return conditions, nil
}

func normalizeBranches(op string, value any) ([]any, error) {

	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: '%s' expects a list of predicates", ErrUnsupportedOperator, op)
	}

	branches := make([]any, 0, len(list))
	for _, item := range list {
		branch, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: '%s' expects a list of predicates", ErrUnsupportedOperator, op)
		}
		normalized, err := normalize(branch)
		if err != nil {
			return nil, err
		}
		branches = append(branches, normalized)
	}

	return branches, nil
}

// Empty reports whether q matches every record.
func (q *Query) Empty() bool {
	return q == nil || len(q.conditions) == 0
}

func (q *Query) Match(attributes map[string]any) (bool, error) {
	if q.Empty() {
		return true, nil
	}

	match, err := connor.Match(q.conditions, attributes)
	if err != nil {
		return false, fmt.Errorf("match: %w", err)
	}

	return match, nil
}

// Filter keeps the items whose attributes match q, preserving their order.
func Filter[T any](items []T, attributes func(T) map[string]any, q *Query) ([]T, error) {

	if q.Empty() {
		return items, nil
	}

	result := make([]T, 0, len(items))
	for _, item := range items {
		match, err := q.Match(attributes(item))
		if err != nil {
			return nil, err
		}
		if match {
			result = append(result, item)
		}
	}

	return result, nil
}
