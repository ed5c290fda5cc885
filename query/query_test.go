package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	id    string
	attrs map[string]any
}

func attrs(p person) map[string]any {
	return p.attrs
}

var people = []person{
	{"1", map[string]any{"name": "Arthur Dent", "age": float64(42), "tags": []any{"human"}, "address": map[string]any{"city": "Cottington"}}},
	{"2", map[string]any{"name": "Ford Prefect", "age": float64(200), "tags": []any{"betelgeusian", "writer"}}},
	{"3", map[string]any{"name": "Zaphod Beeblebrox", "age": float64(200)}},
}

func ids(items []person) []string {
	result := []string{}
	for _, item := range items {
		result = append(result, item.id)
	}
	return result
}

func TestFilter(t *testing.T) {

	cases := []struct {
		name      string
		predicate map[string]any
		expected  []string
	}{
		{"nil predicate", nil, []string{"1", "2", "3"}},
		{"empty predicate", map[string]any{}, []string{"1", "2", "3"}},
		{"literal equality", map[string]any{"name": "Arthur Dent"}, []string{"1"}},
		{"equals operator", map[string]any{"name": map[string]any{"equals": "Ford Prefect"}}, []string{"2"}},
		{"native operator", map[string]any{"name": map[string]any{"$eq": "Ford Prefect"}}, []string{"2"}},
		{"not equal", map[string]any{"name": map[string]any{"ne": "Ford Prefect"}}, []string{"1", "3"}},
		{"greater than", map[string]any{"age": map[string]any{"gt": float64(100)}}, []string{"2", "3"}},
		{"range", map[string]any{"age": map[string]any{"gte": float64(42), "lt": float64(100)}}, []string{"1"}},
		{"in", map[string]any{"name": map[string]any{"in": []any{"Arthur Dent", "Zaphod Beeblebrox"}}}, []string{"1", "3"}},
		{"several fields", map[string]any{"age": float64(200), "name": "Zaphod Beeblebrox"}, []string{"3"}},
		{"or", map[string]any{"or": []any{
			map[string]any{"name": "Arthur Dent"},
			map[string]any{"name": map[string]any{"equals": "Ford Prefect"}},
		}}, []string{"1", "2"}},
		{"int literal", map[string]any{"age": 42}, []string{"1"}},
		{"int equals", map[string]any{"age": map[string]any{"equals": int64(42)}}, []string{"1"}},
		{"int in", map[string]any{"age": map[string]any{"in": []int{42, 7}}}, []string{"1"}},
		{"int nin", map[string]any{"age": map[string]any{"nin": []int{42}}}, []string{"2", "3"}},
		{"uint greater than", map[string]any{"age": map[string]any{"gt": uint16(100)}}, []string{"2", "3"}},
		{"float32 literal", map[string]any{"age": float32(200)}, []string{"2", "3"}},
		{"int in or branch", map[string]any{"or": []map[string]any{{"age": 42}}}, []string{"1"}},
		{"object equals", map[string]any{"address": map[string]any{"equals": map[string]any{"city": "Cottington"}}}, []string{"1"}},
		{"no match", map[string]any{"name": "Marvin"}, []string{}},
		{"missing field", map[string]any{"planet": "Earth"}, []string{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q, err := Compile(c.predicate)
			require.NoError(t, err)

			result, err := Filter(people, attrs, q)
			require.NoError(t, err)
			assert.Equal(t, c.expected, ids(result))
		})
	}
}

func TestCompile_UnsupportedOperator(t *testing.T) {

	cases := []map[string]any{
		{"name": map[string]any{"like": "Ford%"}},
		{"name": map[string]any{}},
		{"$where": "true"},
		{"or": "name"},
		{"or": []any{"name"}},
		{"and": []any{map[string]any{"name": map[string]any{"regex": ".*"}}}},
		{"address": map[string]any{"city": "Cottington"}},
	}

	for _, predicate := range cases {
		_, err := Compile(predicate)
		assert.ErrorIs(t, err, ErrUnsupportedOperator, "predicate %v", predicate)
	}
}

func TestCompile_InvalidPredicate(t *testing.T) {

	_, err := Compile(map[string]any{"name": make(chan int)})
	assert.ErrorIs(t, err, ErrInvalidPredicate)
}

func TestFilter_PreservesOrder(t *testing.T) {

	reversed := []person{people[2], people[1], people[0]}

	q, err := Compile(map[string]any{"age": map[string]any{"ge": float64(42)}})
	require.NoError(t, err)

	result, err := Filter(reversed, attrs, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2", "1"}, ids(result))
}

func TestQuery_Empty(t *testing.T) {

	var nilQuery *Query
	assert.True(t, nilQuery.Empty())

	match, err := nilQuery.Match(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.True(t, match)

	q, err := Compile(map[string]any{"a": float64(1)})
	require.NoError(t, err)
	assert.False(t, q.Empty())
}
