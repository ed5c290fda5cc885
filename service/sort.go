package service

import (
	"fmt"
	"strings"

	"github.com/google/btree"

	"github.com/fulldump/filestore/filestore"
)

// sortRecords orders records by the value of field, ties broken by id. A
// leading '-' reverses the order.
func sortRecords(records []*filestore.Record, field string) []*filestore.Record {

	descending := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")

	tree := btree.NewG(32, func(a, b *filestore.Record) bool {
		c := compareValues(a.Attributes[field], b.Attributes[field])
		if c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})

	for _, record := range records {
		tree.ReplaceOrInsert(record)
	}

	result := make([]*filestore.Record, 0, tree.Len())
	iterator := func(record *filestore.Record) bool {
		result = append(result, record)
		return true
	}

	if descending {
		tree.Descend(iterator)
	} else {
		tree.Ascend(iterator)
	}

	return result
}

// rank orders values of different JSON types: missing/null, booleans,
// numbers, strings, everything else.
func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64, int, int64:
		return 2
	case string:
		return 3
	}
	return 4
}

func compareValues(a, b any) int {

	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}

	switch x := a.(type) {
	case bool:
		y := b.(bool)
		if x == y {
			return 0
		}
		if !x {
			return -1
		}
		return 1
	case string:
		return strings.Compare(x, b.(string))
	case float64, int, int64:
		fx, fy := toFloat(a), toFloat(b)
		if fx < fy {
			return -1
		}
		if fx > fy {
			return 1
		}
		return 0
	case nil:
		return 0
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
