package envfile

import "sort"

// ValueDiff is a key present in both files with different values
type ValueDiff struct {
	Key    string `json:"key"`
	Value1 string `json:"value1"`
	Value2 string `json:"value2"`
}

// Diff is the key-level comparison of two env files. Every list is sorted
// by key.
type Diff struct {
	OnlyInFirst  []string    `json:"onlyInFirst"`
	OnlyInSecond []string    `json:"onlyInSecond"`
	Different    []ValueDiff `json:"different"`
	Common       []string    `json:"common"`
}

// Changes counts keys that are not identical in both files
func (d *Diff) Changes() int {
	return len(d.OnlyInFirst) + len(d.OnlyInSecond) + len(d.Different)
}

// Compare diffs two sets of entries by key and value
func Compare(first, second map[string]Entry) *Diff {
	d := &Diff{
		OnlyInFirst:  []string{},
		OnlyInSecond: []string{},
		Different:    []ValueDiff{},
		Common:       []string{},
	}

	for key, e1 := range first {
		e2, ok := second[key]
		switch {
		case !ok:
			d.OnlyInFirst = append(d.OnlyInFirst, key)
		case e1.Value != e2.Value:
			d.Different = append(d.Different, ValueDiff{Key: key, Value1: e1.Value, Value2: e2.Value})
		default:
			d.Common = append(d.Common, key)
		}
	}
	for key := range second {
		if _, ok := first[key]; !ok {
			d.OnlyInSecond = append(d.OnlyInSecond, key)
		}
	}

	sort.Strings(d.OnlyInFirst)
	sort.Strings(d.OnlyInSecond)
	sort.Strings(d.Common)
	sort.Slice(d.Different, func(i, j int) bool {
		return d.Different[i].Key < d.Different[j].Key
	})
	return d
}
