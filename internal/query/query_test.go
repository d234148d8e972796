package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type row struct {
	id   int
	name string
	kind string
}

func (r row) Field(name string) (string, bool) {
	switch name {
	case "name":
		return r.name, true
	case "kind":
		return r.kind, true
	default:
		return "", false
	}
}

func rows() []row {
	return []row{
		{1, "alice", "admin"},
		{2, "bob", "user"},
		{3, "carol", "user"},
		{4, "alex", "admin"},
		{5, "bobby", "user"},
	}
}

func ids(rs []row) []int {
	out := make([]int, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.id)
	}
	return out
}

func TestNewOptions_Defaults(t *testing.T) {
	t.Parallel()
	opts := NewOptions(0, -1, " name ", "", "", nil, false)
	require.Equal(t, 1, opts.Page)
	require.Equal(t, DefaultLimit, opts.Limit)
	require.Equal(t, "name", opts.SortField)
	require.True(t, opts.SortAscending)

	require.False(t, NewOptions(1, 1, "name", "DESC", "", nil, false).SortAscending)
	require.True(t, NewOptions(1, 1, "name", "asc", "", nil, false).SortAscending)
}

func TestNewOptions_CopiesFilterValues(t *testing.T) {
	t.Parallel()
	values := []string{"a"}
	opts := NewOptions(1, 10, "", "", "name", values, false)
	values[0] = "z"
	require.Equal(t, []string{"a"}, opts.FilterValues)
}

func TestFilter(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		opts Options
		want []int
	}{
		{"no filter field keeps all", NewOptions(1, 10, "", "", "", []string{"x"}, false), []int{1, 2, 3, 4, 5}},
		{"substring", NewOptions(1, 10, "", "", "name", []string{"bob"}, false), []int{2, 5}},
		{"exact", NewOptions(1, 10, "", "", "name", []string{"bob"}, true), []int{2}},
		{"values are ORed", NewOptions(1, 10, "", "", "name", []string{"alice", "carol"}, true), []int{1, 3}},
		{"unknown field matches nothing", NewOptions(1, 10, "", "", "password", []string{""}, false), []int{}},
		{"no candidates matches nothing", NewOptions(1, 10, "", "", "name", nil, false), []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ids(Filter(rows(), tt.opts)))
		})
	}
}

func TestFilter_ExactIsSubsetOfSubstring(t *testing.T) {
	t.Parallel()
	for _, values := range [][]string{{"a"}, {"bob"}, {"alice", "l"}, {""}, {"zzz"}} {
		exact := ids(Filter(rows(), NewOptions(1, 10, "", "", "name", values, true)))
		loose := ids(Filter(rows(), NewOptions(1, 10, "", "", "name", values, false)))
		require.Subset(t, loose, exact, "values %v", values)
	}
}

func TestSort(t *testing.T) {
	t.Parallel()
	in := rows()

	asc := Sort(in, NewOptions(1, 10, "name", "asc", "", nil, false))
	require.Equal(t, []int{4, 1, 2, 5, 3}, ids(asc))

	desc := Sort(in, NewOptions(1, 10, "name", "desc", "", nil, false))
	require.Equal(t, []int{3, 5, 2, 1, 4}, ids(desc))

	// input untouched
	require.Equal(t, []int{1, 2, 3, 4, 5}, ids(in))

	// no sort field keeps order
	require.Equal(t, []int{1, 2, 3, 4, 5}, ids(Sort(in, NewOptions(1, 10, "", "desc", "", nil, false))))
}

func TestSort_Stable(t *testing.T) {
	t.Parallel()
	byKind := Sort(rows(), NewOptions(1, 10, "kind", "asc", "", nil, false))
	require.Equal(t, []int{1, 4, 2, 3, 5}, ids(byKind))

	byKindDesc := Sort(rows(), NewOptions(1, 10, "kind", "desc", "", nil, false))
	require.Equal(t, []int{2, 3, 5, 1, 4}, ids(byKindDesc))
}

func TestSort_UnknownFieldIsStableNoop(t *testing.T) {
	t.Parallel()
	out := Sort(rows(), NewOptions(1, 10, "missing", "desc", "", nil, false))
	require.Equal(t, []int{1, 2, 3, 4, 5}, ids(out))
}

func TestPaginate(t *testing.T) {
	t.Parallel()
	in := rows()
	for limit := 1; limit <= 6; limit++ {
		for page := 1; page <= 7; page++ {
			t.Run(fmt.Sprintf("page=%d,limit=%d", page, limit), func(t *testing.T) {
				got, total := Paginate(in, Options{Page: page, Limit: limit})
				require.Equal(t, len(in), total)
				want := min(limit, max(0, total-(page-1)*limit))
				require.Len(t, got, want)
				require.NotNil(t, got)
			})
		}
	}
}

func TestPaginate_BeyondLastPage(t *testing.T) {
	t.Parallel()
	first, total1 := Paginate(rows(), Options{Page: 1, Limit: 2})
	require.Equal(t, []int{1, 2}, ids(first))
	last, total3 := Paginate(rows(), Options{Page: 3, Limit: 2})
	require.Equal(t, []int{5}, ids(last))
	beyond, total9 := Paginate(rows(), Options{Page: 9, Limit: 2})
	require.Empty(t, beyond)
	require.Equal(t, total1, total3)
	require.Equal(t, total1, total9)
}

func TestPaginate_HugeLimit(t *testing.T) {
	t.Parallel()
	got, total := Paginate(rows(), Options{Page: 1, Limit: int(^uint(0) >> 1)})
	require.Len(t, got, 5)
	require.Equal(t, 5, total)
}

func TestApply_TotalCountIsFilteredSize(t *testing.T) {
	t.Parallel()
	opts := NewOptions(2, 1, "name", "asc", "kind", []string{"user"}, true)
	reply := Apply(rows(), opts)
	require.Equal(t, 3, reply.TotalCount)
	require.Equal(t, []int{5}, ids(reply.Data))

	empty := Apply([]row{}, NewOptions(1, 10, "", "", "", nil, false))
	require.NotNil(t, empty.Data)
	require.Zero(t, empty.TotalCount)
}
