package category

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, name string, parent ...string) Record {
	r := Record{ID: id, Name: name, Slug: "slug-" + id, Images: []string{}}
	if len(parent) > 0 {
		p := parent[0]
		r.ParentID = &p
	}
	return r
}

func ptr(s string) *string { return &s }

// membership maps every emitted id to its root id ("" for roots).
func membership(t *testing.T, nodes []Node) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, n := range nodes {
		_, dup := out[n.ID]
		require.False(t, dup, "id %s emitted twice", n.ID)
		out[n.ID] = ""
		for _, sub := range n.Subcategories {
			_, dup := out[sub.ID]
			require.False(t, dup, "id %s emitted twice", sub.ID)
			out[sub.ID] = n.ID
		}
	}
	return out
}

func TestBuildTree_GroupedAndUnlisted(t *testing.T) {
	records := []Record{
		rec("1", "Building Materials"),
		rec("2", "Cement & Concrete"),
		rec("3", "Unlisted Thing"),
	}
	h := Hierarchy{{Root: "Building Materials", Children: []string{"Cement & Concrete"}}}

	got := BuildTree(records, h)

	want := []Node{
		{
			Record:        rec("1", "Building Materials"),
			Subcategories: []Record{rec("2", "Cement & Concrete", "1")},
		},
		{
			Record:        rec("3", "Unlisted Thing"),
			Subcategories: []Record{},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("BuildTree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTree_OverridePrecedence(t *testing.T) {
	t.Run("Groups structurally unrelated records", func(t *testing.T) {
		records := []Record{
			rec("c", "Cement & Concrete"),
			rec("b", "Building Materials"),
			rec("s", "Steel & Metal Products"),
		}

		got := BuildTree(records, DefaultHierarchy())

		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].ID)
		require.Len(t, got[0].Subcategories, 2)
		// hierarchy order, not input order
		assert.Equal(t, "c", got[0].Subcategories[0].ID)
		assert.Equal(t, "s", got[0].Subcategories[1].ID)
		assert.Equal(t, ptr("b"), got[0].Subcategories[0].ParentID)
	})

	t.Run("Overrides upstream parent", func(t *testing.T) {
		records := []Record{
			rec("x", "Other Root"),
			rec("b", "Building Materials"),
			rec("c", "Cement & Concrete", "x"),
		}

		got := BuildTree(records, DefaultHierarchy())
		m := membership(t, got)

		assert.Equal(t, "b", m["c"])
		assert.Equal(t, "", m["x"])
		assert.Equal(t, "b", got[0].ID, "hierarchy groups come first")
		assert.Empty(t, got[1].Subcategories)
	})

	t.Run("Root parent_id is cleared", func(t *testing.T) {
		records := []Record{
			rec("p", "Somewhere"),
			rec("b", "Building Materials", "p"),
		}

		got := BuildTree(records, DefaultHierarchy())

		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].ID)
		assert.Nil(t, got[0].ParentID)
	})

	t.Run("Missing root skips whole group", func(t *testing.T) {
		records := []Record{rec("c", "Cement & Concrete")}

		got := BuildTree(records, DefaultHierarchy())

		require.Len(t, got, 1)
		assert.Equal(t, "c", got[0].ID)
		assert.Empty(t, got[0].Subcategories)
	})

	t.Run("Name match is exact", func(t *testing.T) {
		records := []Record{
			rec("b", "building materials"),
			rec("c", "Cement & Concrete "),
		}

		got := BuildTree(records, DefaultHierarchy())

		require.Len(t, got, 2)
		assert.Empty(t, got[0].Subcategories)
		assert.Empty(t, got[1].Subcategories)
	})

	t.Run("Child claimed by two groups goes to the first", func(t *testing.T) {
		h := Hierarchy{
			{Root: "A", Children: []string{"Shared"}},
			{Root: "B", Children: []string{"Shared", "Own"}},
		}
		records := []Record{rec("a", "A"), rec("b", "B"), rec("s", "Shared"), rec("o", "Own")}

		got := BuildTree(records, h)
		m := membership(t, got)

		assert.Equal(t, "a", m["s"])
		assert.Equal(t, "b", m["o"])
	})

	t.Run("Root already placed as child skips its group", func(t *testing.T) {
		h := Hierarchy{
			{Root: "A", Children: []string{"B"}},
			{Root: "B", Children: []string{"C"}},
		}
		records := []Record{rec("a", "A"), rec("b", "B"), rec("c", "C")}

		got := BuildTree(records, h)
		m := membership(t, got)

		assert.Equal(t, "a", m["b"])
		assert.Equal(t, "", m["c"])
		assert.Len(t, got, 2)
	})
}

func TestBuildTree_StructuralFallback(t *testing.T) {
	t.Run("Parent adopts child", func(t *testing.T) {
		records := []Record{rec("B", "Child", "A"), rec("A", "Parent")}

		got := BuildTree(records, Hierarchy{})

		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].ID)
		require.Len(t, got[0].Subcategories, 1)
		assert.Equal(t, "B", got[0].Subcategories[0].ID)
		assert.Equal(t, ptr("A"), got[0].Subcategories[0].ParentID)
	})

	t.Run("Dangling parent promotes to root", func(t *testing.T) {
		records := []Record{rec("C", "Lonely", "missing")}

		got := BuildTree(records, Hierarchy{})

		require.Len(t, got, 1)
		assert.Equal(t, "C", got[0].ID)
		assert.Nil(t, got[0].ParentID)
		assert.Empty(t, got[0].Subcategories)
	})

	t.Run("Empty parent id is treated as dangling", func(t *testing.T) {
		records := []Record{rec("C", "Lonely", "")}

		got := BuildTree(records, Hierarchy{})

		require.Len(t, got, 1)
		assert.Nil(t, got[0].ParentID)
	})

	t.Run("Children already grouped are not adopted twice", func(t *testing.T) {
		h := Hierarchy{{Root: "Building Materials", Children: []string{"Cement & Concrete"}}}
		records := []Record{
			rec("root", "Legacy Root"),
			rec("b", "Building Materials"),
			rec("c", "Cement & Concrete", "root"),
			rec("d", "Doors", "root"),
		}

		got := BuildTree(records, h)
		m := membership(t, got)

		assert.Equal(t, "b", m["c"])
		assert.Equal(t, "root", m["d"])
	})
}

func TestBuildTree_Orphans(t *testing.T) {
	t.Run("Grandchild surfaces as root", func(t *testing.T) {
		records := []Record{rec("A", "A"), rec("B", "B", "A"), rec("C", "C", "B")}

		got := BuildTree(records, nil)

		require.Len(t, got, 2)
		assert.Equal(t, "A", got[0].ID)
		assert.Equal(t, "B", got[0].Subcategories[0].ID)
		assert.Equal(t, "C", got[1].ID)
		assert.Empty(t, got[1].Subcategories)
		// orphans keep their upstream parent
		assert.Equal(t, ptr("B"), got[1].ParentID)
	})

	t.Run("Cycle and self reference", func(t *testing.T) {
		records := []Record{
			rec("x", "X", "y"),
			rec("y", "Y", "x"),
			rec("z", "Z", "z"),
		}

		got := BuildTree(records, nil)
		m := membership(t, got)

		assert.Len(t, m, 3)
		assert.Len(t, got, 3)
	})
}

func TestBuildTree_DegenerateInput(t *testing.T) {
	t.Run("Nil input", func(t *testing.T) {
		got := BuildTree(nil, DefaultHierarchy())
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Duplicate ids terminate without repeats", func(t *testing.T) {
		records := []Record{rec("1", "First"), rec("1", "Second"), rec("2", "Child", "1")}

		got := BuildTree(records, nil)
		m := membership(t, got)

		assert.Len(t, m, 2)
		assert.Equal(t, "First", got[0].Name)
	})

	t.Run("Input is not modified", func(t *testing.T) {
		records := []Record{rec("1", "Building Materials", "9"), rec("2", "Cement & Concrete")}

		_ = BuildTree(records, DefaultHierarchy())

		assert.Equal(t, ptr("9"), records[0].ParentID)
		assert.Nil(t, records[1].ParentID)
	})
}

func randomRecords(r *rand.Rand, n int, names []string) []Record {
	records := make([]Record, n)
	for i := range records {
		id := strconv.Itoa(i)
		name := fmt.Sprintf("cat-%d", i)
		if r.Intn(3) == 0 {
			name = names[r.Intn(len(names))]
		}
		records[i] = rec(id, name)
		switch r.Intn(4) {
		case 0:
			// root
		case 1:
			p := "missing-" + id
			records[i].ParentID = &p
		default:
			p := strconv.Itoa(r.Intn(n))
			records[i].ParentID = &p
		}
	}
	return records
}

func hierarchyNames(h Hierarchy) []string {
	var names []string
	for _, g := range h {
		names = append(names, g.Root)
		names = append(names, g.Children...)
	}
	return names
}

func TestBuildTree_Completeness(t *testing.T) {
	h := DefaultHierarchy()
	names := hierarchyNames(h)
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		records := randomRecords(r, 1+r.Intn(40), names)

		got := BuildTree(records, h)
		m := membership(t, got)

		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		want := make([]string, 0, len(records))
		for _, rc := range records {
			want = append(want, rc.ID)
		}
		sort.Strings(ids)
		sort.Strings(want)
		require.Equal(t, want, ids)
	}
}

func TestBuildTree_ReorderKeepsMembership(t *testing.T) {
	h := DefaultHierarchy()
	names := hierarchyNames(h)
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		// unique names keep name lookups independent of order
		records := randomRecords(r, 1+r.Intn(30), names)
		seen := map[string]bool{}
		for j := range records {
			if seen[records[j].Name] {
				records[j].Name = "dup-" + records[j].ID
			}
			seen[records[j].Name] = true
		}
		// depth two at most so no record's placement depends on pass order
		byID := map[string]*Record{}
		for j := range records {
			byID[records[j].ID] = &records[j]
		}
		for j := range records {
			if p := records[j].ParentID; p != nil {
				if parent, ok := byID[*p]; ok && parent.ParentID != nil {
					records[j].ParentID = nil
				}
			}
		}
		for _, rc := range records {
			if rc.ParentID != nil {
				if _, ok := byID[*rc.ParentID]; ok {
					// parents must be roots
					byID[*rc.ParentID].ParentID = nil
				}
			}
		}

		shuffled := append([]Record(nil), records...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, membership(t, BuildTree(records, h)), membership(t, BuildTree(shuffled, h)))
	}
}

func TestBuildTree_ImagesNeverNil(t *testing.T) {
	records := []Record{
		{ID: "1", Name: "Building Materials"},
		{ID: "2", Name: "Cement & Concrete"},
		{ID: "3", Name: "Loose"},
		{ID: "4", Name: "Leaf", ParentID: ptr("3")},
		{ID: "5", Name: "Deep", ParentID: ptr("4")},
	}

	got := BuildTree(records, DefaultHierarchy())

	for _, r := range Flatten(got) {
		assert.NotNil(t, r.Images, "record %s", r.ID)
	}
	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"category_images":null`)
}

func TestFlatten(t *testing.T) {
	nodes := []Node{
		{Record: rec("1", "A"), Subcategories: []Record{rec("2", "B", "1"), rec("3", "C", "1")}},
		{Record: rec("4", "D"), Subcategories: []Record{}},
	}

	got := Flatten(nodes)

	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}
