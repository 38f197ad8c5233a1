package category

// BuildTree arranges a flat category list into a two-level display tree.
//
// Placement runs in three passes over records not yet placed:
//  1. each hierarchy group whose root name exists becomes a root, with the
//     named children that exist attached in group order;
//  2. records without a resolvable parent become roots and adopt their
//     direct children;
//  3. whatever is left (grandchildren, cycles) is emitted as a childless root.
//
// Every distinct id appears exactly once in the result. Name matching is
// exact. The input is not modified.
func BuildTree(records []Record, h Hierarchy) []Node {
	b := newTreeBuilder(records)

	b.placeGroups(h)
	b.placeRoots()
	b.placeOrphans()

	return b.out
}

// Flatten lists roots followed by their subcategories, in display order.
func Flatten(nodes []Node) []Record {
	out := make([]Record, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Record)
		out = append(out, n.Subcategories...)
	}
	return out
}

type treeBuilder struct {
	records  []Record
	byName   map[string]int
	ids      map[string]struct{}
	children map[string][]int
	used     map[string]struct{}
	out      []Node
}

func newTreeBuilder(records []Record) *treeBuilder {
	b := &treeBuilder{
		records:  records,
		byName:   make(map[string]int, len(records)),
		ids:      make(map[string]struct{}, len(records)),
		children: make(map[string][]int),
		used:     make(map[string]struct{}, len(records)),
		out:      make([]Node, 0, len(records)),
	}

	for i, r := range records {
		// later duplicates of a name win, as with a plain name index
		b.byName[r.Name] = i
		b.ids[r.ID] = struct{}{}
		if r.ParentID != nil && *r.ParentID != "" {
			b.children[*r.ParentID] = append(b.children[*r.ParentID], i)
		}
	}

	return b
}

func (b *treeBuilder) isUsed(id string) bool {
	_, ok := b.used[id]
	return ok
}

func (b *treeBuilder) lookupFree(name string) (Record, bool) {
	i, ok := b.byName[name]
	if !ok || b.isUsed(b.records[i].ID) {
		return Record{}, false
	}
	return b.records[i], true
}

func (b *treeBuilder) placeGroups(h Hierarchy) {
	for _, g := range h {
		root, ok := b.lookupFree(g.Root)
		if !ok {
			continue
		}
		b.used[root.ID] = struct{}{}

		subs := make([]Record, 0, len(g.Children))
		for _, name := range g.Children {
			child, ok := b.lookupFree(name)
			if !ok {
				continue
			}
			b.used[child.ID] = struct{}{}
			subs = append(subs, asSubcategory(child, root.ID))
		}

		b.out = append(b.out, Node{Record: asRoot(root), Subcategories: subs})
	}
}

func (b *treeBuilder) placeRoots() {
	for _, r := range b.records {
		if b.isUsed(r.ID) || b.hasParent(r) {
			continue
		}
		b.used[r.ID] = struct{}{}

		subs := make([]Record, 0, len(b.children[r.ID]))
		for _, ci := range b.children[r.ID] {
			child := b.records[ci]
			if b.isUsed(child.ID) {
				continue
			}
			b.used[child.ID] = struct{}{}
			subs = append(subs, asSubcategory(child, r.ID))
		}

		b.out = append(b.out, Node{Record: asRoot(r), Subcategories: subs})
	}
}

func (b *treeBuilder) placeOrphans() {
	for _, r := range b.records {
		if b.isUsed(r.ID) {
			continue
		}
		b.used[r.ID] = struct{}{}
		b.out = append(b.out, Node{Record: withImages(r), Subcategories: []Record{}})
	}
}

// hasParent reports whether r points at a record present in the input.
func (b *treeBuilder) hasParent(r Record) bool {
	if r.ParentID == nil {
		return false
	}
	_, ok := b.ids[*r.ParentID]
	return ok
}

func asRoot(r Record) Record {
	r.ParentID = nil
	return withImages(r)
}

func asSubcategory(r Record, rootID string) Record {
	r.ParentID = &rootID
	return withImages(r)
}

// withImages keeps category_images a list on the wire.
func withImages(r Record) Record {
	if r.Images == nil {
		r.Images = []string{}
	}
	return r
}
