package category

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Group pins a root category and the ordered children displayed under it,
// matched by exact category name.
type Group struct {
	Root     string   `yaml:"root" json:"root"`
	Children []string `yaml:"children" json:"children"`
}

// Hierarchy is the curated display grouping. Order matters: groups are
// emitted first, in this order.
type Hierarchy []Group

// DefaultHierarchy returns the marketplace's built-in grouping. Each call
// returns a fresh copy.
func DefaultHierarchy() Hierarchy {
	return Hierarchy{
		{Root: "Building Materials", Children: []string{
			"Cement & Concrete",
			"Sand, Gravel & Aggregates",
			"Bricks, Blocks & Masonry",
			"Steel & Metal Products",
			"Timber & Wood Products",
			"Roofing Materials",
			"Glass & Glazing",
			"Drywall, Plaster & Ceiling Boards",
		}},
		{Root: "Finishes & Interiors", Children: []string{
			"Tiles & Flooring",
			"Paints & Coatings",
			"Wall Finishes",
			"Doors, Windows & Frames",
			"Interior Furniture & Fixtures",
			"Sanitaryware & Bathroom Fittings",
		}},
		{Root: "MEP (Mechanical, Electrical, Plumbing)", Children: []string{
			"Plumbing & Pipes",
			"Electrical Materials",
			"HVAC Systems",
			"Water Supply & Pumps",
			"Gas Supply Systems",
		}},
		{Root: "Construction Chemicals", Children: []string{
			"Concrete Admixtures",
			"Waterproofing Solutions",
			"Adhesives, Sealants & Grouts",
			"Protective Coatings",
			"Flooring Compounds",
		}},
		{Root: "Insulation & Energy", Children: []string{
			"Thermal Insulation",
			"Acoustic Insulation",
			"Fireproofing Materials",
			"Solar & Renewable Energy Products",
		}},
		{Root: "Hardware & Tools", Children: []string{
			"Hand Tools",
			"Power Tools",
			"Fasteners",
			"Measuring & Layout Tools",
			"Safety Materials",
		}},
		{Root: "Construction Equipment & Machinery", Children: []string{
			"Earthmoving Equipment",
			"Concrete Equipment",
			"Material Handling",
			"Compaction Equipment",
			"Scaffolding & Formwork",
			"Generators & Compressors",
		}},
		{Root: "Site Essentials", Children: []string{
			"Temporary Structures",
			"Safety & Signage",
			"Waste Management & Recycling",
			"Surveying Instruments",
		}},
	}
}

// LoadHierarchy reads a hierarchy from a YAML file. A missing file yields
// the default hierarchy.
func LoadHierarchy(path string) (Hierarchy, error) {
	if path == "" {
		return DefaultHierarchy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultHierarchy(), nil
		}
		return nil, fmt.Errorf("failed to read hierarchy: %w", err)
	}

	return ParseHierarchy(data)
}

// ParseHierarchy accepts either a sequence of {root, children} entries or an
// ordered mapping of root name to children.
func ParseHierarchy(data []byte) (Hierarchy, error) {
	var h Hierarchy
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to parse hierarchy: %w", err)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if h == nil {
		h = Hierarchy{}
	}
	return h, nil
}

// UnmarshalYAML keeps mapping order, which a plain map would lose.
func (h *Hierarchy) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var groups []Group
		if err := node.Decode(&groups); err != nil {
			return err
		}
		*h = groups
		return nil
	case yaml.MappingNode:
		groups := make(Hierarchy, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var g Group
			if err := node.Content[i].Decode(&g.Root); err != nil {
				return err
			}
			if err := node.Content[i+1].Decode(&g.Children); err != nil {
				return fmt.Errorf("children of %q: %w", g.Root, err)
			}
			groups = append(groups, g)
		}
		*h = groups
		return nil
	default:
		return fmt.Errorf("hierarchy must be a sequence or mapping, got line %d", node.Line)
	}
}

func (h Hierarchy) Validate() error {
	seen := make(map[string]struct{}, len(h))
	for i, g := range h {
		if g.Root == "" {
			return fmt.Errorf("hierarchy group %d: %w", i, errEmptyRoot)
		}
		if _, dup := seen[g.Root]; dup {
			return fmt.Errorf("hierarchy group %d: duplicate root %q", i, g.Root)
		}
		seen[g.Root] = struct{}{}
	}
	return nil
}

var errEmptyRoot = errors.New("root name is empty")
