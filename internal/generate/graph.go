package generate

import (
	"fmt"

	"github.com/synthfhir/synthfhir/internal/lib"
)

// Graph is the ordered collection of generated resources. Insertion order is
// dependency order: a resource is only added after every resource it
// references, so sinks can create resources front to back.
type Graph struct {
	resources []lib.FHIRResource
	index     map[string]lib.FHIRResource // "Type/id" -> resource
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]lib.FHIRResource),
	}
}

// Add appends a resource. Resources must carry resourceType and id, and ids
// must be unique per type.
func (g *Graph) Add(r lib.FHIRResource) error {
	resourceType, err := r.GetResourceType()
	if err != nil {
		return fmt.Errorf("cannot add resource to graph: %w", err)
	}

	id, err := r.GetID()
	if err != nil {
		return fmt.Errorf("cannot add %s to graph: %w", resourceType, err)
	}
	if id == "" {
		return fmt.Errorf("cannot add %s to graph: missing id", resourceType)
	}

	key := lib.Reference(resourceType, id)
	if _, exists := g.index[key]; exists {
		return fmt.Errorf("duplicate resource id in graph: %s", key)
	}

	g.index[key] = r
	g.resources = append(g.resources, r)
	return nil
}

// ByRef looks up a resource by its relative reference ("Patient/abc-123")
func (g *Graph) ByRef(ref string) (lib.FHIRResource, bool) {
	r, ok := g.index[ref]
	return r, ok
}

// Resources returns all resources in insertion (dependency) order
func (g *Graph) Resources() []lib.FHIRResource {
	return g.resources
}

// Len returns the number of resources in the graph
func (g *Graph) Len() int {
	return len(g.resources)
}

// CountByType tallies resources per resourceType
func (g *Graph) CountByType() map[string]int {
	counts := make(map[string]int)
	for _, r := range g.resources {
		resourceType, err := r.GetResourceType()
		if err != nil {
			continue
		}
		counts[resourceType]++
	}
	return counts
}

// VerifyReferences checks that every reference in the graph resolves to a
// resource in the graph. Run after generation: a dangling reference means
// the engine produced an inconsistent graph.
func (g *Graph) VerifyReferences() error {
	for _, r := range g.resources {
		resourceType, _ := r.GetResourceType()
		id, _ := r.GetID()
		for _, ref := range lib.CollectReferences(r) {
			if _, ok := g.index[ref]; !ok {
				return fmt.Errorf("%s/%s references %s which is not in the graph", resourceType, id, ref)
			}
		}
	}
	return nil
}
