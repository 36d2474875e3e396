// Package sink delivers a generated resource graph to its destination, either
// a JSON bundle on disk or a FHIR server over HTTP.
package sink

import (
	"encoding/json"
	"os"

	"github.com/synthfhir/synthfhir/internal/generate"
	"github.com/synthfhir/synthfhir/internal/lib"
)

// BuildBundle wraps the graph's resources in a FHIR collection Bundle.
// Entries keep the graph's dependency order so the file can be replayed
// against a server front to back.
func BuildBundle(graph *generate.Graph) lib.FHIRResource {
	entries := make([]interface{}, 0, graph.Len())
	for _, r := range graph.Resources() {
		resourceType, _ := r.GetResourceType()
		id, _ := r.GetID()
		entries = append(entries, map[string]interface{}{
			"fullUrl":  "urn:fhir:" + lib.Reference(resourceType, id),
			"resource": map[string]interface{}(r),
		})
	}

	return lib.FHIRResource{
		"resourceType": "Bundle",
		"type":         "collection",
		"total":        graph.Len(),
		"entry":        entries,
	}
}

// WriteBundle serializes the graph as a pretty-printed collection Bundle
func WriteBundle(graph *generate.Graph, path string) error {
	bundle := BuildBundle(graph)

	raw, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return lib.WrapError(lib.CategoryFileSystem, "failed to serialize bundle", err)
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		return lib.ErrOutputWrite(path, err)
	}

	return nil
}

// ReadBundle loads a collection Bundle written by WriteBundle and returns its
// resources in entry order
func ReadBundle(path string) ([]lib.FHIRResource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lib.ErrFileNotFound(path)
		}
		return nil, lib.WrapError(lib.CategoryFileSystem, "failed to read bundle file", err)
	}

	var bundle struct {
		ResourceType string `json:"resourceType"`
		Entry        []struct {
			Resource lib.FHIRResource `json:"resource"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, lib.WrapError(lib.CategoryFileSystem, "failed to parse bundle file", err)
	}
	if bundle.ResourceType != "Bundle" {
		return nil, lib.WrapError(lib.CategoryFileSystem, "file is not a FHIR Bundle", nil)
	}

	resources := make([]lib.FHIRResource, 0, len(bundle.Entry))
	for _, entry := range bundle.Entry {
		if entry.Resource != nil {
			resources = append(resources, entry.Resource)
		}
	}
	return resources, nil
}
