package lib

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FHIRResource represents a generic FHIR resource as a map
// We don't parse the full FHIR schema - just treat it as JSON
type FHIRResource map[string]interface{}

// GetResourceType extracts the resourceType field from a FHIR resource
func (r FHIRResource) GetResourceType() (string, error) {
	resourceType, ok := r["resourceType"]
	if !ok {
		return "", fmt.Errorf("missing resourceType field")
	}

	typeStr, ok := resourceType.(string)
	if !ok {
		return "", fmt.Errorf("resourceType is not a string")
	}

	return typeStr, nil
}

// GetID extracts the id field from a FHIR resource
func (r FHIRResource) GetID() (string, error) {
	id, ok := r["id"]
	if !ok {
		return "", nil // ID is optional in FHIR
	}

	idStr, ok := id.(string)
	if !ok {
		return "", fmt.Errorf("id is not a string")
	}

	return idStr, nil
}

// Reference builds a relative FHIR reference string ("Patient/abc-123")
func Reference(resourceType string, id string) string {
	return resourceType + "/" + id
}

// SplitReference splits "Patient/abc-123" into its type and id parts
func SplitReference(ref string) (resourceType string, id string, ok bool) {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// CollectReferences walks a resource and returns every relative reference it
// carries, covering nested objects and arrays. Both "reference" fields and
// attachment "url" fields pointing at Binary resources are included.
func CollectReferences(r FHIRResource) []string {
	var refs []string
	collectReferences(map[string]interface{}(r), &refs)
	return refs
}

func collectReferences(node interface{}, refs *[]string) {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if str, ok := value.(string); ok {
				if key == "reference" {
					*refs = append(*refs, str)
					continue
				}
				// Attachment URLs may point at in-graph Binary resources
				if key == "url" && strings.HasPrefix(str, "Binary/") {
					*refs = append(*refs, str)
					continue
				}
			}
			collectReferences(value, refs)
		}
	case []interface{}:
		for _, item := range v {
			collectReferences(item, refs)
		}
	}
}

// RewriteReferences returns a deep copy of the resource with every reference
// (and Binary attachment URL) whose "Type/localID" appears in idMap replaced
// by "Type/serverID". References absent from the map are left untouched.
func RewriteReferences(r FHIRResource, idMap map[string]string) (FHIRResource, error) {
	copied, err := DeepCopy(r)
	if err != nil {
		return nil, err
	}
	rewriteReferences(map[string]interface{}(copied), idMap)
	return copied, nil
}

func rewriteReferences(node interface{}, idMap map[string]string) {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if str, ok := value.(string); ok {
				isRef := key == "reference" || (key == "url" && strings.HasPrefix(str, "Binary/"))
				if isRef {
					if replacement, found := idMap[str]; found {
						v[key] = replacement
					}
					continue
				}
			}
			rewriteReferences(value, idMap)
		}
	case []interface{}:
		for _, item := range v {
			rewriteReferences(item, idMap)
		}
	}
}

// DeepCopy clones a resource through a JSON round-trip so the original is
// never shared with callers that mutate the copy
func DeepCopy(r FHIRResource) (FHIRResource, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	var copied FHIRResource
	if err := json.Unmarshal(raw, &copied); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource copy: %w", err)
	}

	return copied, nil
}
