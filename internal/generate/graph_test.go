package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synthfhir/synthfhir/internal/lib"
)

func TestGraph_Add_RejectsDuplicateID(t *testing.T) {
	graph := NewGraph()

	require.NoError(t, graph.Add(lib.FHIRResource{"resourceType": "Patient", "id": "p1"}))
	err := graph.Add(lib.FHIRResource{"resourceType": "Patient", "id": "p1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	// Same id under a different type is fine
	assert.NoError(t, graph.Add(lib.FHIRResource{"resourceType": "Practitioner", "id": "p1"}))
}

func TestGraph_Add_RequiresTypeAndID(t *testing.T) {
	graph := NewGraph()

	assert.Error(t, graph.Add(lib.FHIRResource{"id": "p1"}))
	assert.Error(t, graph.Add(lib.FHIRResource{"resourceType": "Patient"}))
}

func TestGraph_ByRef(t *testing.T) {
	graph := NewGraph()
	require.NoError(t, graph.Add(lib.FHIRResource{"resourceType": "Patient", "id": "p1"}))

	r, ok := graph.ByRef("Patient/p1")
	require.True(t, ok)
	assert.Equal(t, "p1", r["id"])

	_, ok = graph.ByRef("Patient/p2")
	assert.False(t, ok)
}

func TestGraph_CountByType(t *testing.T) {
	graph := NewGraph()
	require.NoError(t, graph.Add(lib.FHIRResource{"resourceType": "Patient", "id": "p1"}))
	require.NoError(t, graph.Add(lib.FHIRResource{"resourceType": "Patient", "id": "p2"}))
	require.NoError(t, graph.Add(lib.FHIRResource{"resourceType": "Observation", "id": "o1"}))

	counts := graph.CountByType()
	assert.Equal(t, 2, counts["Patient"])
	assert.Equal(t, 1, counts["Observation"])
	assert.Equal(t, 3, graph.Len())
}

func TestGraph_VerifyReferences_DetectsDangling(t *testing.T) {
	graph := NewGraph()
	require.NoError(t, graph.Add(lib.FHIRResource{"resourceType": "Patient", "id": "p1"}))
	require.NoError(t, graph.Add(lib.FHIRResource{
		"resourceType": "Observation",
		"id":           "o1",
		"subject":      map[string]interface{}{"reference": "Patient/p1"},
	}))
	require.NoError(t, graph.VerifyReferences())

	require.NoError(t, graph.Add(lib.FHIRResource{
		"resourceType": "Observation",
		"id":           "o2",
		"subject":      map[string]interface{}{"reference": "Patient/missing"},
	}))

	err := graph.VerifyReferences()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Patient/missing")
}

func TestGraph_VerifyReferences_ChecksBinaryAttachmentURLs(t *testing.T) {
	graph := NewGraph()
	require.NoError(t, graph.Add(lib.FHIRResource{"resourceType": "Patient", "id": "p1"}))
	require.NoError(t, graph.Add(lib.FHIRResource{
		"resourceType": "DocumentReference",
		"id":           "d1",
		"subject":      map[string]interface{}{"reference": "Patient/p1"},
		"content": []interface{}{
			map[string]interface{}{
				"attachment": map[string]interface{}{"url": "Binary/missing"},
			},
		},
	}))

	err := graph.VerifyReferences()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Binary/missing")
}
