package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synthfhir/synthfhir/internal/lib"
	"github.com/synthfhir/synthfhir/internal/models"
	"github.com/synthfhir/synthfhir/internal/services"
)

func testFHIRClient(baseURL string) *FHIRClient {
	httpClient := services.NewHTTPClient(5*time.Second, models.RetryConfig{
		MaxAttempts:      1,
		InitialBackoffMs: 1,
		MaxBackoffMs:     1,
	}, lib.NewLogger(lib.LogLevelError))
	return NewFHIRClient(baseURL, httpClient, lib.NewLogger(lib.LogLevelError))
}

// fhirStub assigns sequential server ids and records incoming resources
type fhirStub struct {
	nextID   int
	received []lib.FHIRResource
}

func (s *fhirStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resource lib.FHIRResource
		if err := json.NewDecoder(r.Body).Decode(&resource); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.received = append(s.received, resource)

		s.nextID++
		response := make(lib.FHIRResource, len(resource)+1)
		for k, v := range resource {
			response[k] = v
		}
		response["id"] = fmt.Sprintf("srv-%d", s.nextID)

		w.Header().Set("Content-Type", "application/fhir+json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func TestFHIRClient_CreateAll_RemapsReferences(t *testing.T) {
	stub := &fhirStub{}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	resources := []lib.FHIRResource{
		{"resourceType": "Patient", "id": "local-patient"},
		{
			"resourceType": "Observation",
			"id":           "local-obs",
			"subject":      map[string]interface{}{"reference": "Patient/local-patient"},
		},
	}

	idMap, err := testFHIRClient(server.URL).CreateAll(resources, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Patient/local-patient": "Patient/srv-1",
		"Observation/local-obs": "Observation/srv-2",
	}, idMap)

	require.Len(t, stub.received, 2)

	// Local ids are stripped before upload
	_, hasID := stub.received[0]["id"]
	assert.False(t, hasID)

	// The observation's subject points at the server-assigned patient id
	subject := stub.received[1]["subject"].(map[string]interface{})
	assert.Equal(t, "Patient/srv-1", subject["reference"])

	// Originals are untouched
	assert.Equal(t, "local-patient", resources[0]["id"])
	assert.Equal(t, "Patient/local-patient",
		resources[1]["subject"].(map[string]interface{})["reference"])
}

func TestFHIRClient_CreateAll_PostsToTypeEndpoint(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/fhir+json", r.Header.Get("Content-Type"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"resourceType":"Patient","id":"srv-1"}`))
	}))
	defer server.Close()

	_, err := testFHIRClient(server.URL+"/fhir/").CreateAll([]lib.FHIRResource{
		{"resourceType": "Patient", "id": "p1"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/fhir/Patient"}, paths)
}

func TestFHIRClient_CreateResource_SurfacesOperationOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{
			"resourceType": "OperationOutcome",
			"issue": [{"severity": "error", "diagnostics": "Unknown element 'bogus'"}]
		}`))
	}))
	defer server.Close()

	_, err := testFHIRClient(server.URL).CreateResource(lib.FHIRResource{
		"resourceType": "Patient", "id": "p1",
	})
	require.Error(t, err)

	var genErr *lib.GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, lib.CategoryService, genErr.Category)
	assert.False(t, genErr.IsRetryable)
	assert.Contains(t, genErr.Message, "Unknown element 'bogus'")
}

func TestFHIRClient_CreateAll_StopsOnFirstFailure(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"resourceType":"OperationOutcome","issue":[{"diagnostics":"rejected"}]}`))
	}))
	defer server.Close()

	_, err := testFHIRClient(server.URL).CreateAll([]lib.FHIRResource{
		{"resourceType": "Patient", "id": "p1"},
		{"resourceType": "Patient", "id": "p2"},
	}, nil)
	require.Error(t, err)
	assert.Equal(t, 1, requests)
}

func TestFHIRClient_CreateResource_NetworkError(t *testing.T) {
	client := testFHIRClient("http://127.0.0.1:1")

	_, err := client.CreateResource(lib.FHIRResource{"resourceType": "Patient", "id": "p1"})
	require.Error(t, err)

	var genErr *lib.GeneratorError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, lib.CategoryNetwork, genErr.Category)
	assert.True(t, genErr.IsRetryable)
}

func TestFHIRClient_Healthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/metadata") {
			_, _ = w.Write([]byte(`{"resourceType":"CapabilityStatement"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assert.NoError(t, testFHIRClient(server.URL).Healthy())
}
