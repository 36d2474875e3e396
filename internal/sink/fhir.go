package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/synthfhir/synthfhir/internal/lib"
	"github.com/synthfhir/synthfhir/internal/services"
)

// FHIRClient uploads resources to a FHIR server. Resources are created one at
// a time in dependency order; local ids are replaced by the server-assigned
// ids and every later resource has its references rewritten to match.
type FHIRClient struct {
	baseURL string
	http    *services.HTTPClient
	logger  *lib.Logger
}

// NewFHIRClient creates a client for the given FHIR base URL
func NewFHIRClient(baseURL string, httpClient *services.HTTPClient, logger *lib.Logger) *FHIRClient {
	return &FHIRClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// CreateAll uploads resources in the given order and returns the mapping from
// local reference ("Patient/local-id") to server reference. The input order
// must be dependency order: a resource's references must precede it.
// onResource, when non-nil, is called after each successful create.
func (c *FHIRClient) CreateAll(resources []lib.FHIRResource, onResource func(resourceType string)) (map[string]string, error) {
	idMap := make(map[string]string, len(resources))

	for _, r := range resources {
		resourceType, err := r.GetResourceType()
		if err != nil {
			return idMap, lib.WrapError(lib.CategoryReference, "resource without resourceType cannot be uploaded", err)
		}
		localID, _ := r.GetID()

		rewritten, err := lib.RewriteReferences(r, idMap)
		if err != nil {
			return idMap, err
		}

		serverID, err := c.CreateResource(rewritten)
		if err != nil {
			return idMap, err
		}

		if localID != "" {
			idMap[lib.Reference(resourceType, localID)] = lib.Reference(resourceType, serverID)
		}
		lib.LogResourceCreated(c.logger, resourceType, localID, serverID)

		if onResource != nil {
			onResource(resourceType)
		}
	}

	return idMap, nil
}

// CreateResource POSTs a single resource and returns the server-assigned id.
// The local id is stripped before upload so the server allocates its own.
func (c *FHIRClient) CreateResource(r lib.FHIRResource) (string, error) {
	resourceType, err := r.GetResourceType()
	if err != nil {
		return "", lib.WrapError(lib.CategoryReference, "resource without resourceType cannot be uploaded", err)
	}

	payload, err := lib.DeepCopy(r)
	if err != nil {
		return "", err
	}
	delete(payload, "id")

	body, err := json.Marshal(payload)
	if err != nil {
		return "", lib.WrapError(lib.CategoryService, fmt.Sprintf("failed to serialize %s", resourceType), err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, resourceType)
	resp, err := c.http.PostJSON(url, body)
	if err != nil {
		if lib.IsNetworkError(err) {
			return "", lib.ErrNetworkUnreachable(c.baseURL, err)
		}
		return "", lib.WrapError(lib.CategoryService, fmt.Sprintf("failed to create %s", resourceType), err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", lib.WrapError(lib.CategoryService, "failed to read server response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// Fall through to id extraction
	case resp.StatusCode >= 500:
		return "", lib.ErrServiceUnavailable(resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(respBody))))
	default:
		return "", lib.ErrResourceRejected(resourceType, resp.StatusCode, extractDiagnostics(respBody))
	}

	var created lib.FHIRResource
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", lib.WrapError(lib.CategoryService, fmt.Sprintf("server returned unparseable %s", resourceType), err)
	}

	serverID, err := created.GetID()
	if err != nil || serverID == "" {
		return "", lib.WrapError(lib.CategoryService,
			fmt.Sprintf("server response for %s carries no id", resourceType), err)
	}

	return serverID, nil
}

// Healthy probes the server's CapabilityStatement endpoint
func (c *FHIRClient) Healthy() error {
	resp, err := c.http.Get(c.baseURL + "/metadata")
	if err != nil {
		return lib.ErrNetworkUnreachable(c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return lib.ErrServiceUnavailable(resp.StatusCode, fmt.Errorf("metadata endpoint returned %s", resp.Status))
	}
	return nil
}

// extractDiagnostics pulls the first issue diagnostics out of an
// OperationOutcome body, falling back to the raw body
func extractDiagnostics(body []byte) string {
	var outcome struct {
		ResourceType string `json:"resourceType"`
		Issue        []struct {
			Severity    string `json:"severity"`
			Diagnostics string `json:"diagnostics"`
		} `json:"issue"`
	}
	if err := json.Unmarshal(body, &outcome); err == nil && outcome.ResourceType == "OperationOutcome" {
		for _, issue := range outcome.Issue {
			if issue.Diagnostics != "" {
				return issue.Diagnostics
			}
		}
	}

	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > 200 {
		trimmed = trimmed[:200] + "..."
	}
	if trimmed == "" {
		return "no details provided"
	}
	return trimmed
}
