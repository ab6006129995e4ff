package fhir_dto

import (
	"caselink-service/internal/pkg/constvars"
	"encoding/json"
)

type FHIRBundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Type         string        `json:"type"`
	Timestamp    string        `json:"timestamp,omitempty"`
	Total        int           `json:"total,omitempty"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

type BundleEntry struct {
	FullUrl  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
	Search   *BundleSearch   `json:"search,omitempty"`
}

type BundleSearch struct {
	Mode string `json:"mode,omitempty"`
}

// NextLink returns the pagination URL with relation "next", or "" when the
// server supplied none.
func (b *FHIRBundle) NextLink() string {
	for _, link := range b.Link {
		if link.Relation == constvars.FhirLinkRelationNext {
			return link.URL
		}
	}
	return ""
}
