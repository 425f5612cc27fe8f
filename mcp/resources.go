package mcp

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/lvillar/presskit/doctpl"
)

// RegisterDefaultResources adds the built-in resources to the server.
// Resources use the presskit:// scheme.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "presskit://variants",
		Name:        "Form Variants",
		Description: "Names, titles and default file names of the available form variants.",
		MIMEType:    "application/json",
		Handler:     handleVariantsResource,
	})

	s.AddResource(Resource{
		URI:         "presskit://variant",
		Name:        "Form Variant Definition",
		Description: "Inputs and blocks of one variant. Pass the name as a query parameter: presskit://variant?name=film",
		MIMEType:    "application/json",
		Handler:     handleVariantResource,
	})
}

func queryParam(uri, key string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Query().Get(key)
}

func handleVariantsResource(uri string) ([]ResourceContent, error) {
	summaries, err := variantSummaries()
	if err != nil {
		return nil, err
	}
	jsonBytes, _ := json.MarshalIndent(summaries, "", "  ")
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(jsonBytes),
	}}, nil
}

func handleVariantResource(uri string) ([]ResourceContent, error) {
	name := queryParam(uri, "name")
	if name == "" {
		return nil, fmt.Errorf("missing 'name' parameter in URI")
	}
	v, err := doctpl.Lookup(name)
	if err != nil {
		return nil, err
	}
	jsonBytes, _ := json.MarshalIndent(v, "", "  ")
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(jsonBytes),
	}}, nil
}
