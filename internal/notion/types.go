package notion

import "encoding/json"

// Page is a Notion page as returned by a data source query. Properties are
// kept raw so they can be passed through untouched and decoded lazily.
type Page struct {
	Object     string                     `json:"object"`
	ID         string                     `json:"id"`
	Icon       json.RawMessage            `json:"icon,omitempty"`
	Cover      json.RawMessage            `json:"cover,omitempty"`
	Archived   bool                       `json:"archived"`
	InTrash    bool                       `json:"in_trash"`
	URL        string                     `json:"url"`
	PublicURL  *string                    `json:"public_url"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// DataSourceRef points at one queryable source inside a database.
type DataSourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Database is the container object. Since API version 2025-09-03 a database
// lists its data sources; older databases return none.
type Database struct {
	Object      string          `json:"object"`
	ID          string          `json:"id"`
	DataSources []DataSourceRef `json:"data_sources"`
}

// StatusCondition matches a status property against a value.
type StatusCondition struct {
	Equals string `json:"equals"`
}

// Filter is the subset of the Notion filter grammar used here.
type Filter struct {
	Property string           `json:"property"`
	Status   *StatusCondition `json:"status,omitempty"`
}

// QueryRequest is the body of POST /data_sources/{id}/query.
type QueryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
}

// QueryResponse is one page of query results.
type QueryResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Cursor returns the cursor for the next page, or "" when paging is done.
func (r *QueryResponse) Cursor() string {
	if !r.HasMore || r.NextCursor == nil {
		return ""
	}
	return *r.NextCursor
}
