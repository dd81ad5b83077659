package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrMissingToken     = errors.New("missing NOTION_TOKEN. Set it in your environment before refreshing resources cache")
	ErrMissingContainer = errors.New("missing NOTION_RR_RESOURCES_ID. Set it in your environment before refreshing resources cache")
	ErrNoRecords        = errors.New("no up-to-date resources were returned from Notion. Cache refresh aborted")
)
