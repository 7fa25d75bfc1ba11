package handler

// API prefixes. Keep a single source of truth to avoid path drift across handlers and tests.
// The member search is exposed once per version: v1 unpaged, v2 paged with
// a count, v3 paged with the count skipped when it can be derived.
const (
	APIV1Prefix = "/api/v1"
	APIV2Prefix = "/api/v2"
	APIV3Prefix = "/api/v3"
)
