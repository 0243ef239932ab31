// Package github implements a corpus source backed by a GitHub repository.
//
// The source reads the document tree of one repository at a fixed ref
// (branch, tag or commit). The recursive Git tree is fetched once per
// source and filtered by directory and include patterns, so scanning a
// corpus costs a single API call. File content is read as blobs.
//
// # Authentication
//
// A personal access token is optional for public repositories but
// recommended: authenticated requests get 5,000 requests per hour,
// unauthenticated ones 60. The token is read from corpus.github_token or
// the LEXSYNC_GITHUB_TOKEN environment variable.
//
// # Rate Limiting
//
// Requests are throttled proactively at about 1.2 per second and
// reactively from the X-RateLimit headers. When fewer than 100 requests
// remain the client waits for the reset time.
package github
