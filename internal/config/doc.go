// Package config provides configuration loading, merging, and validation
// facilities for the reconciliation server.
//
// Configuration is assembled from multiple sources in the following priority
// order (an earlier source wins for fields it populates):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// The merged result is validated before use; see GetStructuredConfig.
package config
