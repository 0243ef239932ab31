// Package connectors provides the clients for the two external systems lexsync
// reconciles: the registry of record (registry) and the corpus, read either
// from a local tree (filesystem) or from a GitHub repository (github).
//
// Each connector implements a driven port and is chosen at startup from the
// corpus.source setting.
package connectors
