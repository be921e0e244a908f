// Copyright © 2018 One Concern

// Package store defines the collaborators consumed by pkgsync: a revisioned object store
// able to hold attachments under container objects, and a state store.
//
// This package supports the following backends:
//   - memory (radix tree, used for tests and dry runs)
//   - badger (persistent, local)
package store
