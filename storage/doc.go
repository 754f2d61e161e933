// Package storage defines the graph store boundary: persistent entities and
// relationships with transactional batch mutation, write-time acyclicity,
// vector and lexical ranking, and one-hop neighborhood queries.
//
// Implementations live in subpackages (badger for the BadgerDB backend).
// The GraphTx interface scopes all graph mutation to a single transaction so
// a failed batch never leaves partial state behind.
package storage
