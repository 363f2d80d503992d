// Package db provides the embedded seed catalog.
package db

import _ "embed"

// Products is the default catalog document, a JSON array of products.
//
//go:embed seed/products.json
var Products []byte
