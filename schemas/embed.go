// Package schemas holds the JSON Schemas for documents exchanged with the CLI and the API.
package schemas

import _ "embed"

// CVDocument is the JSON Schema for a serialized CV document.
//
//go:embed cv_document.schema.json
var CVDocument []byte
