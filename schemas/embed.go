// Package schemas embeds the JSON Schemas that describe LLM replies and API payloads.
package schemas

import "embed"

// Files holds every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS
