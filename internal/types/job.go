// Package types provides the data model shared by the extraction, matching, scoring and optimization packages.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"sort"
	"strings"
)

// PhraseFields lists the JobData list fields that contribute requirement phrases, in canonical order.
var PhraseFields = []string{"skills", "requirements", "technologies", "tools", "qualifications"}

// PhraseList is a list of job requirement phrases.
// Non-array JSON values decode to nil so a malformed field is treated as absent.
type PhraseList []string

// UnmarshalJSON accepts an array of strings (other scalar elements are kept as their raw text).
func (p *PhraseList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*p = nil
		return nil
	}

	out := make(PhraseList, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		text := strings.TrimSpace(string(item))
		if text != "null" {
			out = append(out, text)
		}
	}
	*p = out
	return nil
}

// JobData is the caller-provided description of a job posting.
type JobData struct {
	Title          string     `json:"title,omitempty"`
	Description    string     `json:"description,omitempty"`
	Skills         PhraseList `json:"skills,omitempty"`
	Requirements   PhraseList `json:"requirements,omitempty"`
	Technologies   PhraseList `json:"technologies,omitempty"`
	Tools          PhraseList `json:"tools,omitempty"`
	Qualifications PhraseList `json:"qualifications,omitempty"`
}

// Field returns the list for a phrase field name and whether the field was provided.
func (j JobData) Field(name string) ([]string, bool) {
	var list PhraseList
	switch name {
	case "skills":
		list = j.Skills
	case "requirements":
		list = j.Requirements
	case "technologies":
		list = j.Technologies
	case "tools":
		list = j.Tools
	case "qualifications":
		list = j.Qualifications
	}
	return list, list != nil
}

// Phrases returns the trimmed, de-duplicated, sorted union of all phrase fields.
func (j JobData) Phrases() []string {
	seen := make(map[string]bool)
	phrases := make([]string, 0)
	for _, name := range PhraseFields {
		list, _ := j.Field(name)
		for _, p := range list {
			p = strings.TrimSpace(p)
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			phrases = append(phrases, p)
		}
	}
	sort.Strings(phrases)
	return phrases
}

// IsEmpty reports whether no field of the job data carries content.
func (j JobData) IsEmpty() bool {
	if strings.TrimSpace(j.Title) != "" || strings.TrimSpace(j.Description) != "" {
		return false
	}
	for _, name := range PhraseFields {
		if list, _ := j.Field(name); len(list) > 0 {
			return false
		}
	}
	return true
}
