package pokeapi

import (
	"fmt"
	"strings"
)

// NamedRef is a lightweight reference from the listing endpoint. It carries
// the resource name and the URL of the full record.
type NamedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListResponse is the payload of GET /pokemon?limit=N. Only Results is
// consumed by the loader; Count is decoded for completeness.
type ListResponse struct {
	Count   int        `json:"count"`
	Results []NamedRef `json:"results"`
}

// NamedResource is the generic {name, url} pair PokeAPI nests everywhere.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// TypeSlot is one entry of a Pokémon's ordered type list.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// AbilitySlot is one entry of a Pokémon's ability list.
type AbilitySlot struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
}

// StatValue is one base stat entry. Six entries are expected but not
// validated.
type StatValue struct {
	Stat     NamedResource `json:"stat"`
	BaseStat int           `json:"base_stat"`
}

// Sprites holds the sprite URLs the catalog uses.
type Sprites struct {
	FrontDefault string `json:"front_default"`
}

// Pokemon is one full catalog record as returned by the record endpoint.
// ID is stable and globally unique; it doubles as the sort and navigation
// key.
type Pokemon struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Height         int           `json:"height"`
	Weight         int           `json:"weight"`
	BaseExperience int           `json:"base_experience"`
	Types          []TypeSlot    `json:"types"`
	Sprites        Sprites       `json:"sprites"`
	Abilities      []AbilitySlot `json:"abilities"`
	Stats          []StatValue   `json:"stats"`
}

// Validate checks the required fields of a fetched record: a positive id,
// a non-empty name and at least one type. A record failing validation is
// never partially usable.
func (p *Pokemon) Validate() error {
	var missing []string
	if p.ID <= 0 {
		missing = append(missing, "id")
	}
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if len(p.Types) == 0 {
		missing = append(missing, "types")
	}
	if len(missing) > 0 {
		return &MalformedRecordError{Missing: missing}
	}
	return nil
}

// HasType reports whether the record carries the given type tag.
func (p *Pokemon) HasType(name string) bool {
	for _, t := range p.Types {
		if t.Type.Name == name {
			return true
		}
	}
	return false
}

// TypeNames returns the record's type tags in slot order.
func (p *Pokemon) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// Number returns the zero-padded 4-digit display number, e.g. "0007".
func (p *Pokemon) Number() string {
	return fmt.Sprintf("%04d", p.ID)
}

// FlavorTextEntry is one localized flavor text of a species.
type FlavorTextEntry struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
}

// Species is the subset of the species endpoint the detail view consumes.
type Species struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	FlavorTextEntries []FlavorTextEntry `json:"flavor_text_entries"`
}

// FlavorText returns the first flavor text for the given language with
// form feeds and newlines collapsed to spaces. Returns "" if the language
// is not present.
func (s *Species) FlavorText(lang string) string {
	for _, e := range s.FlavorTextEntries {
		if e.Language.Name == lang {
			r := strings.NewReplacer("\f", " ", "\n", " ")
			return r.Replace(e.FlavorText)
		}
	}
	return ""
}
