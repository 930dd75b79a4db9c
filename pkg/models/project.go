package models

// Project is a named grouping of tasks sharing a color tag.
type Project struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Members     []string `json:"members" yaml:"members"`
	Color       string   `json:"color" yaml:"color"` // display token, opaque to the core
}

// ProjectDraft holds the fields of a project before an ID is assigned.
type ProjectDraft struct {
	Name        string
	Description string
	Members     []string
	Color       string
}

// ProjectPatch is a partial update applied over an existing project.
// Nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
	Members     *[]string
	Color       *string
}

// Apply merges the patch into pr field by field.
func (p ProjectPatch) Apply(pr *Project) {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.Members != nil {
		pr.Members = append([]string(nil), (*p.Members)...)
	}
	if p.Color != nil {
		pr.Color = *p.Color
	}
}

// User is stored and round-tripped with the snapshot; the core logic does
// not interpret it.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}
