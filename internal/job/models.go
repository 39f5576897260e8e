package job

import (
	"bytes"
	"encoding/json"
	"time"
)

// Job is a single job listing. The ID is assigned by the repository on
// create and is opaque to everything above it.
type Job struct {
	ID          string    `json:"id"`
	Type        string    `json:"type" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Salary      string    `json:"salary" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Company     Company   `json:"company"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Company is the hiring company embedded in every Job.
type Company struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description,omitempty"`
	ContactEmail string `json:"contactEmail" validate:"required"`
	ContactPhone string `json:"contactPhone,omitempty"`
}

// Clone returns a copy that shares no memory with j.
func (j *Job) Clone() *Job {
	c := *j
	return &c
}

// Patch carries the fields of a create or update request. A nil field was
// not supplied by the client and leaves the target untouched; a field sent
// as JSON null clears it.
type Patch struct {
	Type        *string       `json:"type"`
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Salary      *string       `json:"salary"`
	Location    *string       `json:"location"`
	Company     *CompanyPatch `json:"company"`

	// nulls holds the paths sent as JSON null ("title", "company", "company.name").
	nulls map[string]bool
}

type CompanyPatch struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ContactEmail *string `json:"contactEmail"`
	ContactPhone *string `json:"contactPhone"`
}

// UnmarshalJSON decodes the fields as usual and then records which keys
// were explicitly null. Type errors keep their nested field path.
func (p *Patch) UnmarshalJSON(data []byte) error {
	type plain Patch
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.nulls = nullPaths(raw)
	return nil
}

func nullPaths(raw map[string]json.RawMessage) map[string]bool {
	out := map[string]bool{}
	for k, v := range raw {
		if isNull(v) {
			out[k] = true
			continue
		}
		if k != "company" {
			continue
		}
		var sub map[string]json.RawMessage
		if json.Unmarshal(v, &sub) != nil {
			continue
		}
		for sk, sv := range sub {
			if isNull(sv) {
				out["company."+sk] = true
			}
		}
	}
	return out
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// Apply merges the supplied fields into j. Company fields are merged one by
// one so a client can change the contact email without resending the name.
// A null company clears the whole company.
func (p Patch) Apply(j *Job) {
	p.set(&j.Type, "type", p.Type)
	p.set(&j.Title, "title", p.Title)
	p.set(&j.Description, "description", p.Description)
	p.set(&j.Salary, "salary", p.Salary)
	p.set(&j.Location, "location", p.Location)
	if p.nulls["company"] {
		j.Company = Company{}
	}
	c := p.Company
	if c == nil {
		c = &CompanyPatch{}
	}
	p.set(&j.Company.Name, "company.name", c.Name)
	p.set(&j.Company.Description, "company.description", c.Description)
	p.set(&j.Company.ContactEmail, "company.contactEmail", c.ContactEmail)
	p.set(&j.Company.ContactPhone, "company.contactPhone", c.ContactPhone)
}

// New builds an unsaved Job from a create request.
func (p Patch) New() *Job {
	j := &Job{}
	p.Apply(j)
	return j
}

func (p Patch) set(dst *string, path string, v *string) {
	switch {
	case v != nil:
		*dst = *v
	case p.nulls[path]:
		*dst = ""
	}
}

// Now returns the current time at the precision the document store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NextUpdatedAt returns the updatedAt value for a record last touched at
// prev. The result is always strictly after prev.
func NextUpdatedAt(prev time.Time) time.Time {
	now := Now()
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
