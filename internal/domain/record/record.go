// Package record defines the candidate/job entity the search engine ranks.
// Records are owned by the ingestion pipeline; the engine only reads them.
package record

// StatusActive is the status value that makes a record searchable by default.
const StatusActive = "active"

// Record is a candidate or job entity (immutable value object).
// Vector and lexical document are both optional: a record missing one
// still participates in the other retrieval pass; a record missing both
// can never surface in results.
type Record struct {
	id          string
	owner       string // empty = unowned, visible to every tenant
	status      string
	title       string
	company     string
	location    string
	skills      []string
	experience  float64 // years
	salaryMin   float64
	salaryMax   float64
	description string
	vector      []float32
	lexicalDoc  string
}

// Reconstruct builds a Record from store fields without validation.
// The engine never creates records, it only rehydrates them.
func Reconstruct(
	id, owner, status, title, company, location string,
	skills []string,
	experience, salaryMin, salaryMax float64,
	description string,
	vector []float32,
	lexicalDoc string,
) Record {
	return Record{
		id: id, owner: owner, status: status,
		title: title, company: company, location: location,
		skills: skills, experience: experience,
		salaryMin: salaryMin, salaryMax: salaryMax,
		description: description, vector: vector, lexicalDoc: lexicalDoc,
	}
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// Owner returns the tenant identifier, empty for unowned records.
func (r *Record) Owner() string { return r.owner }

// Status returns the record status.
func (r *Record) Status() string { return r.status }

// Title returns the current title of a candidate or the job title.
func (r *Record) Title() string { return r.title }

// Company returns the company name.
func (r *Record) Company() string { return r.company }

// Location returns the free-text location.
func (r *Record) Location() string { return r.location }

// Skills returns the skills list.
func (r *Record) Skills() []string { return r.skills }

// Experience returns experience in years.
func (r *Record) Experience() float64 { return r.experience }

// SalaryMin returns the lower salary band boundary.
func (r *Record) SalaryMin() float64 { return r.salaryMin }

// SalaryMax returns the upper salary band boundary.
func (r *Record) SalaryMax() float64 { return r.salaryMax }

// Description returns the free-text description.
func (r *Record) Description() string { return r.description }

// Vector returns the semantic embedding, nil when absent.
func (r *Record) Vector() []float32 { return r.vector }

// LexicalDoc returns the derived lexical document, empty when absent.
func (r *Record) LexicalDoc() string { return r.lexicalDoc }

// HasVector reports whether the record can participate in the vector pass.
func (r *Record) HasVector() bool { return len(r.vector) > 0 }

// HasLexicalDoc reports whether the record can participate in the lexical pass.
func (r *Record) HasLexicalDoc() bool { return r.lexicalDoc != "" }
