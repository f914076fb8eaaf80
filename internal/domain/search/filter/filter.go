// Package filter implements the hard-filter predicate set applied
// identically to both retrieval passes. It is stateless and knows
// nothing about the record store, so it can be unit-tested in isolation
// and re-applied by the engine when a store cannot push a predicate down.
package filter

import (
	"fmt"
	"strings"

	"github.com/hireloop/matchdex/internal/domain/record"
)

// MaxRequiredSkills bounds the skills filter to keep pushed-down queries sane.
const MaxRequiredSkills = 32

// Set is the structured filter set for one search call.
// A zero field imposes no constraint (open interval semantics).
type Set struct {
	tenantID       string
	status         string
	location       string
	experienceMin  *float64
	experienceMax  *float64
	salaryMin      *float64
	salaryMax      *float64
	requiredSkills []string
}

// New validates and creates a filter Set.
// Inverted ranges are rejected here, before any store call.
func New(
	tenantID, status, location string,
	experienceMin, experienceMax *float64,
	salaryMin, salaryMax *float64,
	requiredSkills []string,
) (Set, error) {
	if experienceMin != nil && experienceMax != nil && *experienceMin > *experienceMax {
		return Set{}, fmt.Errorf("experience_min %g exceeds experience_max %g", *experienceMin, *experienceMax)
	}
	if salaryMin != nil && salaryMax != nil && *salaryMin > *salaryMax {
		return Set{}, fmt.Errorf("salary_min %g exceeds salary_max %g", *salaryMin, *salaryMax)
	}
	if len(requiredSkills) > MaxRequiredSkills {
		return Set{}, fmt.Errorf("too many required skills (max %d)", MaxRequiredSkills)
	}
	skills := make([]string, 0, len(requiredSkills))
	for _, s := range requiredSkills {
		s = strings.TrimSpace(s)
		if s != "" {
			skills = append(skills, s)
		}
	}
	return Set{
		tenantID:       tenantID,
		status:         status,
		location:       location,
		experienceMin:  experienceMin,
		experienceMax:  experienceMax,
		salaryMin:      salaryMin,
		salaryMax:      salaryMax,
		requiredSkills: skills,
	}, nil
}

// TenantID returns the caller's tenant identifier, empty when unset.
func (s Set) TenantID() string { return s.tenantID }

// Status returns the required record status, empty when unset.
func (s Set) Status() string { return s.status }

// Location returns the location substring filter, empty when unset.
func (s Set) Location() string { return s.location }

// ExperienceMin returns the lower experience bound, nil when unset.
func (s Set) ExperienceMin() *float64 { return s.experienceMin }

// ExperienceMax returns the upper experience bound, nil when unset.
func (s Set) ExperienceMax() *float64 { return s.experienceMax }

// SalaryMin returns the lower salary bound, nil when unset.
func (s Set) SalaryMin() *float64 { return s.salaryMin }

// SalaryMax returns the upper salary bound, nil when unset.
func (s Set) SalaryMax() *float64 { return s.salaryMax }

// RequiredSkills returns the required-skills filter, nil when unset.
func (s Set) RequiredSkills() []string { return s.requiredSkills }

// IsEmpty reports whether the set imposes no constraints.
func (s Set) IsEmpty() bool {
	return s.tenantID == "" && s.status == "" && s.location == "" &&
		s.experienceMin == nil && s.experienceMax == nil &&
		s.salaryMin == nil && s.salaryMax == nil &&
		len(s.requiredSkills) == 0
}

// Matches evaluates the full predicate set against a record.
// Both retrieval passes call this on every hit, so filter semantics stay
// identical even when the store could only push part of the set down.
func (s Set) Matches(r *record.Record) bool {
	if s.tenantID != "" && r.Owner() != "" && r.Owner() != s.tenantID {
		return false
	}
	if s.status != "" && r.Status() != s.status {
		return false
	}
	if s.location != "" && !containsFold(r.Location(), s.location) {
		return false
	}
	if s.experienceMin != nil && r.Experience() < *s.experienceMin {
		return false
	}
	if s.experienceMax != nil && r.Experience() > *s.experienceMax {
		return false
	}
	// Salary band overlap: the record band must intersect the filter band.
	if s.salaryMax != nil && r.SalaryMin() > *s.salaryMax {
		return false
	}
	if s.salaryMin != nil && r.SalaryMax() < *s.salaryMin {
		return false
	}
	if len(s.requiredSkills) > 0 && !skillsIntersect(r.Skills(), s.requiredSkills) {
		return false
	}
	return true
}

// skillsIntersect reports whether any required skill is present on the record.
func skillsIntersect(have, required []string) bool {
	for _, req := range required {
		for _, h := range have {
			if strings.EqualFold(h, req) {
				return true
			}
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
