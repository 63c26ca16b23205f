// Package relation holds the catalogue of relation types a run can target.
package relation

import (
	"errors"
	"fmt"

	"github.com/agenthands/ise/internal/core/model"
)

var ErrUnknownRelation = errors.New("unknown relation type")

// Spec is the fixed signature and prompt material of one relation type.
type Spec struct {
	ID int
	// Name is the token a generative answer must carry, e.g. "Work_For".
	Name        string
	Description string

	Subject model.EntityType
	Object  model.EntityType
	// EntityTypes is every type worth tagging for this relation.
	EntityTypes []model.EntityType

	// ClassifierLabels are the classifier labels that count as this relation.
	ClassifierLabels []string

	ImplicitHint string
	AnswerFormat string
	Example      string
}

// NoRelation is the reserved classifier label for "no relation".
const NoRelation = "no_relation"

var catalogue = []Spec{
	{
		ID:               1,
		Name:             "Schools_Attended",
		Description:      "schools attended",
		Subject:          model.Person,
		Object:           model.Organization,
		EntityTypes:      []model.EntityType{model.Person, model.Organization},
		ClassifierLabels: []string{"per:schools_attended"},
		ImplicitHint:     "obtaining degrees, academic positions, or other educational affiliations, either at the school or department within the school (i.e. Department of Management Science and Engineering)",
		AnswerFormat:     `["Person", "Schools_Attended", "School Name"]`,
		Example:          `["Jeff Bezos", "Schools_Attended", "Princeton University"]`,
	},
	{
		ID:               2,
		Name:             "Work_For",
		Description:      "companies worked for",
		Subject:          model.Person,
		Object:           model.Organization,
		EntityTypes:      []model.EntityType{model.Person, model.Organization},
		ClassifierLabels: []string{"per:employee_of"},
		ImplicitHint:     "indications of employment or professional involvement with organizations or other affiliations",
		AnswerFormat:     `["Employee Name", "Work_For", "Company"]`,
		Example:          `["Alec Radford", "Work_For", "OpenAI"]`,
	},
	{
		ID:          3,
		Name:        "Live_In",
		Description: "places lived in",
		Subject:     model.Person,
		Object:      model.Location,
		EntityTypes: []model.EntityType{model.Person, model.Location, model.City, model.StateOrProvince, model.Country},
		ClassifierLabels: []string{
			"per:countries_of_residence",
			"per:cities_of_residence",
			"per:stateorprovinces_of_residence",
		},
		ImplicitHint: "indicating the subject's place of residence or any other locations",
		AnswerFormat: `["Person", "Live_In", "City, State, or Country"]`,
		Example:      `["Mariah Carey", "Live_In", "New York City"]`,
	},
	{
		ID:               4,
		Name:             "Top_Member_Employees",
		Description:      "top member employees",
		Subject:          model.Organization,
		Object:           model.Person,
		EntityTypes:      []model.EntityType{model.Organization, model.Person},
		ClassifierLabels: []string{"org:top_members/employees"},
		ImplicitHint:     "indications of leadership or any other significant involvement",
		AnswerFormat:     `["Company", "Top_Member_Employees", "Employee Name"]`,
		Example:          `["Nvidia", "Top_Member_Employees", "Jensen Huang"]`,
	},
}

// Lookup returns the relation with the given 1-based id.
func Lookup(id int) (Spec, error) {
	for _, s := range catalogue {
		if s.ID == id {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: %d (expected 1-%d)", ErrUnknownRelation, id, len(catalogue))
}

// All returns every supported relation in id order.
func All() []Spec {
	out := make([]Spec, len(catalogue))
	copy(out, catalogue)
	return out
}

// Accepts reports whether a classifier label names this relation.
func (s Spec) Accepts(label string) bool {
	for _, l := range s.ClassifierLabels {
		if l == label {
			return true
		}
	}
	return false
}

// Wants reports whether entities of type t are of interest for this relation.
func (s Spec) Wants(t model.EntityType) bool {
	for _, et := range s.EntityTypes {
		if et == t {
			return true
		}
	}
	return false
}
