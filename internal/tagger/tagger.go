// Package tagger produces sentence-segmented, entity-annotated documents.
package tagger

import (
	"context"
	"strings"

	"github.com/agenthands/ise/internal/core/model"
)

type Tagger interface {
	Tag(ctx context.Context, text string) (model.Document, error)
}

// MapLabel folds an NER label into the closed entity vocabulary. Location
// subtypes collapse to LOCATION so the classifier's strict type check sees a
// single place type. Other vocabulary labels pass through and anything
// unknown becomes OTHER.
func MapLabel(label string) model.EntityType {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "ORG":
		return model.Organization
	case "GPE", "LOC", string(model.City), string(model.StateOrProvince), string(model.Country):
		return model.Location
	case "PER":
		return model.Person
	}
	return model.ParseEntityType(label)
}
