package relation

import (
	"testing"

	"github.com/agenthands/ise/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	rel, err := Lookup(2)
	require.NoError(t, err)
	assert.Equal(t, "Work_For", rel.Name)
	assert.Equal(t, model.Person, rel.Subject)
	assert.Equal(t, model.Organization, rel.Object)
	assert.True(t, rel.Accepts("per:employee_of"))
	assert.False(t, rel.Accepts("per:schools_attended"))
}

func TestLookup_OutOfRange(t *testing.T) {
	for _, id := range []int{0, 5, -1} {
		_, err := Lookup(id)
		assert.ErrorIs(t, err, ErrUnknownRelation)
	}
}

func TestLiveIn_WantsAllLocationTypes(t *testing.T) {
	rel, err := Lookup(3)
	require.NoError(t, err)
	for _, et := range []model.EntityType{model.Location, model.City, model.StateOrProvince, model.Country, model.Person} {
		assert.True(t, rel.Wants(et), et)
	}
	assert.False(t, rel.Wants(model.Date))
	assert.Len(t, rel.ClassifierLabels, 3)
}

func TestAll_IsCopy(t *testing.T) {
	all := All()
	require.Len(t, all, 4)
	all[0].Name = "changed"
	again, _ := Lookup(1)
	assert.Equal(t, "Schools_Attended", again.Name)
}
