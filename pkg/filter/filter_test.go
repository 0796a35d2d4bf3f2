package filter

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestBuilder_GatheringPointTypeResetsDependents(t *testing.T) {
	for _, newValue := range []string{"3", "", "7"} {
		b := NewBuilder()
		require.NoError(t, b.UpdateField(KeyGatheringPointType, "7"))
		require.NoError(t, b.UpdateField(KeyGatheringPoint, "11"))
		require.NoError(t, b.UpdateField(KeyDestination, "12"))
		require.NoError(t, b.UpdateField(KeyGatheringPointTime, "13"))
		require.NoError(t, b.UpdateField(KeyCity, "2"))

		require.NoError(t, b.UpdateField(KeyGatheringPointType, newValue))

		sel := b.Apply()
		assert.Nil(t, sel.GatheringPointID, newValue)
		assert.Nil(t, sel.DestinationID, newValue)
		assert.Nil(t, sel.GatheringPointTimeID, newValue)
		assert.Equal(t, uintPtr(2), sel.CityID, "unrelated keys survive")
	}
}

func TestBuilder_ChildChangeKeepsParent(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.UpdateField(KeyGatheringPointType, "4"))
	require.NoError(t, b.UpdateField(KeyGatheringPoint, "8"))

	sel := b.Apply()
	assert.Equal(t, uintPtr(4), sel.GatheringPointTypeID)
	assert.Equal(t, uintPtr(8), sel.GatheringPointID)
}

func TestBuilder_ResetThenApplyIsEmpty(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.UpdateField(KeyNationality, "1"))
	require.NoError(t, b.UpdateField(KeySource, "import"))
	require.NoError(t, b.UpdateField(KeyGender, "0"))
	b.ToggleSection(SectionHousing)

	b.Reset()

	assert.Equal(t, NewBuilder().Apply(), b.Apply())
	assert.True(t, b.Apply().IsZero())
	assert.False(t, b.Expanded(SectionHousing))
}

func TestBuilder_ApplyReturnsCopy(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.UpdateField(KeyCamp, "5"))
	sel := b.Apply()

	require.NoError(t, b.UpdateField(KeyCamp, "6"))
	assert.Equal(t, uintPtr(5), sel.CampID)
}

func TestBuilder_UpdateFieldErrors(t *testing.T) {
	b := NewBuilder()
	assert.ErrorIs(t, b.UpdateField("colour", "1"), ErrUnknownKey)
	assert.ErrorIs(t, b.UpdateField(KeyCity, "abc"), ErrInvalidValue)
	assert.ErrorIs(t, b.UpdateField(KeyCity, "0"), ErrInvalidValue)
	assert.ErrorIs(t, b.UpdateField(KeyGender, "2"), ErrInvalidValue)
	assert.ErrorIs(t, b.UpdateField(KeySource, "fax"), ErrInvalidValue)
	assert.True(t, b.Apply().IsZero())
}

func TestSelection_ValuesRoundTrip(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.UpdateField(KeyPackage, "9"))
	require.NoError(t, b.UpdateField(KeyMuhrimStatus, "0"))
	require.NoError(t, b.UpdateField(KeySupervisor, "21"))
	require.NoError(t, b.UpdateField(KeySource, "manual"))
	sel := b.Apply()

	v := sel.Values()
	assert.Equal(t, url.Values{
		"package_id":    {"9"},
		"muhrim_status": {"0"},
		"supervisor_id": {"21"},
		"source":        {"manual"},
	}, v)

	v.Set("page", "2")
	parsed, err := ParseValues(v)
	require.NoError(t, err)
	assert.Equal(t, sel, parsed)
}

func TestParseValues_Invalid(t *testing.T) {
	_, err := ParseValues(url.Values{"bus_id": {"-1"}})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestVisibleSections(t *testing.T) {
	assert.Len(t, VisibleSections(""), len(sections))
	assert.Equal(t, []Section{SectionTransport}, VisibleSections("bus"))
	assert.Equal(t, []Section{SectionHousing}, VisibleSections("المخيم"))
	assert.Empty(t, VisibleSections("zzz"))
}

func TestBuilder_SearchExpandsMatches(t *testing.T) {
	b := NewBuilder()
	got := b.Search("health")
	assert.Equal(t, []Section{SectionHealth}, got)
	assert.True(t, b.Expanded(SectionHealth))
	assert.False(t, b.Expanded(SectionTags))

	b.Search("")
	assert.True(t, b.Expanded(SectionHealth))
}

func TestSectionOf(t *testing.T) {
	s, ok := SectionOf(KeyDestination)
	assert.True(t, ok)
	assert.Equal(t, SectionTransport, s)

	for _, k := range Keys {
		_, ok := SectionOf(k)
		assert.True(t, ok, "key %s has no section", k)
	}
}

type stubResolver map[Key]map[uint]string

func (r stubResolver) Resolve(_ context.Context, key Key, id uint) (Option, error) {
	label, ok := r[key][id]
	if !ok {
		return Option{}, errors.New("not found")
	}
	return Option{ID: id, Label: label}, nil
}

func TestHydrate(t *testing.T) {
	sel := Selection{CityID: uintPtr(3), Gender: uintPtr(1), Source: "import"}
	ds, err := Hydrate(context.Background(), sel, stubResolver{KeyCity: {3: "Makkah"}})
	require.NoError(t, err)

	assert.Equal(t, sel, ds.Selection)
	assert.Equal(t, map[Key]Option{
		KeyCity:   {ID: 3, Label: "Makkah"},
		KeyGender: {ID: 1, Label: "Male"},
		KeySource: {Label: "import"},
	}, ds.Options)
}

func TestHydrate_ResolverError(t *testing.T) {
	_, err := Hydrate(context.Background(), Selection{CampID: uintPtr(4)}, stubResolver{})
	assert.Error(t, err)
}
