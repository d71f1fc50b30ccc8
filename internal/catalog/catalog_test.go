package catalog

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartnersFor_Chase(t *testing.T) {
	partners, err := PartnersFor("chase")
	require.NoError(t, err)
	require.NotEmpty(t, partners)

	assert.Equal(t, []string{Aeroplan, FlyingBlue, JetBlue, KrisFlyer, United, VirginAtlantic}, partners)
	for _, id := range partners {
		_, ok := programNames[id]
		assert.True(t, ok, "partner %q missing from program names", id)
	}
}

func TestPartnersFor_CaseInsensitive(t *testing.T) {
	partners, err := PartnersFor("  Capital-One ")
	require.NoError(t, err)
	assert.Len(t, partners, 12)
}

func TestPartnersFor_ReturnsCopy(t *testing.T) {
	partners, err := PartnersFor("wells-fargo")
	require.NoError(t, err)
	partners[0] = "mutated"

	again, err := PartnersFor("wells-fargo")
	require.NoError(t, err)
	assert.Equal(t, FlyingBlue, again[0])
}

func TestPartnersFor_UnknownCard(t *testing.T) {
	_, err := PartnersFor("not-a-card")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCreditCard))

	var unknown *UnknownCreditCardError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "not-a-card", unknown.Card)
	assert.Equal(t, CardIDs(), unknown.Valid)

	for _, id := range CardIDs() {
		assert.Contains(t, err.Error(), id)
	}
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestEveryPartnerHasAProgramName(t *testing.T) {
	for _, c := range Cards() {
		for _, id := range c.Partners {
			assert.NotEqual(t, id, ProgramName(id), "card %s partner %s has no display name", c.ID, id)
		}
	}
}

func TestCardName(t *testing.T) {
	assert.Equal(t, "Bilt Rewards", CardName("BILT"))
	assert.Equal(t, "mystery-card", CardName("mystery-card"))
}

func TestProgramName(t *testing.T) {
	assert.Equal(t, "United MileagePlus", ProgramName(United))
	assert.Equal(t, "some-new-program", ProgramName("some-new-program"))
}

func TestPrograms_SortedByID(t *testing.T) {
	programs := Programs()
	require.Len(t, programs, len(programNames))
	for i := 1; i < len(programs); i++ {
		assert.Less(t, programs[i-1].ID, programs[i].ID)
	}
}
