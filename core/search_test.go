package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"eventgate.io/eventgate/model"
)

func seedDirectory(t *testing.T, db *gorm.DB) {
	t.Helper()

	guests := []model.Guest{
		{ScanCode: "A1", Name: "Ana Silva", Email: strPtr("ana@acme.cl"), Company: strPtr("Acme")},
		{ScanCode: "B2", Name: "Bruno Rojas", Email: strPtr("bruno@initech.cl"), Company: strPtr("Initech")},
		{ScanCode: "C3", Name: "Carla Muñoz", Email: strPtr("carla@acme.cl"), Company: strPtr("Acme")},
		{ScanCode: "D4", Name: "Diego Paz", Email: strPtr("diego@globex.cl"), Company: strPtr("Globex")},
		{ScanCode: "E5", Name: "Elena Vidal", Email: strPtr("elena@initech.cl"), Company: strPtr("Initech")},
	}
	for i := range guests {
		require.NoError(t, db.Create(&guests[i]).Error)
	}
	for _, code := range []string{"A1", "C3"} {
		_, err := CheckInByCode(db, code, Provenance{})
		require.NoError(t, err)
	}
}

func names(items []GuestListItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestSearchGuestsAll(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)

	items, pagination, err := SearchGuests(db, SearchParams{Attendance: FilterAll})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Silva", "Bruno Rojas", "Carla Muñoz", "Diego Paz", "Elena Vidal"}, names(items))
	assert.EqualValues(t, 5, pagination.Total)
	assert.Equal(t, 1, pagination.TotalPages)
	assert.False(t, pagination.HasNext)
	assert.False(t, pagination.HasPrev)
}

func TestSearchGuestsAttendanceFilter(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)

	attended, _, err := SearchGuests(db, SearchParams{Attendance: FilterAttended})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Silva", "Carla Muñoz"}, names(attended))
	for _, it := range attended {
		assert.True(t, it.HasAttended)
		assert.NotNil(t, it.LastCheckIn)
	}

	pending, _, err := SearchGuests(db, SearchParams{Attendance: FilterPending})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bruno Rojas", "Diego Paz", "Elena Vidal"}, names(pending))
	for _, it := range pending {
		assert.False(t, it.HasAttended)
		assert.Nil(t, it.LastCheckIn)
	}
}

func TestSearchGuestsTextIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)

	byName, _, err := SearchGuests(db, SearchParams{Search: "ANA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Silva"}, names(byName))

	byCompany, _, err := SearchGuests(db, SearchParams{Search: "acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Silva", "Carla Muñoz"}, names(byCompany))

	byEmail, _, err := SearchGuests(db, SearchParams{Search: "initech.cl"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bruno Rojas", "Elena Vidal"}, names(byEmail))
}

func TestSearchGuestsCombinesSearchAndFilter(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)

	// Acme ∩ attended = Ana, Carla; Acme ∩ pending = nobody.
	items, _, err := SearchGuests(db, SearchParams{Search: "acme", Attendance: FilterAttended})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Silva", "Carla Muñoz"}, names(items))

	items, pagination, err := SearchGuests(db, SearchParams{Search: "acme", Attendance: FilterPending})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.EqualValues(t, 0, pagination.Total)
}

func TestSearchGuestsPagination(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)

	page1, pagination, err := SearchGuests(db, SearchParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Silva", "Bruno Rojas"}, names(page1))
	assert.Equal(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasNext)
	assert.False(t, pagination.HasPrev)

	page3, pagination, err := SearchGuests(db, SearchParams{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Elena Vidal"}, names(page3))
	assert.False(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)
}

func TestSearchGuestsPageBeyondEnd(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)

	items, pagination, err := SearchGuests(db, SearchParams{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.False(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)
}

func TestSearchGuestsClampsPageSize(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)

	_, pagination, err := SearchGuests(db, SearchParams{Limit: 100000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, pagination.Limit)

	_, pagination, err = SearchGuests(db, SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, pagination.Limit)
	assert.Equal(t, 1, pagination.Page)
}
