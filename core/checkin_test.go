package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInByCodeRegisters(t *testing.T) {
	db := newTestDB(t)
	seedGuest(t, db, "ABC1", "Jane Doe")

	outcome, err := CheckInByCode(db, "ABC1", Provenance{
		DeviceInfo: strPtr(`{"type":"scanner"}`),
		Location:   strPtr("Main gate"),
	})
	require.NoError(t, err)
	assert.False(t, outcome.Duplicate)
	assert.Equal(t, "Jane Doe", outcome.Guest.Name)
	assert.False(t, outcome.CheckInTime.IsZero())
	assert.EqualValues(t, 1, ledgerCount(t, db))
}

func TestCheckInByCodeIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedGuest(t, db, "ABC1", "Jane Doe")

	first, err := CheckInByCode(db, "ABC1", Provenance{})
	require.NoError(t, err)
	require.False(t, first.Duplicate)

	for i := 0; i < 4; i++ {
		repeat, err := CheckInByCode(db, "ABC1", Provenance{})
		require.NoError(t, err)
		assert.True(t, repeat.Duplicate)
		assert.True(t, repeat.CheckInTime.Equal(first.CheckInTime),
			"repeat must report the original check-in time")
	}
	assert.EqualValues(t, 1, ledgerCount(t, db))
}

func TestCheckInUnknownCode(t *testing.T) {
	db := newTestDB(t)
	seedGuest(t, db, "ABC1", "Jane Doe")

	outcome, err := CheckInByCode(db, "ZZZZ", Provenance{})
	assert.ErrorIs(t, err, ErrGuestNotFound)
	assert.Nil(t, outcome)
	assert.EqualValues(t, 0, ledgerCount(t, db))
}

func TestCheckInEmptyCode(t *testing.T) {
	db := newTestDB(t)

	_, err := CheckInByCode(db, "", Provenance{})
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestCheckInByID(t *testing.T) {
	db := newTestDB(t)
	guest := seedGuest(t, db, "ABC1", "Jane Doe")

	outcome, err := CheckInByID(db, guest.ID, Provenance{Notes: strPtr("front desk")})
	require.NoError(t, err)
	assert.False(t, outcome.Duplicate)

	repeat, err := CheckInByID(db, guest.ID, Provenance{})
	require.NoError(t, err)
	assert.True(t, repeat.Duplicate)
	assert.True(t, repeat.CheckInTime.Equal(outcome.CheckInTime))

	_, err = CheckInByID(db, guest.ID+100, Provenance{})
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestCheckInConcurrent(t *testing.T) {
	db := newTestDB(t)
	seedGuest(t, db, "ABC1", "Jane Doe")

	const callers = 16
	outcomes := make([]*Outcome, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = CheckInByCode(db, "ABC1", Provenance{})
		}(i)
	}
	wg.Wait()

	registered := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, outcomes[i])
		if !outcomes[i].Duplicate {
			registered++
		}
		assert.True(t, outcomes[i].CheckInTime.Equal(outcomes[0].CheckInTime),
			"every caller must see the same timestamp")
	}
	assert.Equal(t, 1, registered, "exactly one caller wins the insert")
	assert.EqualValues(t, 1, ledgerCount(t, db))
}

func TestMarkAbsentReopensCheckIn(t *testing.T) {
	db := newTestDB(t)
	guest := seedGuest(t, db, "ABC1", "Jane Doe")

	first, err := CheckInByCode(db, "ABC1", Provenance{})
	require.NoError(t, err)

	require.NoError(t, MarkAbsent(db, guest.ID))
	assert.EqualValues(t, 0, ledgerCount(t, db))

	again, err := CheckInByCode(db, "ABC1", Provenance{})
	require.NoError(t, err)
	assert.False(t, again.Duplicate)
	assert.False(t, again.CheckInTime.Before(first.CheckInTime))
	assert.EqualValues(t, 1, ledgerCount(t, db))
}

func TestMarkAbsentUnknownGuest(t *testing.T) {
	db := newTestDB(t)

	assert.ErrorIs(t, MarkAbsent(db, 42), ErrGuestNotFound)
}

func TestMarkAbsentWithoutRecord(t *testing.T) {
	db := newTestDB(t)
	guest := seedGuest(t, db, "ABC1", "Jane Doe")

	// No attendance yet; deleting nothing is fine.
	assert.NoError(t, MarkAbsent(db, guest.ID))
}

func TestFindGuestByCode(t *testing.T) {
	db := newTestDB(t)
	seedGuest(t, db, "ABC1", "Jane Doe")

	status, err := FindGuestByCode(db, "ABC1")
	require.NoError(t, err)
	assert.False(t, status.HasAttended)
	assert.Nil(t, status.LastCheckIn)

	outcome, err := CheckInByCode(db, "ABC1", Provenance{})
	require.NoError(t, err)

	status, err = FindGuestByCode(db, "ABC1")
	require.NoError(t, err)
	assert.True(t, status.HasAttended)
	require.NotNil(t, status.LastCheckIn)
	assert.True(t, status.LastCheckIn.Equal(outcome.CheckInTime))

	_, err = FindGuestByCode(db, "NOPE")
	assert.ErrorIs(t, err, ErrGuestNotFound)
}
