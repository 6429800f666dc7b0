package itinerary_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jicongw/friendly-palm-tree/internal/domain"
	"github.com/jicongw/friendly-palm-tree/internal/itinerary"
)

func at(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func countKinds(items []domain.ItineraryItem) (transport, lodging int) {
	for _, it := range items {
		switch it.Kind {
		case domain.KindTransportation:
			transport++
		case domain.KindLodging:
			lodging++
		}
	}
	return transport, lodging
}

func TestGenerate_TokyoKyotoScenario(t *testing.T) {
	dests := []domain.Destination{
		{City: "Tokyo", DaysToStay: domain.Days(3), Order: 0},
		{City: "Kyoto", Order: 1},
	}

	items, err := itinerary.Generate("San Francisco", dests, date(2025, 1, 1), date(2025, 1, 10))

	require.NoError(t, err)
	require.Len(t, items, 4)

	out := items[0]
	require.Equal(t, domain.KindTransportation, out.Kind)
	assert.Equal(t, "San Francisco", out.Transportation.DepartCity)
	assert.Equal(t, "Tokyo", out.Transportation.ArriveCity)
	assert.Equal(t, "flight", out.Transportation.Mode)
	assert.Equal(t, at(2025, 1, 1, 8), *out.Transportation.DepartTime)
	assert.Equal(t, at(2025, 1, 1, 12), *out.Transportation.ArriveTime)
	assert.Equal(t, "Transportation from San Francisco to Tokyo", out.Description)

	hotel := items[1]
	require.Equal(t, domain.KindLodging, hotel.Kind)
	assert.Equal(t, "Hotel in Tokyo", hotel.Lodging.Name)
	assert.Equal(t, "Tokyo", hotel.Lodging.Address)
	assert.Equal(t, at(2025, 1, 1, 15), *hotel.Lodging.CheckinTime)
	assert.Equal(t, at(2025, 1, 4, 11), *hotel.Lodging.CheckoutTime)
	assert.Equal(t, "Accommodation in Tokyo", hotel.Description)

	// The next leg leaves on the checkout day.
	transfer := items[2]
	require.Equal(t, domain.KindTransportation, transfer.Kind)
	assert.Equal(t, "Tokyo", transfer.Transportation.DepartCity)
	assert.Equal(t, "Kyoto", transfer.Transportation.ArriveCity)
	assert.Equal(t, at(2025, 1, 4, 8), *transfer.Transportation.DepartTime)

	// The return leg is timed from the trip end date.
	ret := items[3]
	require.Equal(t, domain.KindTransportation, ret.Kind)
	assert.Equal(t, "Kyoto", ret.Transportation.DepartCity)
	assert.Equal(t, "San Francisco", ret.Transportation.ArriveCity)
	assert.Equal(t, at(2025, 1, 10, 10), *ret.Transportation.DepartTime)
	assert.Equal(t, at(2025, 1, 10, 14), *ret.Transportation.ArriveTime)
	assert.Equal(t, "Return transportation from Kyoto to San Francisco", ret.Description)
}

func TestGenerate_SingleTerminalDestination(t *testing.T) {
	items, err := itinerary.Generate("San Francisco",
		[]domain.Destination{{City: "Tokyo"}},
		date(2025, 1, 1), date(2025, 1, 10))

	require.NoError(t, err)
	transport, lodging := countKinds(items)
	assert.Equal(t, 2, transport)
	assert.Equal(t, 0, lodging)
	assert.Equal(t, "Tokyo", items[1].Transportation.DepartCity)
	assert.Equal(t, "San Francisco", items[1].Transportation.ArriveCity)
}

func TestGenerate_CountsAndContiguousOrder(t *testing.T) {
	dests := []domain.Destination{
		{City: "Paris", DaysToStay: domain.Days(4), Order: 0},
		{City: "Barcelona", DaysToStay: domain.Days(5), Order: 1},
		{City: "Berlin", DaysToStay: domain.Days(2), Order: 2},
		{City: "Rome", Order: 3},
	}

	items, err := itinerary.Generate("San Francisco", dests, date(2025, 6, 1), date(2025, 6, 15))

	require.NoError(t, err)
	transport, lodging := countKinds(items)
	assert.Equal(t, len(dests)+1, transport)
	assert.Equal(t, 3, lodging, "one lodging per non-terminal destination")

	for i, it := range items {
		assert.Equal(t, i, it.Order)
		assert.NotEmpty(t, it.Description)
	}

	// Cursor advances through every stay: Paris 4 + Barcelona 5 + Berlin 2.
	legToRome := items[len(items)-2]
	assert.Equal(t, "Rome", legToRome.Transportation.ArriveCity)
	assert.Equal(t, at(2025, 6, 12, 8), *legToRome.Transportation.DepartTime)
}

func TestGenerate_LastDestinationWithStayGetsNoLodging(t *testing.T) {
	dests := []domain.Destination{
		{City: "Paris", DaysToStay: domain.Days(4)},
		{City: "Rome", DaysToStay: domain.Days(3)},
	}

	items, err := itinerary.Generate("Boston", dests, date(2025, 6, 1), date(2025, 6, 15))

	require.NoError(t, err)
	transport, lodging := countKinds(items)
	assert.Equal(t, 3, transport)
	assert.Equal(t, 1, lodging)
	assert.Equal(t, at(2025, 6, 15, 10), *items[len(items)-1].Transportation.DepartTime)
}

func TestGenerate_NonTerminalWithoutStayFailsFast(t *testing.T) {
	dests := []domain.Destination{
		{City: "Paris"},
		{City: "Rome", DaysToStay: domain.Days(3)},
	}

	items, err := itinerary.Generate("Boston", dests, date(2025, 6, 1), date(2025, 6, 15))

	assert.Nil(t, items)
	assert.ErrorIs(t, err, domain.ErrInvalidStayLength)
}

func TestGenerate_NonPositiveStayFailsFast(t *testing.T) {
	dests := []domain.Destination{
		{City: "Paris", DaysToStay: domain.Days(0)},
		{City: "Rome"},
	}

	_, err := itinerary.Generate("Boston", dests, date(2025, 6, 1), date(2025, 6, 15))

	assert.ErrorIs(t, err, domain.ErrInvalidStayLength)
}

func TestGenerate_Empty(t *testing.T) {
	items, err := itinerary.Generate("Boston", nil, date(2025, 6, 1), date(2025, 6, 15))

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGenerate_Deterministic(t *testing.T) {
	dests := []domain.Destination{
		{City: "Tokyo", DaysToStay: domain.Days(3)},
		{City: "Kyoto"},
	}

	a, err := itinerary.Generate("San Francisco", dests, date(2025, 1, 1), date(2025, 1, 10))
	require.NoError(t, err)
	b, err := itinerary.Generate("San Francisco", dests, date(2025, 1, 1), date(2025, 1, 10))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
