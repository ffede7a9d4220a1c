package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-booking/internal/model"
)

func TestReservedSpotKeys(t *testing.T) {
	spots := []model.ParkingSpot{
		{LotID: 1, Floor: 0, Row: 2, Col: 2},
		{LotID: 3, Floor: 1, Row: 0, Col: 4},
	}
	assert.Equal(t, []string{"1-0-2-2", "3-1-0-4"}, reservedSpotKeys(spots))
}

// Clients expect a flat array of key strings; no spots must serialize as
// [] rather than null.
func TestReservedSpotKeysSerializeAsArray(t *testing.T) {
	out, err := json.Marshal(reservedSpotKeys(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))

	out, err = json.Marshal(reservedSpotKeys([]model.ParkingSpot{{LotID: 2, Floor: 0, Row: 1, Col: 3}}))
	require.NoError(t, err)
	assert.Equal(t, `["2-0-1-3"]`, string(out))
}
