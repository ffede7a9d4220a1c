package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/theatre-booking/internal/model"
)

func TestNextPointsBalance(t *testing.T) {
	cases := []struct {
		name                   string
		current, redeem, award int64
		want                   int64
	}{
		{"plain award", 0, 0, 150, 150},
		{"redeem and award", 50, 30, 70, 90},
		{"floors at zero", 10, 10, 0, 0},
		{"never negative", 5, 100, 0, 0},
		{"clamps at ceiling", model.PointsCeiling - 10, 0, 100, model.PointsCeiling},
		{"at ceiling stays", model.PointsCeiling, 0, 1, model.PointsCeiling},
		{"redeem below ceiling reopens headroom", model.PointsCeiling, 100, 50, model.PointsCeiling - 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, model.NextPointsBalance(tc.current, tc.redeem, tc.award))
		})
	}
}
