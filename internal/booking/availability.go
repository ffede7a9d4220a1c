package booking

import (
	"context"
	"fmt"

	"github.com/iliyamo/theatre-booking/internal/model"
)

// CheckSeats reports the first seat in wanted, in request order, that is
// already committed for the show. A nil coordinate means all seats were
// free at read time; the commit can still lose a race.
func (s *Service) CheckSeats(ctx context.Context, showID uint64, wanted []model.SeatCoord) (*model.SeatCoord, error) {
	active, err := s.Seats.ActiveSeats(ctx, showID)
	if err != nil {
		return nil, err
	}
	taken := make(map[model.SeatCoord]struct{}, len(active))
	for _, sc := range active {
		taken[sc] = struct{}{}
	}
	for _, sc := range wanted {
		if _, ok := taken[sc]; ok {
			c := sc
			return &c, nil
		}
	}
	return nil, nil
}

// CheckParkingSpot reports whether the spot is currently reserved anywhere
// in the theatre's lots on that floor and position.
func (s *Service) CheckParkingSpot(ctx context.Context, theatreID uint64, spot model.ParkingSpot) (bool, error) {
	return s.Parking.SpotReserved(ctx, theatreID, spot)
}

// coordKey renders a reserved parking spot the way the public listing does.
func coordKey(row, col int) string {
	return fmt.Sprintf("%d-%d", row, col)
}
