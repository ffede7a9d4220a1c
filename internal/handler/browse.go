// This file defines handlers for the public browsing API. These routes let
// unauthenticated users inspect shows, seat availability and parking lots
// before deciding to book. Sensitive fields (owner IDs, internal timestamps)
// are filtered from responses.

package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
type PublicHandler struct {
	Shows    *repository.ShowRepo
	Theatres *repository.TheatreRepo
	Screens  *repository.ScreenRepo
	Bookings *repository.BookingRepo
	Parking  *repository.ParkingRepo
}

func NewPublicHandler(shows *repository.ShowRepo, theatres *repository.TheatreRepo, screens *repository.ScreenRepo, bookings *repository.BookingRepo, parking *repository.ParkingRepo) *PublicHandler {
	return &PublicHandler{Shows: shows, Theatres: theatres, Screens: screens, Bookings: bookings, Parking: parking}
}

// publicShow is a show detail response with theatre and screen context.
type publicShow struct {
	ID             uint64  `json:"id"`
	MovieName      string  `json:"movie_name"`
	Language       string  `json:"language"`
	ShowDate       string  `json:"show_date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	TicketPrice    float64 `json:"ticket_price"`
	AvailableSeats int     `json:"available_seats"`
	TheatreID      uint64  `json:"theatre_id"`
	TheatreName    string  `json:"theatre_name"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	ScreenID       uint64  `json:"screen_id"`
	ScreenNo       int     `json:"screen_no"`
}

// GetPublicShow returns a single show with its theatre and screen names.
func (h *PublicHandler) GetPublicShow(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	show, err := h.Shows.GetShow(ctx, id)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	theatre, err := h.Theatres.GetByID(ctx, show.TheatreID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	screen, err := h.Screens.GetScreen(ctx, show.ScreenID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, publicShow{
		ID:             show.ID,
		MovieName:      show.MovieName,
		Language:       show.Language,
		ShowDate:       show.ShowDate,
		StartTime:      show.StartTime,
		EndTime:        show.EndTime,
		TicketPrice:    show.TicketPrice,
		AvailableSeats: show.AvailableSeats,
		TheatreID:      theatre.ID,
		TheatreName:    theatre.Name,
		City:           theatre.City,
		State:          theatre.State,
		ScreenID:       screen.ID,
		ScreenNo:       screen.ScreenNumber,
	})
}

// GetPublicShowSeats returns the screen grid extents plus every seat already
// booked for the show, so clients can render the layout and grey out taken
// coordinates. Availability is advisory; booking enforces the real check.
func (h *PublicHandler) GetPublicShowSeats(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	show, err := h.Shows.GetShow(ctx, id)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	screen, err := h.Screens.GetScreen(ctx, show.ScreenID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	booked, err := h.Bookings.ActiveSeats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if booked == nil {
		booked = []model.SeatCoord{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"show_id":       show.ID,
		"total_rows":    screen.TotalRows,
		"total_columns": screen.TotalColumns,
		"booked_seats":  booked,
	})
}

// reservedSpotKeys renders committed spots as "lotID-floor-row-col" keys,
// the flat list the seat-map client expects.
func reservedSpotKeys(spots []model.ParkingSpot) []string {
	keys := make([]string, 0, len(spots))
	for _, sp := range spots {
		keys = append(keys, fmt.Sprintf("%d-%d-%d-%d", sp.LotID, sp.Floor, sp.Row, sp.Col))
	}
	return keys
}

// GetPublicTheatreParkings lists a theatre's parking lots together with the
// occupied spots keyed "lotID-floor-row-col", matching the coordinate shape
// the booking request uses.
func (h *PublicHandler) GetPublicTheatreParkings(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Theatres.GetByID(ctx, id); err != nil {
		if err == repository.ErrTheatreNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	lots, err := h.Parking.ListLots(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	spots, err := h.Parking.ListReservedSpots(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if lots == nil {
		lots = []model.ParkingLot{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"parkings":       lots,
		"reserved_spots": reservedSpotKeys(spots),
	})
}

// ListPublicShows lists the shows of one theatre.
func (h *PublicHandler) ListPublicShows(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Theatres.GetByID(ctx, id); err != nil {
		if err == repository.ErrTheatreNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	shows, err := h.Shows.ListByTheatre(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if shows == nil {
		shows = []model.Show{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shows})
}
