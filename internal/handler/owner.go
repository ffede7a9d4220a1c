package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/repository"
)

// OwnerHandler bundles repositories for owners to manage theatres, screens,
// parking lots and shows.
type OwnerHandler struct {
	Theatres *repository.TheatreRepo
	Screens  *repository.ScreenRepo
	Parking  *repository.ParkingRepo
	Shows    *repository.ShowRepo
}

func NewOwnerHandler(theatres *repository.TheatreRepo, screens *repository.ScreenRepo, parking *repository.ParkingRepo, shows *repository.ShowRepo) *OwnerHandler {
	if theatres == nil || screens == nil || parking == nil || shows == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{Theatres: theatres, Screens: screens, Parking: parking, Shows: shows}
}

// ownedTheatre loads the theatre and verifies the caller owns it.
func (h *OwnerHandler) ownedTheatre(ctx context.Context, c echo.Context, theatreID uint64) (*model.Theatre, error) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	t, err := h.Theatres.GetByID(ctx, theatreID)
	if err != nil {
		if err == repository.ErrTheatreNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "theatre not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}
	if t.OwnerID != uid {
		return nil, echo.NewHTTPError(http.StatusForbidden, "not your theatre")
	}
	return t, nil
}

type createTheatreReq struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// CreateTheatre handles POST /v1/theatres.
func (h *OwnerHandler) CreateTheatre(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createTheatreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.City) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/city required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := &model.Theatre{OwnerID: uid, Name: req.Name, City: strings.TrimSpace(req.City), State: strings.TrimSpace(req.State)}
	if err := h.Theatres.Create(ctx, t); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "theatre name already exists in this city"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theatre failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

type createScreenReq struct {
	ScreenNumber int `json:"screen_number"`
	TotalRows    int `json:"total_rows"`
	TotalColumns int `json:"total_columns"`
}

// CreateScreen handles POST /v1/theatres/:id/screens.
func (h *OwnerHandler) CreateScreen(c echo.Context) error {
	theatreID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req createScreenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ScreenNumber <= 0 || req.TotalRows <= 0 || req.TotalColumns <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screen_number/total_rows/total_columns must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.ownedTheatre(ctx, c, theatreID); err != nil {
		return err
	}
	s := &model.Screen{TheatreID: theatreID, ScreenNumber: req.ScreenNumber, TotalRows: req.TotalRows, TotalColumns: req.TotalColumns}
	if err := h.Screens.Create(ctx, s); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "screen number already exists in this theatre"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create screen failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

type createLotReq struct {
	FloorNumber  int `json:"floor_number"`
	TotalRows    int `json:"total_rows"`
	TotalColumns int `json:"total_columns"`
}

// CreateParkingLot handles POST /v1/theatres/:id/parkings.
func (h *OwnerHandler) CreateParkingLot(c echo.Context) error {
	theatreID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req createLotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FloorNumber < 0 || req.TotalRows <= 0 || req.TotalColumns <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "floor_number must be >= 0 and grid extents positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.ownedTheatre(ctx, c, theatreID); err != nil {
		return err
	}
	lot := &model.ParkingLot{TheatreID: theatreID, FloorNumber: req.FloorNumber, TotalRows: req.TotalRows, TotalColumns: req.TotalColumns}
	if err := h.Parking.CreateLot(ctx, lot); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "parking floor already exists in this theatre"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create parking lot failed"})
	}
	return c.JSON(http.StatusCreated, lot)
}

type createShowReq struct {
	TheatreID   uint64  `json:"theatre_id"`
	ScreenID    uint64  `json:"screen_id"`
	MovieName   string  `json:"movie_name"`
	Language    string  `json:"language"`
	ShowDate    string  `json:"show_date"`  // YYYY-MM-DD
	StartTime   string  `json:"start_time"` // HH:MM
	EndTime     string  `json:"end_time"`   // HH:MM
	TicketPrice float64 `json:"ticket_price"`
}

// CreateShow handles POST /v1/shows. The advisory seat counter starts at
// the screen's full capacity.
func (h *OwnerHandler) CreateShow(c echo.Context) error {
	var req createShowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.MovieName = strings.TrimSpace(req.MovieName)
	if req.TheatreID == 0 || req.ScreenID == 0 || req.MovieName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theatre_id/screen_id/movie_name required"})
	}
	if req.TicketPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_price must not be negative"})
	}
	if _, err := time.Parse("2006-01-02", req.ShowDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_date must be YYYY-MM-DD"})
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM"})
	}
	if _, err := time.Parse("15:04", req.EndTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be HH:MM"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.ownedTheatre(ctx, c, req.TheatreID); err != nil {
		return err
	}
	screen, err := h.Screens.GetScreen(ctx, req.ScreenID)
	if err != nil {
		if err == repository.ErrScreenNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if screen.TheatreID != req.TheatreID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screen does not belong to this theatre"})
	}

	s := &model.Show{
		TheatreID:      req.TheatreID,
		ScreenID:       req.ScreenID,
		MovieName:      req.MovieName,
		Language:       strings.TrimSpace(req.Language),
		ShowDate:       req.ShowDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		TicketPrice:    req.TicketPrice,
		AvailableSeats: screen.TotalRows * screen.TotalColumns,
	}
	if err := h.Shows.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}
	return c.JSON(http.StatusCreated, s)
}
