package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"checkinboard/internal/patch"
	"checkinboard/internal/schedule"
	"checkinboard/internal/service"
	"checkinboard/internal/storage"
)

// httpError maps domain errors onto status codes. Validation failures are
// 400s, a missing document is a 404, an unconfirmable clear is a 409, and
// anything unrecognized is a 500.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrNotArmed),
		errors.Is(err, service.ErrWrongClearToken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidTimeSlot),
		errors.Is(err, service.ErrInvalidPackage),
		errors.Is(err, service.ErrUnknownStatusFlag),
		errors.Is(err, service.ErrUnknownDietaryKey),
		errors.Is(err, service.ErrNegativeCount),
		errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrFieldNotPatchable),
		errors.Is(err, patch.ErrEmptyPatch),
		errors.Is(err, patch.ErrBadPath),
		errors.Is(err, schedule.ErrIndexOutOfRange),
		errors.Is(err, schedule.ErrBadDuration),
		errors.Is(err, schedule.ErrUnknownActivity),
		errors.Is(err, schedule.ErrDuplicateActivity),
		errors.Is(err, schedule.ErrActivityNotInBlock):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func (s *Server) handleBeginSession(c echo.Context) error {
	token, err := s.sessions.Begin()
	if err != nil {
		s.log.Error("failed to issue session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleBoard(c echo.Context) error {
	board, err := s.svc.Board(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, board)
}

func (s *Server) handleStats(c echo.Context) error {
	summary, err := s.svc.DailyStats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (s *Server) handleListGroups(c echo.Context) error {
	groups, err := s.svc.Groups(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, groups)
}

func (s *Server) handleCreateGroup(c echo.Context) error {
	g, err := s.svc.CreateGroup(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, g)
}

func (s *Server) handleGetGroup(c echo.Context) error {
	g, err := s.svc.Group(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handlePatchGroup(c echo.Context) error {
	// Decode the body alone: echo's Bind would also merge the :id path
	// parameter into the map, which is not a patchable field.
	var p patch.Patch
	if err := json.NewDecoder(c.Request().Body).Decode(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patch body")
	}
	if err := s.svc.UpdateGroup(c.Request().Context(), c.Param("id"), p); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteGroup(c echo.Context) error {
	if err := s.svc.DeleteGroup(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleToggleStatus(c echo.Context) error {
	if err := s.svc.ToggleStatus(c.Request().Context(), c.Param("id"), c.Param("flag")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSetDietary(c echo.Context) error {
	var body struct {
		Count int `json:"count"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := s.svc.SetDietary(c.Request().Context(), c.Param("id"), c.Param("code"), body.Count); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSetFoodOrder(c echo.Context) error {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := s.svc.SetFoodOrder(c.Request().Context(), c.Param("id"), c.Param("item"), body.Quantity); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleAssignTeamMember(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := s.svc.AssignTeamMember(c.Request().Context(), c.Param("id"), body.Name); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleToggleArea(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := s.svc.ToggleArea(c.Request().Context(), c.Param("id"), body.Name); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleAddBlock(c echo.Context) error {
	if err := s.svc.AddActivityBlock(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func blockIndex(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "block index must be an integer")
	}
	return index, nil
}

func (s *Server) handleRemoveBlock(c echo.Context) error {
	index, err := blockIndex(c)
	if err != nil {
		return err
	}
	if err := s.svc.RemoveActivityBlock(c.Request().Context(), c.Param("id"), index); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSetBlockDuration(c echo.Context) error {
	index, err := blockIndex(c)
	if err != nil {
		return err
	}
	var body struct {
		Minutes int `json:"minutes"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := s.svc.SetBlockDuration(c.Request().Context(), c.Param("id"), index, body.Minutes); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleAddActivity(c echo.Context) error {
	index, err := blockIndex(c)
	if err != nil {
		return err
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := s.svc.AddActivityToBlock(c.Request().Context(), c.Param("id"), index, body.Name); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleReorderActivities(c echo.Context) error {
	index, err := blockIndex(c)
	if err != nil {
		return err
	}
	var body struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := s.svc.ReorderBlockActivities(c.Request().Context(), c.Param("id"), index, body.From, body.To); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleRemoveActivity(c echo.Context) error {
	index, err := blockIndex(c)
	if err != nil {
		return err
	}
	if err := s.svc.RemoveActivityFromBlock(c.Request().Context(), c.Param("id"), index, c.Param("name")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleArmClear(c echo.Context) error {
	token, expiresAt, err := s.svc.ArmClear()
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"token":     token,
		"expiresAt": expiresAt,
	})
}

func (s *Server) handleConfirmClear(c echo.Context) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := s.svc.ConfirmClear(c.Request().Context(), body.Token); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCancelClear(c echo.Context) error {
	s.svc.CancelClear()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListTeamMembers(c echo.Context) error {
	members, err := s.svc.TeamMembers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, members)
}

func (s *Server) handleAddTeamMember(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	member, err := s.svc.AddTeamMember(c.Request().Context(), body.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, member)
}

func (s *Server) handleDeleteTeamMember(c echo.Context) error {
	if err := s.svc.DeleteTeamMember(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListAreas(c echo.Context) error {
	areas, err := s.svc.Areas(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, areas)
}

func (s *Server) handleAddArea(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	area, err := s.svc.AddArea(c.Request().Context(), body.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, area)
}

func (s *Server) handleDeleteArea(c echo.Context) error {
	if err := s.svc.DeleteArea(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
