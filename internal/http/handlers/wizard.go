package handlers

import (
	"io"
	"net/http"

	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/services"
	"wakacjecypr/internal/wizard"

	"github.com/gin-gonic/gin"
)

func sessions(c *gin.Context) *services.SessionService {
	s := current().Sessions
	if s == nil {
		respondError(c, http.StatusServiceUnavailable, "sessions_unavailable", "wizard sessions are not configured", nil)
	}
	return s
}

// respondView writes the session view, or the error with the view attached
// when the action was refused after the session was loaded.
func respondView(c *gin.Context, status int, v services.SessionView, err error) {
	if err == nil {
		c.JSON(status, v)
		return
	}
	if v.ID == "" {
		RespondDomainError(c, err)
		return
	}
	respondDomainError(c, err, gin.H{"session": v})
}

// POST /api/wizard/sessions
func CreateSession(c *gin.Context) {
	s := sessions(c)
	if s == nil {
		return
	}
	v, err := s.Create(c.Request.Context())
	respondView(c, http.StatusCreated, v, err)
}

// GET /api/wizard/sessions/:id
func GetSession(c *gin.Context) {
	s := sessions(c)
	if s == nil {
		return
	}
	v, err := s.Get(c.Request.Context(), c.Param("id"))
	respondView(c, http.StatusOK, v, err)
}

// DELETE /api/wizard/sessions/:id
func DeleteSession(c *gin.Context) {
	s := sessions(c)
	if s == nil {
		return
	}
	if err := s.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PATCH /api/wizard/sessions/:id/draft merges the body into the draft.
func PatchSessionDraft(c *gin.Context) {
	s := sessions(c)
	if s == nil {
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 64<<10))
	if err != nil || len(body) == 0 {
		respondError(c, http.StatusBadRequest, "empty_body", "request body is empty", nil)
		return
	}
	v, err := s.PatchDraft(c.Request.Context(), c.Param("id"), body)
	respondView(c, http.StatusOK, v, err)
}

// PUT /api/wizard/sessions/:id/draft replaces the draft.
func PutSessionDraft(c *gin.Context) {
	s := sessions(c)
	if s == nil {
		return
	}
	var d models.BookingDraft
	if !BindJSONOrError(c, &d) {
		return
	}
	v, err := s.UpdateDraft(c.Request.Context(), c.Param("id"), d)
	respondView(c, http.StatusOK, v, err)
}

type manualOfferRequest struct {
	Offer *models.Offer `json:"offer"`
}

// PUT /api/wizard/sessions/:id/offer; a null offer clears the manual choice.
func SetSessionOffer(c *gin.Context) {
	s := sessions(c)
	if s == nil {
		return
	}
	var req manualOfferRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := s.SetManualOffer(c.Request.Context(), c.Param("id"), req.Offer)
	respondView(c, http.StatusOK, v, err)
}

// POST /api/wizard/sessions/:id/next
func NextStep(c *gin.Context) {
	s := sessions(c)
	if s == nil {
		return
	}
	v, err := s.Next(c.Request.Context(), c.Param("id"))
	respondView(c, http.StatusOK, v, err)
}

// POST /api/wizard/sessions/:id/back
func PreviousStep(c *gin.Context) {
	s := sessions(c)
	if s == nil {
		return
	}
	v, err := s.Back(c.Request.Context(), c.Param("id"))
	respondView(c, http.StatusOK, v, err)
}

type jumpRequest struct {
	Step int `json:"step" binding:"required"`
}

// POST /api/wizard/sessions/:id/jump
func JumpToStep(c *gin.Context) {
	s := sessions(c)
	if s == nil {
		return
	}
	var req jumpRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := s.Jump(c.Request.Context(), c.Param("id"), wizard.Step(req.Step))
	respondView(c, http.StatusOK, v, err)
}

// POST /api/wizard/sessions/:id/submit
func SubmitSession(c *gin.Context) {
	s := sessions(c)
	if s == nil {
		return
	}
	v, conf, err := s.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondView(c, http.StatusOK, v, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": v, "booking": conf})
}
