package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/devconnect/internal/models"
	"github.com/yoockh/devconnect/internal/services"
	"github.com/yoockh/devconnect/internal/utils"
	"github.com/yoockh/devconnect/internal/validation"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"msg": "profile works"})
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) All(c *gin.Context) {
	ps, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *ProfileHandler) ByHandle(c *gin.Context) {
	p, err := h.svc.GetByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) ByUserID(c *gin.Context) {
	p, err := h.svc.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	const op = "ProfileHandler.Upsert"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var fields models.ProfileFields
	if !bindJSON(c, op, &fields) {
		return
	}
	if err := validation.ValidateProfileInput(fields).Err(op); err != nil {
		writeError(c, err)
		return
	}

	p, err := h.svc.Upsert(c.Request.Context(), userID, fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	const op = "ProfileHandler.AddExperience"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var in models.ExperienceInput
	if !bindJSON(c, op, &in) {
		return
	}
	if err := validation.ValidateExperienceInput(in).Err(op); err != nil {
		writeError(c, err)
		return
	}
	rec, err := in.Record()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid date", err))
		return
	}

	h.appendRecord(c, userID, rec)
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	const op = "ProfileHandler.AddEducation"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var in models.EducationInput
	if !bindJSON(c, op, &in) {
		return
	}
	if err := validation.ValidateEducationInput(in).Err(op); err != nil {
		writeError(c, err)
		return
	}
	rec, err := in.Record()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid date", err))
		return
	}

	h.appendRecord(c, userID, rec)
}

func (h *ProfileHandler) appendRecord(c *gin.Context, userID string, rec models.SubRecord) {
	p, err := h.svc.AppendSubRecord(c.Request.Context(), userID, rec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	h.removeRecord(c, models.KindExperience, c.Param("exp_id"))
}

func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	h.removeRecord(c, models.KindEducation, c.Param("edu_id"))
}

func (h *ProfileHandler) removeRecord(c *gin.Context, kind models.SubRecordKind, recordID string) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.RemoveSubRecord(c.Request.Context(), userID, kind, recordID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteAccount removes the caller's profile and user.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.deleteAccount(c, userID)
}

// AdminDeleteAccount removes the profile and user named in the path.
func (h *ProfileHandler) AdminDeleteAccount(c *gin.Context) {
	h.deleteAccount(c, c.Param("user_id"))
}

func (h *ProfileHandler) deleteAccount(c *gin.Context, userID string) {
	if err := h.svc.DeleteAccount(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
