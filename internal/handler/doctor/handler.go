package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/doctor"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	svc      *doctor.Service
	maxLimit int
	// onAccountChange is told which account an update touched so cached
	// callers can be dropped.
	onAccountChange func(uuid.UUID)
}

func NewHandler(svc *doctor.Service, maxLimit int, onAccountChange func(uuid.UUID)) *Handler {
	return &Handler{svc: svc, maxLimit: maxLimit, onAccountChange: onAccountChange}
}

// RegisterRoutes expects rg to be authenticated already.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleDoctor, model.RoleAdmin)
	admin := middleware.RequireRole(model.RoleAdmin)

	doctors := rg.Group("/doctors")
	{
		doctors.GET("", admin, h.List)
		doctors.GET("/search", h.Search)
		doctors.GET("/:id", staff, h.Get)
		doctors.PUT("/:id", admin, h.Update)
		doctors.GET("/:id/patients", staff, h.Patients)
	}
}

func (h *Handler) List(c *gin.Context) {
	p := handler.Page(c, h.maxLimit)
	doctors, total, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, "doctors", doctors, p, total)
}

func (h *Handler) Search(c *gin.Context) {
	var q model.DoctorSearch
	if err := c.ShouldBindQuery(&q); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	doctors, err := h.svc.Search(c.Request.Context(), q)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, "", doctors)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "doctor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	view, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, "", view)
}

func (h *Handler) Update(c *gin.Context) {
	actor, err := handler.Actor(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	id, err := handler.ParseID(c, "id", "doctor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var payload doctor.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httputil.RespondWithBindingError(c, err)
		return
	}

	view, err := h.svc.Update(c.Request.Context(), actor, id, payload)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if h.onAccountChange != nil {
		h.onAccountChange(view.AccountID)
	}

	httputil.RespondWithSuccess(c, http.StatusOK, "Doctor profile updated successfully", view)
}

func (h *Handler) Patients(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "doctor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p := handler.Page(c, h.maxLimit)
	patients, total, err := h.svc.Patients(c.Request.Context(), id, p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, "patients", patients, p, total)
}
