package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/patient"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	svc      *patient.Service
	maxLimit int
}

func NewHandler(svc *patient.Service, maxLimit int) *Handler {
	return &Handler{svc: svc, maxLimit: maxLimit}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	patients := rg.Group("/patients")
	patients.Use(middleware.RequireRole(model.RoleDoctor, model.RoleAdmin))
	{
		patients.GET("", h.List)
		patients.GET("/search", h.Search)
		patients.GET("/:id", h.Get)
		patients.GET("/:id/medical-history", h.MedicalHistory)
		patients.GET("/:id/prescriptions", h.Prescriptions)
	}
}

func (h *Handler) List(c *gin.Context) {
	p := handler.Page(c, h.maxLimit)
	patients, total, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, "patients", patients, p, total)
}

func (h *Handler) Search(c *gin.Context) {
	patients, err := h.svc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, "", patients)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "patient")
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

func (h *Handler) MedicalHistory(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "patient")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p := handler.Page(c, h.maxLimit)
	reports, total, err := h.svc.MedicalHistory(c.Request.Context(), id, p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, "reports", reports, p, total)
}

func (h *Handler) Prescriptions(c *gin.Context) {
	id, err := handler.ParseID(c, "id", "patient")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p := handler.Page(c, h.maxLimit)
	prescriptions, total, err := h.svc.Prescriptions(c.Request.Context(), id, p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, "prescriptions", prescriptions, p, total)
}
