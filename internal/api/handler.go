package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/villagegrid/powerline-alerts/internal/alerts"
	"github.com/villagegrid/powerline-alerts/internal/geo"
	"github.com/villagegrid/powerline-alerts/internal/geolocation"
	"github.com/villagegrid/powerline-alerts/internal/models"
	"github.com/villagegrid/powerline-alerts/internal/repository"
)

type Handler struct {
	svc           *alerts.Service
	alerts        repository.AlertStore
	notifications repository.NotificationStore
	users         repository.UserDirectory
	location      *geolocation.Client
}

func NewHandler(svc *alerts.Service, alertStore repository.AlertStore, notifications repository.NotificationStore, users repository.UserDirectory, location *geolocation.Client) *Handler {
	return &Handler{
		svc:           svc,
		alerts:        alertStore,
		notifications: notifications,
		users:         users,
		location:      location,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api", Session(h.users))
	api.GET("/alerts", h.listAlerts)
	api.GET("/alerts/:id", h.getAlert)
	api.POST("/alerts", h.reportAlert)
	api.PATCH("/alerts/:id/status", h.updateAlertStatus)
	api.POST("/alerts/:id/advance", h.advanceAlert)

	api.GET("/notifications", h.listNotifications)
	api.GET("/notifications/unread_count", h.unreadCount)
	api.POST("/notifications/:id/read", h.markNotificationRead)
	api.POST("/notifications/read_all", h.markAllNotificationsRead)

	api.GET("/users/me", h.currentUser)
	api.GET("/users/officials", h.listOfficials)
	api.GET("/users/nearby", h.listNearbyUsers)
	api.GET("/users/:id", h.getUser)

	api.GET("/location", h.deviceLocation)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listAlerts(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("lat") != "" || c.Query("lon") != "" {
		pt, ok := parsePoint(c)
		if !ok {
			return
		}
		results, err := h.alerts.ListAlertsNear(ctx, pt, h.parseRadius(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
			return
		}
		c.JSON(http.StatusOK, alertList(results))
		return
	}

	if s := c.Query("status"); s != "" {
		status, ok := models.ParseStatus(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: " + s})
			return
		}
		results, err := h.alerts.ListAlertsByStatus(ctx, status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
			return
		}
		c.JSON(http.StatusOK, alertList(results))
		return
	}

	results, err := h.alerts.ListAlerts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}
	c.JSON(http.StatusOK, alertList(results))
}

func (h *Handler) getAlert(c *gin.Context) {
	alert, err := h.alerts.GetAlertByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alert"})
		return
	}
	c.JSON(http.StatusOK, alert)
}

type reportRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Latitude     *float64 `json:"latitude" binding:"required"`
	Longitude    *float64 `json:"longitude" binding:"required"`
	Address      string   `json:"address"`
	ImageDataURL string   `json:"image_data_url"`
	Emergency    bool     `json:"emergency"`
}

func (h *Handler) reportAlert(c *gin.Context) {
	in, ok := h.bindReport(c)
	if !ok {
		return
	}

	alert, err := h.svc.Report(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create alert"})
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// bindReport accepts either a JSON body or a multipart form with an
// optional photo that gets embedded as a data URL. Required-field
// validation happens here, at the boundary; stores never validate.
func (h *Handler) bindReport(c *gin.Context) (alerts.ReportInput, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return h.bindReportForm(c)
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fill in all required fields"})
		return alerts.ReportInput{}, false
	}
	return alerts.ReportInput{
		Title:       req.Title,
		Description: req.Description,
		Location: models.Location{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
			Address:   req.Address,
		},
		ImageURL:  req.ImageDataURL,
		Emergency: req.Emergency,
	}, true
}

func (h *Handler) bindReportForm(c *gin.Context) (alerts.ReportInput, bool) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	lat, latErr := strconv.ParseFloat(c.PostForm("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if title == "" || description == "" || latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fill in all required fields"})
		return alerts.ReportInput{}, false
	}

	in := alerts.ReportInput{
		Title:       title,
		Description: description,
		Location: models.Location{
			Latitude:  lat,
			Longitude: lon,
			Address:   c.PostForm("address"),
		},
		Emergency: c.PostForm("emergency") == "true",
	}

	if fh, err := c.FormFile("photo"); err == nil {
		dataURL, err := fileToDataURL(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo"})
			return alerts.ReportInput{}, false
		}
		in.ImageURL = dataURL
	}

	return in, true
}

type statusRequest struct {
	Status     string `json:"status" binding:"required"`
	AssignedTo string `json:"assigned_to"`
}

func (h *Handler) updateAlertStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	status, ok := models.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status: " + req.Status})
		return
	}

	alert, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), status, req.AssignedTo)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update alert status"})
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *Handler) advanceAlert(c *gin.Context) {
	alert, err := h.svc.Advance(c.Request.Context(), c.Param("id"), actorFrom(c))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update alert status"})
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *Handler) listNotifications(c *gin.Context) {
	notifications, err := h.notifications.ListNotifications(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) unreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount(c.Request.Context(), actorFrom(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	// A missing id is deliberately a no-op; the feed may have been
	// refreshed out from under the client.
	if err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), actorFrom(c).ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification read"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), actorFrom(c).ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications read"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) currentUser(c *gin.Context) {
	c.JSON(http.StatusOK, actorFrom(c))
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.GetUserByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) listOfficials(c *gin.Context) {
	officials, err := h.users.Officials(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch officials"})
		return
	}
	if officials == nil {
		officials = []models.User{}
	}
	c.JSON(http.StatusOK, officials)
}

func (h *Handler) listNearbyUsers(c *gin.Context) {
	pt, ok := parsePoint(c)
	if !ok {
		return
	}
	users, err := h.users.ListUsersNear(c.Request.Context(), pt, h.parseRadius(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) deviceLocation(c *gin.Context) {
	pt, err := h.location.Resolve(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "location unavailable, enter manually",
		})
		return
	}
	c.JSON(http.StatusOK, pt)
}

func parsePoint(c *gin.Context) (geo.Point, bool) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required"})
		return geo.Point{}, false
	}
	return geo.Point{Latitude: lat, Longitude: lon}, true
}

func (h *Handler) parseRadius(c *gin.Context) float64 {
	if r := c.Query("radius_km"); r != "" {
		if radius, err := strconv.ParseFloat(r, 64); err == nil && radius >= 0 {
			return radius
		}
	}
	return h.svc.RadiusKm()
}

func alertList(alerts []models.Alert) []models.Alert {
	if alerts == nil {
		return []models.Alert{}
	}
	return alerts
}
