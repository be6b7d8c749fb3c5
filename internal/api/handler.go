package api

import (
	"net/http"
	"regexp"
	"time"

	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/db"
	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/internal/queue"
	"classroom-provisioner/internal/registry"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var lessonNumberPattern = regexp.MustCompile(`^\d{2}$`)

type Handler struct {
	repo      db.Repository
	producer  *queue.Producer
	refresher *registry.Refresher
	cfg       *config.Config
	log       zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	producer *queue.Producer,
	refresher *registry.Refresher,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:      repo,
		producer:  producer,
		refresher: refresher,
		cfg:       cfg,
		log:       logger.Get(),
	}
}

func (h *Handler) CreateLesson(c *gin.Context) {
	var job model.ProvisionJob
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !lessonNumberPattern.MatchString(job.Number) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lesson number must be a two-digit code"})
		return
	}
	if job.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lesson title is required"})
		return
	}
	if _, err := time.Parse("2006/01/02", job.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lesson date must be YYYY/MM/DD"})
		return
	}

	if err := h.producer.EnqueueProvisionJob(c.Request.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue provision job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue provision job"})
		return
	}

	h.log.Info().
		Str("number", job.Number).
		Str("title", job.Title).
		Str("date", job.Date).
		Msg("Provision job enqueued")

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Provision job queued successfully",
		"job":     job,
	})
}

func (h *Handler) CleanupPermissions(c *gin.Context) {
	h.enqueueCleanup(c, model.CleanupJob{Kind: model.CleanupKindPermissions})
}

func (h *Handler) CleanupFilenames(c *gin.Context) {
	var req struct {
		Apply bool `json:"apply"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.enqueueCleanup(c, model.CleanupJob{Kind: model.CleanupKindFilenames, Apply: req.Apply})
}

func (h *Handler) enqueueCleanup(c *gin.Context, job model.CleanupJob) {
	if err := h.producer.EnqueueCleanupJob(c.Request.Context(), job); err != nil {
		h.log.Error().Err(err).Str("kind", string(job.Kind)).Msg("Failed to enqueue cleanup job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue cleanup job"})
		return
	}

	h.log.Info().Str("kind", string(job.Kind)).Msg("Cleanup job enqueued")

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Cleanup job queued successfully",
		"job":     job,
	})
}

func (h *Handler) RefreshRegistry(c *gin.Context) {
	count, err := h.refresher.Refresh(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Registry refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registry refresh failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registry refreshed",
		"courses": count,
	})
}

func (h *Handler) GetLessonStatus(c *gin.Context) {
	number := c.Param("number")
	if !lessonNumberPattern.MatchString(number) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lesson number"})
		return
	}

	status, err := h.repo.LessonStatus(c.Request.Context(), number)
	if err != nil {
		h.log.Error().Err(err).Str("lesson", number).Msg("Failed to get lesson status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}
