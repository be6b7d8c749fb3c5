package classroom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"classroom-provisioner/internal/auth"
	"classroom-provisioner/internal/config"
	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/model"
	"classroom-provisioner/pkg/errors"

	"github.com/rs/zerolog"
)

// Platform is the capability surface of the course-management platform. All
// calls are fire-once: a rejected call propagates without retry and the
// caller decides whether to continue with the next unit of work.
type Platform interface {
	CreateTopic(ctx context.Context, courseID, name string) (string, error)
	CreateMaterial(ctx context.Context, courseID string, material model.Material) (model.Material, error)
	CreateCourseWork(ctx context.Context, courseID string, work model.CourseWork) (model.CourseWork, error)
	ListCourseWork(ctx context.Context, courseID string) ([]model.CourseWork, error)
	ListSubmissions(ctx context.Context, courseID, courseWorkID string) ([]model.Submission, error)
	StudentProfile(ctx context.Context, courseID, userID string) (model.StudentProfile, error)
	UserProfile(ctx context.Context, userID string) (model.UserProfile, error)
	ListCourses(ctx context.Context) ([]model.PlatformCourse, error)
}

type Client struct {
	cfg         *config.Config
	httpClient  *http.Client
	authManager *auth.Manager
	log         zerolog.Logger
}

func NewClient(cfg *config.Config, authManager *auth.Manager) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Platform.Timeout,
		},
		authManager: authManager,
		log:         logger.Get(),
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Platform.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.authManager.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to get auth token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("platform request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(resp.Body)
		return errors.RemoteError{
			Op:         method + " " + path,
			StatusCode: resp.StatusCode,
			Message:    string(msg),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) CreateTopic(ctx context.Context, courseID, name string) (string, error) {
	var topic model.Topic
	body := model.Topic{Name: name}
	path := "/courses/" + url.PathEscape(courseID) + "/topics"
	if err := c.do(ctx, http.MethodPost, path, body, &topic); err != nil {
		return "", err
	}
	c.log.Info().Str("course_id", courseID).Str("topic", name).Msg("Topic created")
	return topic.TopicID, nil
}

func (c *Client) CreateMaterial(ctx context.Context, courseID string, material model.Material) (model.Material, error) {
	var created model.Material
	path := "/courses/" + url.PathEscape(courseID) + "/courseWorkMaterials"
	if err := c.do(ctx, http.MethodPost, path, material, &created); err != nil {
		return model.Material{}, err
	}
	c.log.Info().Str("course_id", courseID).Str("title", material.Title).Msg("Material created")
	return created, nil
}

func (c *Client) CreateCourseWork(ctx context.Context, courseID string, work model.CourseWork) (model.CourseWork, error) {
	var created model.CourseWork
	path := "/courses/" + url.PathEscape(courseID) + "/courseWork"
	if err := c.do(ctx, http.MethodPost, path, work, &created); err != nil {
		return model.CourseWork{}, err
	}
	c.log.Info().Str("course_id", courseID).Str("title", work.Title).Msg("Assignment created")
	return created, nil
}

func (c *Client) ListCourseWork(ctx context.Context, courseID string) ([]model.CourseWork, error) {
	var resp struct {
		CourseWork []model.CourseWork `json:"courseWork"`
	}
	path := "/courses/" + url.PathEscape(courseID) + "/courseWork"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.CourseWork, nil
}

func (c *Client) ListSubmissions(ctx context.Context, courseID, courseWorkID string) ([]model.Submission, error) {
	var resp struct {
		StudentSubmissions []model.Submission `json:"studentSubmissions"`
	}
	path := "/courses/" + url.PathEscape(courseID) + "/courseWork/" + url.PathEscape(courseWorkID) + "/studentSubmissions"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.StudentSubmissions, nil
}

func (c *Client) StudentProfile(ctx context.Context, courseID, userID string) (model.StudentProfile, error) {
	var profile model.StudentProfile
	path := "/courses/" + url.PathEscape(courseID) + "/students/" + url.PathEscape(userID)
	err := c.do(ctx, http.MethodGet, path, nil, &profile)
	return profile, err
}

func (c *Client) UserProfile(ctx context.Context, userID string) (model.UserProfile, error) {
	var profile model.UserProfile
	err := c.do(ctx, http.MethodGet, "/userProfiles/"+url.PathEscape(userID), nil, &profile)
	return profile, err
}

func (c *Client) ListCourses(ctx context.Context) ([]model.PlatformCourse, error) {
	var resp struct {
		Courses []model.PlatformCourse `json:"courses"`
	}
	if err := c.do(ctx, http.MethodGet, "/courses?state=ACTIVE", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Courses, nil
}
