package drive

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

// Client is the REST implementation of Store and FormService against the
// document store API.
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
			Timeout: cfg.Drive.Timeout,
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

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Drive.BaseURL+path, reqBody)
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
		return fmt.Errorf("store request failed: %w", err)
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

func (c *Client) FolderByID(ctx context.Context, id string) (model.Folder, error) {
	var folder model.Folder
	err := c.do(ctx, http.MethodGet, "/folders/"+url.PathEscape(id), nil, &folder)
	return folder, err
}

func (c *Client) FoldersByName(ctx context.Context, parentID, name string) ([]model.Folder, error) {
	var resp struct {
		Folders []model.Folder `json:"folders"`
	}
	path := "/folders/" + url.PathEscape(parentID) + "/folders?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

func (c *Client) FilesByName(ctx context.Context, parentID, name string) ([]model.File, error) {
	var resp struct {
		Files []model.File `json:"files"`
	}
	path := "/folders/" + url.PathEscape(parentID) + "/files?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

func (c *Client) ChildFolders(ctx context.Context, parentID string) ([]model.Folder, error) {
	var resp struct {
		Folders []model.Folder `json:"folders"`
	}
	if err := c.do(ctx, http.MethodGet, "/folders/"+url.PathEscape(parentID)+"/folders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

func (c *Client) ChildFiles(ctx context.Context, parentID string) ([]model.File, error) {
	var resp struct {
		Files []model.File `json:"files"`
	}
	if err := c.do(ctx, http.MethodGet, "/folders/"+url.PathEscape(parentID)+"/files", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (model.Folder, error) {
	var folder model.Folder
	body := map[string]string{"name": name}
	err := c.do(ctx, http.MethodPost, "/folders/"+url.PathEscape(parentID)+"/folders", body, &folder)
	return folder, err
}

func (c *Client) CopyFile(ctx context.Context, fileID, name, destFolderID string) (model.File, error) {
	var file model.File
	body := map[string]string{"name": name, "parent_id": destFolderID}
	err := c.do(ctx, http.MethodPost, "/files/"+url.PathEscape(fileID)+"/copy", body, &file)
	return file, err
}

func (c *Client) CreateSpreadsheet(ctx context.Context, name string) (model.File, error) {
	var file model.File
	body := map[string]string{"name": name}
	err := c.do(ctx, http.MethodPost, "/spreadsheets", body, &file)
	return file, err
}

func (c *Client) MoveFile(ctx context.Context, fileID, destFolderID string) error {
	body := map[string]string{"parent_id": destFolderID}
	return c.do(ctx, http.MethodPost, "/files/"+url.PathEscape(fileID)+"/move", body, nil)
}

func (c *Client) RenameFile(ctx context.Context, fileID, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, http.MethodPatch, "/files/"+url.PathEscape(fileID), body, nil)
}

func (c *Client) FileByID(ctx context.Context, id string) (model.File, error) {
	var file model.File
	err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(id), nil, &file)
	return file, err
}

func (c *Client) Parent(ctx context.Context, folderID string) (model.Folder, bool, error) {
	var resp struct {
		Parent *model.Folder `json:"parent"`
	}
	if err := c.do(ctx, http.MethodGet, "/folders/"+url.PathEscape(folderID)+"/parent", nil, &resp); err != nil {
		return model.Folder{}, false, err
	}
	if resp.Parent == nil {
		return model.Folder{}, false, nil
	}
	return *resp.Parent, true, nil
}

func (c *Client) Editors(ctx context.Context, fileID string) ([]string, error) {
	var resp struct {
		Editors []string `json:"editors"`
	}
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(fileID)+"/editors", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Editors, nil
}

func (c *Client) RemoveEditor(ctx context.Context, fileID, email string) error {
	path := "/files/" + url.PathEscape(fileID) + "/editors/" + url.PathEscape(email)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) SetTitle(ctx context.Context, formID, title string) error {
	body := map[string]string{"title": title}
	return c.do(ctx, http.MethodPatch, "/forms/"+url.PathEscape(formID), body, nil)
}

func (c *Client) SetDestination(ctx context.Context, formID, spreadsheetID string) error {
	body := map[string]string{"spreadsheet_id": spreadsheetID}
	return c.do(ctx, http.MethodPost, "/forms/"+url.PathEscape(formID)+"/destination", body, nil)
}
