package tableau

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
	"github.com/custodia-labs/vizier-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vizier-cli/internal/logger"
)

// authHeader carries the session token on every data call.
const authHeader = "X-Tableau-Auth"

// Ensure Client implements the interface.
var _ driven.PlatformClient = (*Client)(nil)

// Client talks to the platform REST API for one site.
//
// The session moves Unauthenticated -> Authenticated -> SignedOut. Data
// calls outside Authenticated fail with domain.ErrNotAuthenticated.
type Client struct {
	cfg       Config
	transport *Transport

	mu     sync.Mutex
	state  driven.SessionState
	token  string
	siteID string
}

// NewClient creates a platform client. No request is made until SignIn.
func NewClient(cfg Config) *Client {
	cfg.normalize()
	return &Client{
		cfg:       cfg,
		transport: NewTransport(cfg.RateLimitPerMinute, cfg.Timeout),
		state:     driven.SessionUnauthenticated,
	}
}

// State returns the session lifecycle state.
func (c *Client) State() driven.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SiteID returns the signed-in site's ID, empty before SignIn.
func (c *Client) SiteID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.siteID
}

// apiURL builds {server}/api/{version}/{path}.
func (c *Client) apiURL(path string) string {
	return fmt.Sprintf("%s/api/%s/%s", c.cfg.ServerURL, APIVersion, strings.TrimPrefix(path, "/"))
}

// signInRequest is the PAT credential exchange payload.
type signInRequest struct {
	Credentials struct {
		PATName   string `json:"personalAccessTokenName"`
		PATSecret string `json:"personalAccessTokenSecret"`
		Site      struct {
			ContentURL string `json:"contentUrl"`
		} `json:"site"`
	} `json:"credentials"`
}

// signInResponse is the credential exchange result.
type signInResponse struct {
	Credentials struct {
		Token string `json:"token"`
		Site  struct {
			ID         string `json:"id"`
			ContentURL string `json:"contentUrl"`
		} `json:"site"`
	} `json:"credentials"`
}

// SignIn exchanges the configured PAT for a session token and site ID.
// Returns true on success. Any failure is logged and reported as false,
// leaving the session unauthenticated, so a run can abort cleanly.
func (c *Client) SignIn(ctx context.Context) bool {
	var payload signInRequest
	payload.Credentials.PATName = c.cfg.PATName
	payload.Credentials.PATSecret = c.cfg.PATSecret
	payload.Credentials.Site.ContentURL = c.cfg.SiteName

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("Sign-in payload encode failed: %v", err)
		return false
	}

	resp, err := c.transport.Execute(ctx, http.MethodPost, c.apiURL("auth/signin"), body, jsonHeaders())
	if err != nil {
		logger.Warn("Sign-in failed: %v", err)
		return false
	}

	var decoded signInResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		logger.Warn("Sign-in response decode failed: %v", err)
		return false
	}
	if decoded.Credentials.Token == "" || decoded.Credentials.Site.ID == "" {
		logger.Warn("Sign-in response missing token or site ID")
		return false
	}

	c.mu.Lock()
	c.token = decoded.Credentials.Token
	c.siteID = decoded.Credentials.Site.ID
	c.state = driven.SessionAuthenticated
	c.mu.Unlock()

	logger.Info("Signed in to site %s", decoded.Credentials.Site.ID)
	return true
}

// SignOut invalidates the session token. Best-effort: it is called
// from cleanup paths, so failures are logged and never returned. The
// session transitions to SignedOut either way. A no-op when never
// signed in.
func (c *Client) SignOut(ctx context.Context) {
	c.mu.Lock()
	if c.state != driven.SessionAuthenticated {
		c.mu.Unlock()
		return
	}
	token := c.token
	c.token = ""
	c.state = driven.SessionSignedOut
	c.mu.Unlock()

	header := jsonHeaders()
	header.Set(authHeader, token)
	if _, err := c.transport.Execute(ctx, http.MethodPost, c.apiURL("auth/signout"), nil, header); err != nil {
		logger.Warn("Sign-out failed (ignored): %v", err)
		return
	}
	logger.Debug("Signed out")
}

// get issues an authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	c.mu.Lock()
	state, token := c.state, c.token
	c.mu.Unlock()

	if state != driven.SessionAuthenticated {
		return domain.ErrNotAuthenticated
	}

	header := jsonHeaders()
	header.Set(authHeader, token)

	resp, err := c.transport.Execute(ctx, http.MethodGet, rawURL, nil, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// siteURL builds a listing URL under the signed-in site with paging
// and optional project filter parameters.
func (c *Client) siteURL(resource string, page, pageSize int, projectFilter []string) string {
	values := url.Values{}
	values.Set("pageSize", strconv.Itoa(pageSize))
	values.Set("pageNumber", strconv.Itoa(page))
	if len(projectFilter) > 0 {
		values.Set("filter", fmt.Sprintf("projectName:in:[%s]", strings.Join(projectFilter, ",")))
	}
	return c.apiURL(fmt.Sprintf("sites/%s/%s", c.SiteID(), resource)) + "?" + values.Encode()
}

// ListWorkbooks lists all workbooks in the site, optionally filtered
// to the named projects.
func (c *Client) ListWorkbooks(ctx context.Context, projectFilter []string) ([]domain.RawWorkbook, error) {
	collector := NewCollector[domain.RawWorkbook](c.cfg.PageSize, c.cfg.MaxPages)
	return collector.Collect(ctx, func(ctx context.Context, page, pageSize int) ([]domain.RawWorkbook, error) {
		var envelope struct {
			Workbooks struct {
				Workbook []domain.RawWorkbook `json:"workbook"`
			} `json:"workbooks"`
		}
		if err := c.get(ctx, c.siteURL("workbooks", page, pageSize, projectFilter), &envelope); err != nil {
			return nil, err
		}
		return envelope.Workbooks.Workbook, nil
	})
}

// ListDatasources lists all published datasources in the site.
func (c *Client) ListDatasources(ctx context.Context, projectFilter []string) ([]domain.RawDatasource, error) {
	collector := NewCollector[domain.RawDatasource](c.cfg.PageSize, c.cfg.MaxPages)
	return collector.Collect(ctx, func(ctx context.Context, page, pageSize int) ([]domain.RawDatasource, error) {
		var envelope struct {
			Datasources struct {
				Datasource []domain.RawDatasource `json:"datasource"`
			} `json:"datasources"`
		}
		if err := c.get(ctx, c.siteURL("datasources", page, pageSize, projectFilter), &envelope); err != nil {
			return nil, err
		}
		return envelope.Datasources.Datasource, nil
	})
}

// ListViews lists all views in the site.
func (c *Client) ListViews(ctx context.Context, projectFilter []string) ([]domain.RawView, error) {
	collector := NewCollector[domain.RawView](c.cfg.PageSize, c.cfg.MaxPages)
	return collector.Collect(ctx, func(ctx context.Context, page, pageSize int) ([]domain.RawView, error) {
		var envelope struct {
			Views struct {
				View []domain.RawView `json:"view"`
			} `json:"views"`
		}
		if err := c.get(ctx, c.siteURL("views", page, pageSize, projectFilter), &envelope); err != nil {
			return nil, err
		}
		return envelope.Views.View, nil
	})
}

// ListViewsForWorkbook lists the views belonging to one workbook.
// A single request; the per-workbook view count never spans pages.
func (c *Client) ListViewsForWorkbook(ctx context.Context, workbookID string) ([]domain.RawView, error) {
	var envelope struct {
		Views struct {
			View []domain.RawView `json:"view"`
		} `json:"views"`
	}
	rawURL := c.apiURL(fmt.Sprintf("sites/%s/workbooks/%s/views", c.SiteID(), workbookID)) +
		"?includeUsageStatistics=false"
	if err := c.get(ctx, rawURL, &envelope); err != nil {
		return nil, err
	}
	return envelope.Views.View, nil
}

// ListProjects lists the site's projects.
func (c *Client) ListProjects(ctx context.Context) ([]domain.RawProjectInfo, error) {
	collector := NewCollector[domain.RawProjectInfo](c.cfg.PageSize, c.cfg.MaxPages)
	return collector.Collect(ctx, func(ctx context.Context, page, pageSize int) ([]domain.RawProjectInfo, error) {
		var envelope struct {
			Projects struct {
				Project []domain.RawProjectInfo `json:"project"`
			} `json:"projects"`
		}
		if err := c.get(ctx, c.siteURL("projects", page, pageSize, nil), &envelope); err != nil {
			return nil, err
		}
		return envelope.Projects.Project, nil
	})
}

// FetchComprehensiveMetadata fetches the requested object types (nil
// means all) and resolves each workbook's views, stamping the parent
// workbook's name and project onto them. One workbook's view fetch
// failing is logged and skipped; the run continues with partial data.
func (c *Client) FetchComprehensiveMetadata(ctx context.Context, objectTypes []domain.ObjectType) (*domain.PlatformMetadata, error) {
	if c.State() != driven.SessionAuthenticated {
		return nil, domain.ErrNotAuthenticated
	}

	wanted := make(map[domain.ObjectType]bool, len(objectTypes))
	if len(objectTypes) == 0 {
		objectTypes = domain.AllObjectTypes()
	}
	for _, t := range objectTypes {
		wanted[t] = true
	}

	metadata := &domain.PlatformMetadata{}
	projectFilter := c.cfg.ProjectFilter

	if wanted[domain.ObjectTypeWorkbook] || wanted[domain.ObjectTypeView] {
		workbooks, err := c.ListWorkbooks(ctx, projectFilter)
		if err != nil {
			return nil, fmt.Errorf("list workbooks: %w", err)
		}
		if wanted[domain.ObjectTypeWorkbook] {
			metadata.Workbooks = workbooks
		}
		logger.Info("Fetched %d workbooks", len(workbooks))

		if wanted[domain.ObjectTypeView] {
			for _, wb := range workbooks {
				views, err := c.ListViewsForWorkbook(ctx, wb.ID)
				if err != nil {
					logger.Warn("Skipping views of workbook %q: %v", wb.Name, err)
					continue
				}
				parent := &domain.RawViewWorkbook{Name: wb.Name, ProjectName: workbookProject(wb)}
				for i := range views {
					views[i].Workbook = parent
				}
				metadata.Views = append(metadata.Views, views...)
			}
			logger.Info("Fetched %d views", len(metadata.Views))
		}
	}

	if wanted[domain.ObjectTypeDatasource] {
		datasources, err := c.ListDatasources(ctx, projectFilter)
		if err != nil {
			return nil, fmt.Errorf("list datasources: %w", err)
		}
		metadata.Datasources = datasources
		logger.Info("Fetched %d datasources", len(datasources))
	}

	return metadata, nil
}

func workbookProject(wb domain.RawWorkbook) string {
	if wb.Project == nil {
		return ""
	}
	return wb.Project.Name
}

func jsonHeaders() http.Header {
	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("Content-Type", "application/json")
	return header
}
