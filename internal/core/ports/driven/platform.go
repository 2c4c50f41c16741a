package driven

import (
	"context"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

// SessionState tracks a platform client's authentication lifecycle.
type SessionState string

const (
	// SessionUnauthenticated is the initial state, before SignIn.
	SessionUnauthenticated SessionState = "unauthenticated"

	// SessionAuthenticated means SignIn succeeded and data calls are
	// permitted.
	SessionAuthenticated SessionState = "authenticated"

	// SessionSignedOut is the terminal state after SignOut.
	SessionSignedOut SessionState = "signed_out"
)

// PlatformClient talks to the BI platform's REST API.
//
// All data calls require a prior successful SignIn and fail with
// domain.ErrNotAuthenticated otherwise.
type PlatformClient interface {
	// SignIn exchanges the configured credential for a session token
	// and site ID. Returns true on success. Failures are logged and
	// reported as false; the session stays unauthenticated.
	SignIn(ctx context.Context) bool

	// SignOut invalidates the session token. Best-effort: failures are
	// logged, never returned. No-op when never signed in.
	SignOut(ctx context.Context)

	// State returns the session lifecycle state.
	State() SessionState

	// SiteID returns the signed-in site's ID, empty before SignIn.
	SiteID() string

	// ListWorkbooks lists all workbooks in the site, optionally
	// filtered to the named projects.
	ListWorkbooks(ctx context.Context, projectFilter []string) ([]domain.RawWorkbook, error)

	// ListDatasources lists all published datasources in the site.
	ListDatasources(ctx context.Context, projectFilter []string) ([]domain.RawDatasource, error)

	// ListViews lists all views in the site.
	ListViews(ctx context.Context, projectFilter []string) ([]domain.RawView, error)

	// ListViewsForWorkbook lists the views belonging to one workbook.
	ListViewsForWorkbook(ctx context.Context, workbookID string) ([]domain.RawView, error)

	// ListProjects lists the site's projects.
	ListProjects(ctx context.Context) ([]domain.RawProjectInfo, error)

	// FetchComprehensiveMetadata fetches the requested object types
	// (nil means all) and stamps each view with its parent workbook's
	// name and project. A single workbook's view fetch failing is
	// logged and skipped, never fatal.
	FetchComprehensiveMetadata(ctx context.Context, objectTypes []domain.ObjectType) (*domain.PlatformMetadata, error)
}
