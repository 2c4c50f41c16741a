package tableau

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/vizier-cli/internal/core/domain"
)

const deepLinkQuery = "?:showAppBanner=false&:origin=card"

// FullURL joins the server URL and a content URL into a plain browser
// URL. Empty content URLs stay empty so records without one never point
// at the server root.
func FullURL(serverURL, contentURL string) string {
	if contentURL == "" {
		return ""
	}
	return strings.TrimRight(serverURL, "/") + "/" + strings.TrimLeft(contentURL, "/")
}

// DeepLinkURL builds a link that opens the object directly in the
// platform UI, embedded in the site the record came from. Content URLs
// that do not match the documented shape for their type fall back to
// FullURL so the link still lands somewhere useful.
//
// Expected shapes: "views/{workbook}/{sheet}" for views,
// "workbooks/{workbook}" for workbooks, "datasources/{name}" for
// datasources.
func DeepLinkURL(serverURL, siteName string, objectType domain.ObjectType, contentURL string) string {
	if contentURL == "" {
		return ""
	}

	server := strings.TrimRight(serverURL, "/")
	content := strings.TrimLeft(contentURL, "/")
	parts := strings.Split(content, "/")

	switch objectType {
	case domain.ObjectTypeView:
		if len(parts) >= 3 && parts[0] == "views" {
			return fmt.Sprintf("%s/#/site/%s/views/%s/%s%s",
				server, siteName, parts[1], parts[2], deepLinkQuery)
		}
	case domain.ObjectTypeWorkbook:
		if len(parts) >= 2 && parts[0] == "workbooks" {
			return fmt.Sprintf("%s/#/site/%s/workbooks/%s%s",
				server, siteName, parts[1], deepLinkQuery)
		}
	case domain.ObjectTypeDatasource:
		if len(parts) >= 2 && parts[0] == "datasources" {
			return fmt.Sprintf("%s/#/site/%s/datasources/%s%s",
				server, siteName, parts[1], deepLinkQuery)
		}
	}

	return FullURL(server, content)
}
