// Package tableau implements the BI platform REST client used by the
// indexing pipeline.
//
// The package comprises three layers:
//
//   - Transport: issues HTTP requests under a strict rolling one-minute
//     rate window, retrying 429 and 5xx responses with attempt-scaled
//     backoff. All other failures propagate without retry.
//
//   - Collector: drives a paged listing until a short page signals
//     exhaustion or an optional page cap is hit, pacing consecutive
//     pages with a small fixed delay. It retries nothing; that is the
//     transport's job.
//
//   - Client: the session state machine. SignIn exchanges a Personal
//     Access Token for a session token and site ID; every data call
//     requires the authenticated state; SignOut is best-effort because
//     callers invoke it from cleanup paths.
//
// # Comprehensive fetch
//
// FetchComprehensiveMetadata lists workbooks and datasources, then
// resolves each workbook's views and stamps the parent workbook's name
// and project onto them. A single workbook's view fetch failing is
// logged and skipped, so one broken workbook cannot sink a whole
// indexing run.
//
// # Rate limiting
//
// The window limiter is stricter than a token bucket: when the budget
// is spent it blocks until the oldest recorded request leaves the
// window, which caps worst-case throughput at exactly the configured
// budget per minute. The crawl is not latency-sensitive, so the
// blocking wait is acceptable.
package tableau
