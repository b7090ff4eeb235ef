// Package request holds the validated search request.
package request

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/selection"
)

// Paging limits.
const (
	DefaultPerPage = 7
	MaxPerPage     = 100
	DefaultPage    = 1
)

// Endpoint is the search route the request came in on.
type Endpoint string

// Search endpoints.
const (
	EndpointAll        Endpoint = "all"
	EndpointElements   Endpoint = "elements"
	EndpointSamples    Endpoint = "samples"
	EndpointReactions  Endpoint = "reactions"
	EndpointWellplates Endpoint = "wellplates"
	EndpointScreens    Endpoint = "screens"
)

// ParseEndpoint validates an endpoint path segment.
func ParseEndpoint(s string) (Endpoint, error) {
	e := Endpoint(s)
	switch e {
	case EndpointAll, EndpointElements, EndpointSamples, EndpointReactions, EndpointWellplates, EndpointScreens:
		return e, nil
	}
	return "", domain.NewSelectionError("endpoint", "unknown endpoint "+strconv.Quote(s))
}

// Params carries raw request fields. Zero Page and PerPage pick the defaults.
type Params struct {
	Endpoint     Endpoint
	Selection    selection.Selection
	CollectionID string
	IsSync       bool
	MoleculeSort bool
	Page         int
	PerPage      int
	IsPublic     bool
	// ViewerID is 0 for anonymous requests.
	ViewerID int64
}

// Request is a validated search request.
type Request struct {
	endpoint     Endpoint
	selection    selection.Selection
	collectionID int64
	isSync       bool
	moleculeSort bool
	page         int
	perPage      int
	isPublic     bool
	viewerID     int64
}

// New validates a request. per_page is clamped to MaxPerPage.
func New(p Params) (Request, error) {
	raw := strings.TrimSpace(p.CollectionID)
	if raw == "" {
		return Request{}, domain.NewSelectionError("collection_id", "is required")
	}
	cid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || cid <= 0 {
		return Request{}, domain.NewSelectionError("collection_id", "must be a positive integer")
	}

	pageNo := p.Page
	if pageNo == 0 {
		pageNo = DefaultPage
	}
	if pageNo < 1 {
		return Request{}, domain.NewSelectionError("page", "must be at least 1")
	}

	perPage := p.PerPage
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	if perPage < 1 {
		return Request{}, domain.NewSelectionError("per_page", "must be at least 1")
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Request{
		endpoint:     p.Endpoint,
		selection:    p.Selection,
		collectionID: cid,
		isSync:       p.IsSync,
		moleculeSort: p.MoleculeSort,
		page:         pageNo,
		perPage:      perPage,
		isPublic:     p.IsPublic,
		viewerID:     p.ViewerID,
	}, nil
}

// Endpoint returns the search route.
func (r *Request) Endpoint() Endpoint { return r.endpoint }

// Selection returns the search selection.
func (r *Request) Selection() *selection.Selection { return &r.selection }

// CollectionID returns the requested collection, or the sync share id when IsSync is set.
func (r *Request) CollectionID() int64 { return r.collectionID }

// IsSync reports whether CollectionID names a sync share.
func (r *Request) IsSync() bool { return r.isSync }

// MoleculeSort reports whether samples are ordered by their molecule.
func (r *Request) MoleculeSort() bool { return r.moleculeSort }

// Page returns the 1-based page.
func (r *Request) Page() int { return r.page }

// PerPage returns the page size.
func (r *Request) PerPage() int { return r.perPage }

// IsPublic reports whether the guest envelope is requested.
func (r *Request) IsPublic() bool { return r.isPublic }

// ViewerID returns the authenticated user, 0 when anonymous.
func (r *Request) ViewerID() int64 { return r.viewerID }
