package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/kode4food/flowdesk/internal/client"
	"github.com/kode4food/flowdesk/internal/settings"
	"github.com/kode4food/flowdesk/pkg/api"
	"github.com/kode4food/flowdesk/pkg/log"
)

type (
	// DisplayStyle selects card or list rendering of the flow list
	DisplayStyle string

	// Version selects which generation of flows is listed
	Version string

	// AgentflowsConfig controls construction of an Agentflows view model
	AgentflowsConfig struct {
		// BaseURL prefixes node image sources
		BaseURL string

		// PageLimit is the initial page size
		PageLimit int
	}

	// AgentflowItem is a listed flow with its derived card glyphs
	AgentflowItem struct {
		api.Agentflow
		Icons  []Icon
		Images []Image
	}

	// AgentflowsState is a snapshot of the agentflow list screen
	AgentflowsState struct {
		Version         Version
		Display         DisplayStyle
		Search          string
		Page            int
		Limit           int
		Total           int
		Status          Status
		Err             error
		Items           []AgentflowItem
		ShowDeprecation bool
		Empty           bool
	}

	// Agentflows drives the agentflow list screen
	Agentflows struct {
		config    AgentflowsConfig
		prefs     settings.Preferences
		list      *Fetch[listArgs, *api.AgentflowsResponse]
		items     []AgentflowItem
		version   Version
		display   DisplayStyle
		search    string
		page      int
		limit     int
		total     int
		dismissed bool
		mu        sync.Mutex
	}

	listArgs struct {
		typ   api.FlowType
		page  int
		limit int
	}
)

const (
	DisplayCard DisplayStyle = "card"
	DisplayList DisplayStyle = "list"

	V1 Version = "v1"
	V2 Version = "v2"
)

// DefaultItemsPerPage is the page size used until the user picks another
const DefaultItemsPerPage = 12

// Canvas routes for each flow generation
const (
	CanvasPathV1 = "/agentcanvas"
	CanvasPathV2 = "/v2/agentcanvas"
)

var (
	ErrInvalidVersion      = errors.New("invalid agentflow version")
	ErrInvalidDisplayStyle = errors.New("invalid display style")
	ErrInvalidPage         = errors.New("invalid page")
)

// NewAgentflows creates an agentflow list view model over c, persisting
// its toggles to prefs
func NewAgentflows(
	c client.Client, prefs settings.Preferences, cfg AgentflowsConfig,
) *Agentflows {
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = DefaultItemsPerPage
	}
	return &Agentflows{
		config: cfg,
		prefs:  prefs,
		list: NewFetch(func(
			ctx context.Context, a listArgs,
		) (*api.AgentflowsResponse, error) {
			return c.ListAgentflows(ctx, a.typ, a.page, a.limit)
		}),
		version: V2,
		display: DisplayCard,
		page:    1,
		limit:   cfg.PageLimit,
	}
}

// Load restores the persisted toggles and requests the first page
func (a *Agentflows) Load(ctx context.Context) error {
	version := Version(
		a.prefs.GetOr(ctx, settings.AgentflowVersion, string(V2)),
	)
	if !version.valid() {
		version = V2
	}
	display := DisplayStyle(
		a.prefs.GetOr(ctx, settings.DisplayStyle, string(DisplayCard)),
	)
	if !display.valid() {
		display = DisplayCard
	}

	a.mu.Lock()
	a.version = version
	a.display = display
	page, limit := a.page, a.limit
	a.mu.Unlock()

	return a.refresh(ctx, version, page, limit)
}

// SetVersion persists the version toggle and re-requests the first page
// filtered to that version's flow type
func (a *Agentflows) SetVersion(ctx context.Context, v Version) error {
	if !v.valid() {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	err := a.prefs.Set(ctx, settings.AgentflowVersion, string(v))
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.version = v
	a.page = 1
	limit := a.limit
	a.mu.Unlock()

	return a.refresh(ctx, v, 1, limit)
}

// SetDisplay persists the display style. No request is made
func (a *Agentflows) SetDisplay(ctx context.Context, d DisplayStyle) error {
	if !d.valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDisplayStyle, d)
	}
	if err := a.prefs.Set(ctx, settings.DisplayStyle, string(d)); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.display = d
	return nil
}

// SetSearch filters the current page by name, category or id. Matching is
// case-insensitive and happens locally
func (a *Agentflows) SetSearch(search string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.search = search
}

// SetPage requests another page, optionally with a new page size
func (a *Agentflows) SetPage(ctx context.Context, page, limit int) error {
	if page <= 0 || limit <= 0 {
		return fmt.Errorf("%w: page %d, limit %d", ErrInvalidPage, page, limit)
	}

	a.mu.Lock()
	a.page = page
	a.limit = limit
	version := a.version
	a.mu.Unlock()

	return a.refresh(ctx, version, page, limit)
}

// DismissDeprecation hides the v1 deprecation notice for this view
func (a *Agentflows) DismissDeprecation() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dismissed = true
}

// CanvasPath returns the route that opens flow in its canvas
func CanvasPath(flow api.Agentflow) string {
	if flow.Type == api.FlowTypeAgentflow {
		return CanvasPathV2 + "/" + flow.ID
	}
	return CanvasPathV1 + "/" + flow.ID
}

// Open returns the canvas route for a listed flow
func (a *Agentflows) Open(id string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, item := range a.items {
		if item.ID == id {
			return CanvasPath(item.Agentflow), true
		}
	}
	return "", false
}

// AddNewPath returns the route for creating a flow of the active version
func (a *Agentflows) AddNewPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.version == V2 {
		return CanvasPathV2
	}
	return CanvasPathV1
}

// State returns a snapshot of the screen
func (a *Agentflows) State() AgentflowsState {
	list := a.list.State()

	a.mu.Lock()
	defer a.mu.Unlock()

	items := []AgentflowItem{}
	for _, item := range a.items {
		if matchesSearch(item.Agentflow, a.search) {
			items = append(items, item)
		}
	}

	return AgentflowsState{
		Version:         a.version,
		Display:         a.display,
		Search:          a.search,
		Page:            a.page,
		Limit:           a.limit,
		Total:           a.total,
		Status:          list.Status,
		Err:             list.Err,
		Items:           items,
		ShowDeprecation: a.version == V1 && !a.dismissed,
		Empty:           list.Status == Success && a.total == 0,
	}
}

// Close discards any response still in flight
func (a *Agentflows) Close() {
	a.list.Close()
}

func (a *Agentflows) refresh(
	ctx context.Context, v Version, page, limit int,
) error {
	res, ticket, err := a.list.RequestTicket(ctx, listArgs{
		typ:   v.FlowType(),
		page:  page,
		limit: limit,
	})
	if Discarded(err) {
		return nil
	}
	if err != nil {
		slog.Error("Failed to list agentflows",
			slog.String("type", string(v.FlowType())),
			log.Error(err))
		return err
	}

	items := make([]AgentflowItem, 0, len(res.Data))
	for _, flow := range res.Data {
		icons, images, err := NodeGlyphs(a.config.BaseURL, flow)
		if err != nil {
			slog.Warn("Failed to parse flow data",
				log.FlowID(flow.ID),
				log.Error(err))
		}
		items = append(items, AgentflowItem{
			Agentflow: flow,
			Icons:     icons,
			Images:    images,
		})
	}

	// a newer request may have completed while glyphs were derived
	_ = a.list.Commit(ticket, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.items = items
		a.total = res.Total
	})
	return nil
}

// FlowType maps a version toggle onto the flow type it lists
func (v Version) FlowType() api.FlowType {
	if v == V2 {
		return api.FlowTypeAgentflow
	}
	return api.FlowTypeMultiAgent
}

func (v Version) valid() bool {
	return v == V1 || v == V2
}

func (d DisplayStyle) valid() bool {
	return d == DisplayCard || d == DisplayList
}

func matchesSearch(flow api.Agentflow, search string) bool {
	if search == "" {
		return true
	}
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(flow.Name), s) ||
		strings.Contains(strings.ToLower(flow.Category), s) ||
		strings.Contains(strings.ToLower(flow.ID), s)
}
