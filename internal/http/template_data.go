package httpx

import (
	"net/http"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/http/ui/viewmodel"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	CurrentPage string
}

// navEntry is one menu entry and the access level that reveals it.
type navEntry struct {
	Page   string
	Path   string
	Title  string
	Access domainauth.AccessLevel
}

//nolint:gochecknoglobals // static read-only menu
var navEntries = []navEntry{
	{Page: PageHome, Path: PathHome, Title: "Home", Access: domainauth.AccessNotLogin},
	{Page: PageQuestionSubmit, Path: PathQuestionSubmit, Title: "Submissions", Access: domainauth.AccessUser},
	{Page: PageObfuscator, Path: PathObfuscator, Title: "Obfuscator", Access: domainauth.AccessUser},
	{Page: PageAdmin, Path: PathAdmin, Title: "Admin", Access: domainauth.AccessAdmin},
}

// buildNav returns the menu entries the identity may open.
func buildNav(identity domainauth.Identity, current string) []viewmodel.NavItem {
	items := make([]viewmodel.NavItem, 0, len(navEntries))
	for _, e := range navEntries {
		if !domainauth.CheckAccess(identity, e.Access) {
			continue
		}
		items = append(items, viewmodel.NavItem{Path: e.Path, Title: e.Title, Active: e.Page == current})
	}
	return items
}

// buildLayout constructs shared layout metadata from the request context.
func buildLayout(w http.ResponseWriter, r *http.Request, meta PageMeta) viewmodel.Layout {
	identity := IdentityFromContext(r.Context())
	layout := viewmodel.Layout{
		Title:       meta.Title,
		CurrentPage: meta.CurrentPage,
		Nav:         buildNav(identity, meta.CurrentPage),
		LoginPath:   PathLogin,
	}

	if identity.IsAuthenticated() {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{
			Name:    identity.UserName,
			Avatar:  identity.UserAvatar,
			Role:    string(identity.Role),
			IsAdmin: identity.Role == domainauth.AccessAdmin,
		}
	}

	if w != nil {
		if f := PopFlash(w, r); f != nil {
			layout.Notice = &viewmodel.Notice{Level: string(f.Level), Text: f.Text}
		}
	}
	return layout
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a builder seeded with the layout fields. A pending
// flash notice is consumed when w is non-nil.
func NewTemplateData(w http.ResponseWriter, r *http.Request, meta PageMeta) *TemplateDataBuilder {
	layout := buildLayout(w, r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"Nav":             layout.Nav,
		"LoginPath":       layout.LoginPath,
		"LogoutPath":      PathLogout,
		"CSRFField":       CSRFFieldName,
		"CSRFToken":       CSRFTokenFromContext(r.Context()),
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	if layout.Notice != nil {
		data["Notice"] = layout.Notice
	}
	return &TemplateDataBuilder{data: data, r: r}
}

// WithPagination adds page-numbered navigation for the current request path.
func (b *TemplateDataBuilder) WithPagination(page, pageSize int, total int64) *TemplateDataBuilder {
	b.data["Pagination"] = viewmodel.NewPagination(b.r.URL.Path, b.r.URL.Query(), page, pageSize, total)
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
