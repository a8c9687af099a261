package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageHome           = "home"
	PageLogin          = "login"
	PageNoAuthority    = "no-authority"
	PageQuestionSubmit = "question-submit"
	PageObfuscator     = "obfuscator"
	PageAdmin          = "admin"
	PageNotFound       = "not-found"
)

// Page paths.
const (
	PathHome           = "/"
	PathLogin          = "/user/login"
	PathLogout         = "/user/logout"
	PathNoAuthority    = "/noAuthority"
	PathQuestionSubmit = "/question_submit"
	PathObfuscator     = "/obfuscator"
	PathAdmin          = "/admin"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "web/templates"
	TemplatePathFromTest = "../../web/templates"
)

// Submission list paging bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageHome:           "home-content",
	PageLogin:          "login-content",
	PageNoAuthority:    "no-authority-content",
	PageQuestionSubmit: "question-submit-content",
	PageObfuscator:     "obfuscator-content",
	PageAdmin:          "admin-content",
	PageNotFound:       "not-found-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to home-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "home-content"
}
