package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/group38/ojweb/internal/adapters/ojapi"
	"github.com/group38/ojweb/internal/http/ui/table"
	"github.com/group38/ojweb/internal/http/validation"
	"github.com/group38/ojweb/internal/jsonx"
)

const recentSubmissionsLimit = 5

//nolint:gochecknoglobals // compiled once at startup
var recentSubmissionsTable = table.MustSpec(
	table.Column{Title: "ID", Path: "id"},
	table.Column{Title: "Question", Path: "questionId"},
	table.Column{Title: "User", Path: "userVO.userName || userId"},
	table.Column{Title: "Language", Path: "language"},
	table.Column{Title: "Message", Path: "judgeInfo.message"},
	table.Column{Title: "Submitted", Path: "createTime"},
)

var (
	homeMeta           = PageMeta{Title: "Online Judge", CurrentPage: PageHome}
	noAuthorityMeta    = PageMeta{Title: "No authority", CurrentPage: PageNoAuthority}
	questionSubmitMeta = PageMeta{Title: "Submissions", CurrentPage: PageQuestionSubmit}
	obfuscatorMeta     = PageMeta{Title: "Obfuscator", CurrentPage: PageObfuscator}
	adminMeta          = PageMeta{Title: "Admin", CurrentPage: PageAdmin}
)

// Home renders the landing page.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, homeMeta)
}

// NoAuthority renders the page the gate sends under-privileged users to.
func (h *UIHandlers) NoAuthority(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusForbidden, noAuthorityMeta)
}

// NotFound renders a 404 page for browsers and a JSON error for everything else.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     fmt.Errorf("%s %s not found", r.Method, r.URL.Path),
		})
		return
	}
	h.renderErrorPage(w, r, http.StatusNotFound, StatusMessage(http.StatusNotFound))
}

// CSRFRejected answers a form post whose CSRF token is missing or stale.
func (h *UIHandlers) CSRFRejected(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "csrf_rejected",
			Err:     errors.New("CSRF token validation failed"),
		})
		return
	}
	h.renderErrorPage(w, r, http.StatusForbidden, MsgFormExpired)
}

// submissionQuery builds the list request from the page's query string.
func submissionQuery(r *http.Request) ojapi.QuestionSubmitQueryRequest {
	page, size := parsePageParams(r)
	q := r.URL.Query()
	req := ojapi.QuestionSubmitQueryRequest{
		Current:   int64(page),
		PageSize:  int64(size),
		SortField: "createTime",
		SortOrder: "descend",
		Language:  strings.TrimSpace(q.Get("language")),
	}
	if s := q.Get("status"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			req.Status = &n
		}
	}
	if id, err := jsonx.ParseID(strings.TrimSpace(q.Get("questionId"))); err == nil {
		req.QuestionID = id
	}
	return req
}

// loadSubmissions fetches one page of submissions into b. The error is the
// judge API's; b is usable either way.
func (h *UIHandlers) loadSubmissions(r *http.Request, b *TemplateDataBuilder) error {
	req := submissionQuery(r)
	b.With("Filter", req)
	page, err := h.Submissions.ListByPage(r.Context(), req, h.apiOption(r))
	if err != nil {
		return err
	}
	b.With("Records", page.Records).WithPagination(int(req.Current), int(req.PageSize), page.Total)
	return nil
}

// QuestionSubmits renders the caller's submissions.
// GET /question_submit?current=&pageSize=&language=&status=&questionId=.
func (h *UIHandlers) QuestionSubmits(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(w, r, questionSubmitMeta)
	if err := h.loadSubmissions(r, b); err != nil {
		h.logger().WarnContext(r.Context(), "list submissions failed", "error", err)
		RenderError(ErrorOpts{
			W: w, R: r,
			Err:      err,
			Renderer: h.renderPage,
			PageMeta: questionSubmitMeta,
			Data:     b.Build(),
		})
		return
	}
	h.renderPage(w, r, http.StatusOK, b.Build())
}

// SubmitCode submits code for judging and returns to the submissions list.
// POST /question_submit.
func (h *UIHandlers) SubmitCode(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	in := validation.SubmitInput{
		QuestionID: strings.TrimSpace(r.PostFormValue("questionId")),
		Language:   strings.TrimSpace(r.PostFormValue("language")),
		Code:       r.PostFormValue("code"),
	}

	if errs := validation.SubmitForm(in); len(errs) > 0 {
		b := NewTemplateData(nil, r, questionSubmitMeta).With("Form", in)
		if err := h.loadSubmissions(r, b); err != nil {
			h.logger().WarnContext(r.Context(), "list submissions failed", "error", err)
		}
		RenderError(ErrorOpts{
			W: w, R: r,
			FieldErrors: errs,
			Renderer:    h.renderPage,
			PageMeta:    questionSubmitMeta,
			Data:        b.Build(),
		})
		return
	}

	questionID, err := jsonx.ParseID(in.QuestionID)
	if err == nil {
		var id jsonx.ID
		id, err = h.Submissions.Submit(r.Context(), ojapi.QuestionSubmitAddRequest{
			Language:   in.Language,
			Code:       in.Code,
			QuestionID: questionID,
		}, h.apiOption(r))
		if err == nil {
			FlashSuccessMsg(w, r, "Submitted, submission #"+id.String())
			http.Redirect(w, r, PathQuestionSubmit, http.StatusSeeOther)
			return
		}
	}

	h.logger().WarnContext(r.Context(), "submit code failed", "error", err)
	FlashErr(w, r, err, "submission failed")
	http.Redirect(w, r, PathQuestionSubmit, http.StatusSeeOther)
}

// schemeOptions flattens the supported schemes for the form's dropdowns.
type schemeOptions struct {
	Languages  []string
	ByLanguage map[string][]string
}

func newSchemeOptions(resp ojapi.SupportedSchemesResponse) schemeOptions {
	langs := make([]string, 0, len(resp.SchemesByLanguage))
	for lang := range resp.SchemesByLanguage {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return schemeOptions{Languages: langs, ByLanguage: resp.SchemesByLanguage}
}

// ObfuscatorPage renders the obfuscation form.
// GET /obfuscator.
func (h *UIHandlers) ObfuscatorPage(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(w, r, obfuscatorMeta)
	schemes, err := h.Obfuscator.SupportedSchemes(r.Context(), h.apiOption(r))
	if err != nil {
		h.logger().WarnContext(r.Context(), "load obfuscation schemes failed", "error", err)
		RenderError(ErrorOpts{W: w, R: r, Err: err, Renderer: h.renderPage, PageMeta: obfuscatorMeta, Data: b.Build()})
		return
	}
	b.With("Schemes", newSchemeOptions(schemes))
	h.renderPage(w, r, http.StatusOK, b.Build())
}

// Obfuscate runs the submitted code through the chosen scheme and shows the result.
// POST /obfuscator.
func (h *UIHandlers) Obfuscate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	in := validation.ObfuscateInput{
		Language:   strings.TrimSpace(r.PostFormValue("language")),
		Scheme:     strings.TrimSpace(r.PostFormValue("scheme")),
		SourceCode: r.PostFormValue("sourceCode"),
		Config:     strings.TrimSpace(r.PostFormValue("config")),
	}
	b := NewTemplateData(w, r, obfuscatorMeta).With("Form", in)
	fail := func(err error, fieldErrs map[string]string) {
		RenderError(ErrorOpts{
			W: w, R: r,
			Err:         err,
			FieldErrors: fieldErrs,
			Renderer:    h.renderPage,
			PageMeta:    obfuscatorMeta,
			Data:        b.Build(),
		})
	}

	schemes, err := h.Obfuscator.SupportedSchemes(r.Context(), h.apiOption(r))
	if err != nil {
		h.logger().WarnContext(r.Context(), "load obfuscation schemes failed", "error", err)
		fail(err, nil)
		return
	}
	b.With("Schemes", newSchemeOptions(schemes))

	if errs := validation.ObfuscateForm(in, schemes.SchemesByLanguage); len(errs) > 0 {
		fail(nil, errs)
		return
	}

	out, err := h.Obfuscator.Obfuscate(r.Context(), ojapi.ObfuscateCodeRequest{
		SourceCode: in.SourceCode,
		Language:   in.Language,
		Scheme:     in.Scheme,
		Config:     in.Config,
	}, h.apiOption(r))
	if err != nil {
		h.logger().WarnContext(r.Context(), "obfuscate failed", "error", err)
		fail(err, nil)
		return
	}

	b.With("Result", out.ObfuscatedCode)
	h.renderPage(w, r, http.StatusOK, b.Build())
}

// adminOverview is everything the admin page shows, loaded concurrently.
type adminOverview struct {
	LoginUser ojapi.Envelope[ojapi.LoginUserVO]
	Schemes   schemeOptions
	Recent    table.Table
	Total     int64
}

func (h *UIHandlers) loadAdminOverview(ctx context.Context, opt ojapi.CallOption) (adminOverview, error) {
	var out adminOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		env, err := h.Users.GetLoginUserEnvelope(gctx, opt)
		if err != nil {
			return fmt.Errorf("get login user: %w", err)
		}
		out.LoginUser = env
		return nil
	})
	g.Go(func() error {
		schemes, err := h.Obfuscator.SupportedSchemes(gctx, opt)
		if err != nil {
			return fmt.Errorf("supported schemes: %w", err)
		}
		out.Schemes = newSchemeOptions(schemes)
		return nil
	})
	g.Go(func() error {
		page, err := h.Submissions.ListByPage(gctx, ojapi.QuestionSubmitQueryRequest{
			Current:   1,
			PageSize:  recentSubmissionsLimit,
			SortField: "createTime",
			SortOrder: "descend",
		}, opt)
		if err != nil {
			return fmt.Errorf("recent submissions: %w", err)
		}
		recent, err := recentSubmissionsTable.Build(page.Records)
		if err != nil {
			return err
		}
		out.Recent = recent
		out.Total = page.Total
		return nil
	})

	return out, g.Wait()
}

// Admin renders the administrator overview.
// GET /admin.
func (h *UIHandlers) Admin(w http.ResponseWriter, r *http.Request) {
	b := NewTemplateData(w, r, adminMeta)
	overview, err := h.loadAdminOverview(r.Context(), h.apiOption(r))
	if err != nil {
		h.logger().WarnContext(r.Context(), "load admin overview failed", "error", err)
		RenderError(ErrorOpts{W: w, R: r, Err: err, Renderer: h.renderPage, PageMeta: adminMeta, Data: b.Build()})
		return
	}
	b.With("Overview", overview)
	h.renderPage(w, r, http.StatusOK, b.Build())
}
