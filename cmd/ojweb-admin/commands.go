package main

import (
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/group38/ojweb/internal/adapters/ojapi"
	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/http/ui/table"
	"github.com/group38/ojweb/internal/util"
)

const (
	maxSubmissionPages        = 20
	submissionFetchers        = 4
	defaultSubmissionPageSize = 10
)

var submissionsTable = table.MustSpec(
	table.Column{Title: "ID", Path: "id"},
	table.Column{Title: "QUESTION", Path: "questionId"},
	table.Column{Title: "USER", Path: "userVO.userName || userId"},
	table.Column{Title: "LANGUAGE", Path: "language"},
	table.Column{Title: "STATUS", Path: "status"},
	table.Column{Title: "MESSAGE", Path: "judgeInfo.message"},
	table.Column{Title: "SUBMITTED", Path: "createTime"},
)

func runWhoAmI(cctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	var opts apiOptions
	opts.register(fs, cctx.Config)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newAPIClient(cctx, opts)
	if err != nil {
		return err
	}
	env, err := client.Users().GetLoginUserEnvelope(cctx.Ctx)
	if err != nil {
		return fmt.Errorf("get login user: %w", err)
	}

	identity := domainauth.Identity{Role: domainauth.AccessNotLogin}
	switch {
	case env.Code == ojapi.CodeNotLogin:
	case !env.OK():
		return fmt.Errorf("get login user: %w", &ojapi.APIError{Code: env.Code, Message: env.Message})
	case env.Data != nil:
		identity = env.Data.Identity()
	}

	tw := tabwriter.NewWriter(cctx.Out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"SIGNED IN", util.SafeCellText(identity.IsAuthenticated())},
		{"USER", identity.UserName},
		{"ID", util.SafeCellText(identity.ID)},
		{"ROLE", string(identity.Role)},
	}
	for _, row := range rows {
		if err := writef(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write whoami row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush whoami table: %w", err)
	}
	return nil
}

func runSchemes(cctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("schemes", flag.ContinueOnError)
	var opts apiOptions
	opts.register(fs, cctx.Config)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newAPIClient(cctx, opts)
	if err != nil {
		return err
	}
	resp, err := client.Obfuscator().SupportedSchemes(cctx.Ctx)
	if err != nil {
		return fmt.Errorf("list schemes: %w", err)
	}

	if len(resp.SchemesByLanguage) == 0 {
		return writeln(cctx.Out, "  (no schemes available)")
	}
	languages := make([]string, 0, len(resp.SchemesByLanguage))
	for lang := range resp.SchemesByLanguage {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	tw := tabwriter.NewWriter(cctx.Out, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "LANGUAGE\tSCHEMES"); err != nil {
		return fmt.Errorf("write schemes header row: %w", err)
	}
	for _, lang := range languages {
		if err := writef(tw, "%s\t%s\n", lang, strings.Join(resp.SchemesByLanguage[lang], ", ")); err != nil {
			return fmt.Errorf("write schemes row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush schemes table: %w", err)
	}
	return nil
}

type submissionsOptions struct {
	apiOptions
	Pages    int
	PageSize int
	Language string
}

func parseSubmissionsOptions(cctx *commandContext, args []string) (submissionsOptions, error) {
	fs := flag.NewFlagSet("submissions", flag.ContinueOnError)
	opts := submissionsOptions{Pages: 1, PageSize: defaultSubmissionPageSize}
	opts.register(fs, cctx.Config)
	fs.IntVar(&opts.Pages, "pages", opts.Pages, "Number of pages to fetch")
	fs.IntVar(&opts.PageSize, "page-size", opts.PageSize, "Submissions per page")
	fs.StringVar(&opts.Language, "language", "", "Only list submissions in this language")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.Pages < 1 || opts.Pages > maxSubmissionPages {
		return opts, fmt.Errorf("--pages must be between 1 and %d", maxSubmissionPages)
	}
	if opts.PageSize < 1 {
		return opts, errors.New("--page-size must be positive")
	}
	return opts, nil
}

func runSubmissions(cctx *commandContext, args []string) error {
	opts, err := parseSubmissionsOptions(cctx, args)
	if err != nil {
		return err
	}
	client, err := newAPIClient(cctx, opts.apiOptions)
	if err != nil {
		return err
	}

	records, total, err := fetchSubmissionPages(cctx, client, opts)
	if err != nil {
		return err
	}

	if err := writef(cctx.Out, "Submissions: %d shown of %d\n\n", len(records), total); err != nil {
		return fmt.Errorf("write submissions header: %w", err)
	}
	if len(records) == 0 {
		return writeln(cctx.Out, "  (no rows found)")
	}
	tbl, err := submissionsTable.Build(records)
	if err != nil {
		return err
	}
	return renderTable(cctx, tbl)
}

// fetchSubmissionPages fetches pages 1..opts.Pages concurrently and returns
// their records in page order.
func fetchSubmissionPages(
	cctx *commandContext,
	client *ojapi.Client,
	opts submissionsOptions,
) ([]ojapi.QuestionSubmitVO, int64, error) {
	pages := make([]ojapi.Page[ojapi.QuestionSubmitVO], opts.Pages)
	g, ctx := errgroup.WithContext(cctx.Ctx)
	g.SetLimit(submissionFetchers)
	for i := range pages {
		g.Go(func() error {
			page, err := client.QuestionSubmits().ListByPage(ctx, ojapi.QuestionSubmitQueryRequest{
				Current:  int64(i + 1),
				PageSize: int64(opts.PageSize),
				Language: strings.TrimSpace(opts.Language),
			})
			if err != nil {
				return fmt.Errorf("list submissions page %d: %w", i+1, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var (
		records []ojapi.QuestionSubmitVO
		total   int64
	)
	for _, p := range pages {
		records = append(records, p.Records...)
		total = max(total, p.Total)
	}
	return records, total, nil
}

func renderTable(cctx *commandContext, tbl table.Table) error {
	tw := tabwriter.NewWriter(cctx.Out, 0, 4, 2, ' ', 0)
	if err := writeln(tw, strings.Join(tbl.Headers, "\t")); err != nil {
		return fmt.Errorf("write table header row: %w", err)
	}
	for _, row := range tbl.Rows {
		if err := writeln(tw, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("write table row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}
