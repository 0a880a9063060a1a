package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/p-n-ai/syllabus-plus/internal/article"
	"github.com/p-n-ai/syllabus-plus/internal/catalog"
	"github.com/p-n-ai/syllabus-plus/internal/explorer"
	"github.com/p-n-ai/syllabus-plus/internal/i18n"
	"github.com/p-n-ai/syllabus-plus/internal/quiz"
	"github.com/p-n-ai/syllabus-plus/internal/source"
)

type explorerPage struct {
	page
	Subject     string
	SubjectName string
	Year        string
	YearOptions []catalog.YearOption
	Root        *folderView
	Empty       string
	Error       string
	Article     *articlePanel
}

type folderView struct {
	Name    string
	Folders []*folderView
	Files   []fileView
}

type fileView struct {
	Name   string
	Link   string
	URL    string
	Active bool
	Class  string
}

type navLink struct {
	Label string
	Name  string
	URL   string
}

type articlePanel struct {
	ViewID       string
	Title        template.HTML
	UpdatedLabel string
	Updated      string
	Sections     []sectionPanel
	ExampleLabel string
	RemixLabel   string
	Prev         *navLink
	Next         *navLink
	Back         navLink
	PDFURL       string
	Error        string
}

type sectionPanel struct {
	article.SectionView
	Quiz *quizPanel
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitor := visitorID(w, r)
	lang := s.locale(r)
	tbl := s.table(ctx)

	data, _ := s.explorer(ctx, r, visitor, lang, tbl, "")
	s.render(w, "explorer.html", data)
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitor := visitorID(w, r)
	lang := s.locale(r)
	tbl := s.table(ctx)
	file := r.URL.Query().Get("file")

	data, tree := s.explorer(ctx, r, visitor, lang, tbl, file)
	if file != "" {
		data.Article = s.articlePanel(r, visitor, lang, data, tree, file)
	}
	s.render(w, "explorer.html", data)
}

// explorer builds the explorer sidebar for the subject in the request. The
// tree is nil when the files table could not be loaded.
func (s *Server) explorer(ctx context.Context, r *http.Request, visitor, lang string, tbl *i18n.Table, active string) (explorerPage, *explorer.Tree) {
	data := explorerPage{page: s.newPage(r, lang, tbl)}
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		data.SubjectName = data.T("select_subject")
		return data, nil
	}
	data.Subject = subject
	data.SubjectName = tbl.TextOr(i18n.SubjectKey(subject), lang, subject)

	var years []string
	if entries, err := s.deps.Content.Catalog(ctx); err != nil {
		slog.Warn("catalog unavailable for year options", "error", err)
	} else if e, ok := catalog.Find(entries, subject); ok {
		years = e.Years
	}

	saved, err := s.deps.Prefs.Year(ctx, visitor)
	if err != nil {
		slog.Warn("failed to read year", "visitor", visitor, "error", err)
	}
	year, changed := catalog.ResolveYear(saved, years)
	if changed {
		if err := s.deps.Prefs.SetYear(ctx, visitor, year); err != nil {
			slog.Warn("failed to save corrected year", "visitor", visitor, "error", err)
		}
	}
	data.Year = year
	data.YearOptions = catalog.YearOptions(years, year, data.T)

	records, err := s.deps.Content.Records(ctx)
	if err != nil {
		slog.Warn("files table unavailable", "error", err)
		data.Error = data.T("error_loading")
		return data, nil
	}

	selected := explorer.Select(records, subject, year)
	resolved := explorer.ResolveTitles(ctx, selected, s.deps.Content.TitleFunc(lang))
	tree := explorer.Build(resolved, func(seg string) string {
		return tbl.TextOr(i18n.FolderKey(seg), lang, seg)
	})

	if tree.Empty() {
		data.Empty = data.T("no_content") + " " + year + "."
		return data, tree
	}
	data.Root = folderViewOf(tree.Root, subject, lang, active)
	return data, tree
}

func folderViewOf(n *explorer.Node, subject, lang, active string) *folderView {
	fv := &folderView{Name: n.Name}
	for _, child := range n.Folders {
		fv.Folders = append(fv.Folders, folderViewOf(child, subject, lang, active))
	}
	for i, f := range n.Files {
		class := ""
		switch {
		case len(n.Files) == 1:
			class = "is-first is-last is-only"
		case i == 0:
			class = "is-first"
		case i == len(n.Files)-1:
			class = "is-last"
		}
		fv.Files = append(fv.Files, fileView{
			Name:   f.Name,
			Link:   f.Link,
			URL:    link("/article", lang, "subject", subject, "file", f.Link),
			Active: f.Link == active,
			Class:  class,
		})
	}
	return fv
}

func (s *Server) articlePanel(r *http.Request, visitor, lang string, data explorerPage, tree *explorer.Tree, file string) *articlePanel {
	ctx := r.Context()
	panel := &articlePanel{
		UpdatedLabel: data.T("ui_updated"),
		ExampleLabel: data.T("ui_example"),
		RemixLabel:   data.T("ui_widget_remix"),
		Back: navLink{
			Label: data.T("ui_back"),
			Name:  data.T("nav_subjects"),
			URL:   link("/", lang),
		},
	}

	if tree != nil {
		prev, next, _ := tree.Neighbors(file)
		if prev != nil {
			panel.Prev = &navLink{Label: data.T("ui_prev_nav"), Name: prev.Name, URL: link("/article", lang, "subject", data.Subject, "file", prev.Link)}
		}
		if next != nil {
			panel.Next = &navLink{Label: data.T("ui_next_nav"), Name: next.Name, URL: link("/article", lang, "subject", data.Subject, "file", next.Link)}
		}
	}

	if tree != nil && !tree.Contains(file) {
		slog.Warn("file not listed for subject", "subject", data.Subject, "year", data.Year, "file", file)
		panel.Error = data.T("error_article") + " (" + file + ")"
		return panel
	}

	if !(explorer.Record{Link: file}).IsArticle() {
		panel.PDFURL = file
		return panel
	}

	doc, err := s.deps.Content.Article(ctx, file)
	if err != nil {
		slog.Warn("article unavailable", "file", file, "error", err)
		panel.Error = data.T("error_article")
		if errors.Is(err, source.ErrNotFound) || errors.Is(err, article.ErrInvalidDocument) {
			panel.Error += " (" + file + ")"
		}
		return panel
	}

	rendered := s.deps.Renderer.Render(doc, lang, data.T)
	panel.Title = rendered.Title
	panel.Updated = rendered.Updated

	v := s.viewFor(r, visitor, lang, data.Subject, file, doc)
	panel.ViewID = v.ID

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, sv := range rendered.Sections {
		sp := sectionPanel{SectionView: sv}
		if sv.QuizID != "" {
			sp.Quiz = s.quizPanel(v, sv.QuizID, data.T)
		}
		panel.Sections = append(panel.Sections, sp)
	}
	return panel
}

// viewFor returns the view named in the request when it still matches the
// visitor, file and language; otherwise it starts fresh quizzes.
func (s *Server) viewFor(r *http.Request, visitor, lang, subject, file string, doc *article.Document) *articleView {
	if id := r.URL.Query().Get("view"); id != "" {
		if v, ok := s.views.get(id); ok && v.VisitorID == visitor && v.File == file && v.Lang == lang {
			return v
		}
	}

	v := &articleView{
		ID:        uuid.NewString(),
		VisitorID: visitor,
		Subject:   subject,
		File:      file,
		Lang:      lang,
		quizzes:   quiz.NewSet(),
		signals:   make(map[string]quiz.Signal),
	}
	v.URL = link("/article", lang, "subject", subject, "file", file, "view", v.ID)

	for i, sec := range doc.Sections {
		if sec.Type != article.TypeQuiz {
			continue
		}
		id := article.QuizID(i)
		q, err := quiz.Start(sec.Questions(lang),
			quiz.WithShuffle(s.deps.Shuffle),
			quiz.WithNotify(func(sig quiz.Signal) { v.signals[id] = sig }),
		)
		if err != nil {
			slog.Warn("quiz section skipped", "file", file, "section", id, "error", err)
			continue
		}
		v.quizzes.Put(id, q)
	}

	s.views.add(v)
	slog.Debug("article view created", "view", v.ID, "file", file, "lang", lang, "quizzes", v.quizzes.Len())
	return v
}

func (s *Server) handleSetYear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	visitor := visitorID(w, r)
	year := r.PostFormValue("year")
	if year == "" {
		year = catalog.AllYears
	}
	if err := s.deps.Prefs.SetYear(r.Context(), visitor, year); err != nil {
		slog.Warn("failed to save year", "visitor", visitor, "error", err)
	}
	http.Redirect(w, r, safeReturn(r.PostFormValue("return"), link("/", s.locale(r))), http.StatusSeeOther)
}
