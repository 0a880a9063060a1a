package source

import (
	"context"
	"fmt"
	"path"

	"github.com/p-n-ai/syllabus-plus/internal/article"
	"github.com/p-n-ai/syllabus-plus/internal/catalog"
	"github.com/p-n-ai/syllabus-plus/internal/csvdb"
	"github.com/p-n-ai/syllabus-plus/internal/explorer"
	"github.com/p-n-ai/syllabus-plus/internal/i18n"
)

// Layout names the documents of the content database.
type Layout struct {
	CatalogFile      string
	FilesFile        string
	LocalisationFile string
	ArticlesDir      string
}

// Content reads typed data from a Source.
type Content struct {
	src    Source
	layout Layout
}

// NewContent creates a typed reader over src.
func NewContent(src Source, layout Layout) *Content {
	return &Content{src: src, layout: layout}
}

// Catalog loads the subject catalog.
func (c *Content) Catalog(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := c.table(ctx, c.layout.CatalogFile)
	if err != nil {
		return nil, err
	}
	return catalog.FromRows(rows), nil
}

// Records loads the files table.
func (c *Content) Records(ctx context.Context) ([]explorer.Record, error) {
	rows, err := c.table(ctx, c.layout.FilesFile)
	if err != nil {
		return nil, err
	}
	return explorer.DecodeRecords(rows), nil
}

// Localisation loads the localization table.
func (c *Content) Localisation(ctx context.Context) (*i18n.Table, error) {
	data, err := c.src.Fetch(ctx, c.layout.LocalisationFile)
	if err != nil {
		return nil, err
	}
	if csvdb.LooksLikeHTML(data) {
		return nil, fmt.Errorf("decoding %s: %w", c.layout.LocalisationFile, csvdb.ErrHTML)
	}
	return i18n.ParseCSV(data), nil
}

// Article loads and validates an article document.
func (c *Content) Article(ctx context.Context, link string) (*article.Document, error) {
	data, err := c.src.Fetch(ctx, c.articlePath(link))
	if err != nil {
		return nil, err
	}
	doc, err := article.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("article %s: %w", link, err)
	}
	return doc, nil
}

// ArticleTitle returns the title of an article in lang, falling back to the
// link when the document has none.
func (c *Content) ArticleTitle(ctx context.Context, link, lang string) (string, error) {
	data, err := c.src.Fetch(ctx, c.articlePath(link))
	if err != nil {
		return "", err
	}
	title, err := article.TitleOf(data, lang)
	if err != nil {
		return "", err
	}
	if title == "" {
		return link, nil
	}
	return title, nil
}

// TitleFunc binds ArticleTitle to lang for the explorer's title resolver.
func (c *Content) TitleFunc(lang string) explorer.TitleFunc {
	return func(ctx context.Context, link string) (string, error) {
		return c.ArticleTitle(ctx, link, lang)
	}
}

func (c *Content) articlePath(link string) string {
	return path.Join(c.layout.ArticlesDir, link)
}

func (c *Content) table(ctx context.Context, name string) ([]csvdb.Row, error) {
	data, err := c.src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return csvdb.Decode(name, data)
}
