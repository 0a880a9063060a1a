package explorer

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// titleFetchLimit bounds concurrent article fetches while resolving titles.
const titleFetchLimit = 8

// TitleFunc returns the display title of the article at link.
type TitleFunc func(ctx context.Context, link string) (string, error)

// ResolveTitles fills in the display name of records that have none. Article
// links are titled by fetch; a failed fetch falls back to the link without its
// extension. Other links are shown as written. Records are returned in the
// same order and the input is not modified.
func ResolveTitles(ctx context.Context, records []Record, fetch TitleFunc) []Record {
	out := append([]Record(nil), records...)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(titleFetchLimit)

	for i := range out {
		r := &out[i]
		if r.DisplayName != "" {
			continue
		}
		if !r.IsArticle() || fetch == nil {
			r.DisplayName = r.Link
			continue
		}
		g.Go(func() error {
			title, err := fetch(gctx, r.Link)
			if err != nil || title == "" {
				if err != nil {
					slog.Warn("failed to load title", "link", r.Link, "error", err)
				}
				title = strings.Replace(r.Link, ".json", "", 1)
			}
			r.DisplayName = title
			return nil
		})
	}
	_ = g.Wait()
	return out
}
