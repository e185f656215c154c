// Package extract pulls the raw upstream datasets: the curated spreadsheet,
// a sample of RAWG ratings and the sales archive.
package extract

import (
	"context"
	"encoding/csv"
	"io"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sells-group/gamejoin/internal/fetcher"
	"github.com/sells-group/gamejoin/internal/table"
)

// SheetExporter downloads a published spreadsheet.
type SheetExporter struct {
	fetcher fetcher.Fetcher
}

// NewSheetExporter creates a SheetExporter.
func NewSheetExporter(f fetcher.Fetcher) *SheetExporter {
	return &SheetExporter{fetcher: f}
}

// SheetExportURL turns a spreadsheet link such as
// https://docs.google.com/spreadsheets/d/<id>/edit?gid=0 into its CSV export
// URL. The gid in the query or fragment selects the tab; default is 0.
func SheetExportURL(sheetURL string) (string, error) {
	u, err := url.Parse(sheetURL)
	if err != nil {
		return "", eris.Wrapf(err, "extract: parse sheet url %q", sheetURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	id := ""
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "d" {
			id = parts[i+1]
			break
		}
	}
	if id == "" {
		return "", eris.Errorf("extract: no spreadsheet id in %q", sheetURL)
	}

	gid := u.Query().Get("gid")
	if gid == "" {
		if frag, err := url.ParseQuery(u.Fragment); err == nil {
			gid = frag.Get("gid")
		}
	}
	if gid == "" {
		gid = "0"
	}

	export := url.URL{
		Scheme:   u.Scheme,
		Host:     u.Host,
		Path:     "/spreadsheets/d/" + id + "/export",
		RawQuery: url.Values{"format": {"csv"}, "gid": {gid}}.Encode(),
	}
	return export.String(), nil
}

// Export downloads the sheet as CSV into out.
func (e *SheetExporter) Export(ctx context.Context, sheetURL, out string) (int64, error) {
	exportURL, err := SheetExportURL(sheetURL)
	if err != nil {
		return 0, err
	}

	zap.L().Info("extract: downloading spreadsheet", zap.String("url", exportURL), zap.String("out", out))
	n, err := e.fetcher.DownloadToFile(ctx, exportURL, out)
	if err != nil {
		return 0, eris.Wrap(err, "extract: export sheet")
	}
	return n, nil
}

// ScrapeHTMLTable downloads a published page and writes its first <table> to
// out as CSV. Returns the number of rows written, header included.
func (e *SheetExporter) ScrapeHTMLTable(ctx context.Context, pageURL, out string) (int, error) {
	body, err := e.fetcher.Download(ctx, pageURL)
	if err != nil {
		return 0, eris.Wrap(err, "extract: download page")
	}
	defer body.Close() //nolint:errcheck

	rows, err := ParseHTMLTable(body)
	if err != nil {
		return 0, err
	}

	err = table.WriteAtomic(out, func(w *csv.Writer) error {
		return eris.Wrap(w.WriteAll(rows), "extract: write table")
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ParseHTMLTable returns the text of every th/td cell of the first table in
// the document, one slice per tr. Nested tables are not descended into.
func ParseHTMLTable(r io.Reader) ([][]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse html")
	}

	tbl := findFirst(doc, atom.Table)
	if tbl == nil {
		return nil, eris.New("extract: no table found in page")
	}

	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				var cells []string
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.Type == html.ElementNode && (td.DataAtom == atom.Td || td.DataAtom == atom.Th) {
						cells = append(cells, nodeText(td))
					}
				}
				rows = append(rows, cells)
			case atom.Table:
			default:
				walk(c)
			}
		}
	}
	walk(tbl)

	if len(rows) == 0 {
		return nil, eris.New("extract: table has no rows")
	}
	return rows, nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

// nodeText concatenates the text under n, turning <br> into a space and
// collapsing runs of whitespace.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
