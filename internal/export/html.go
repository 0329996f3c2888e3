package export

import (
	"io"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/chatlens/chatlens/pkg/chatlens/chat"
)

// ReadHTML reads an HTML chat export of the kind messengers produce:
// one div per message carrying a "message" class, with the author under
// a "from_name" class, the body under a "text" class, and the timestamp
// in the title attribute of a "date" element. Blocks missing any of the
// three, or with an unparseable timestamp, count as rejected.
func ReadHTML(r io.Reader, layout string) (chat.Table, LoadStats, error) {
	var stats LoadStats

	doc, err := html.Parse(r)
	if err != nil {
		return nil, stats, err
	}

	var table chat.Table
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "message") {
			stats.RowsRead++
			msg, ok := parseMessageNode(n, layout)
			if ok {
				table = append(table, msg)
			} else {
				stats.RowsRejected++
			}
			// Message blocks do not nest; no need to descend further.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return table, stats, nil
}

func parseMessageNode(n *html.Node, layout string) (chat.Message, bool) {
	author := strings.TrimSpace(textOfClass(n, "from_name"))
	body := strings.TrimSpace(textOfClass(n, "text"))
	title := attrOfClass(n, "date", "title")
	if author == "" || title == "" {
		return chat.Message{}, false
	}

	ts, err := time.Parse(layout, strings.TrimSpace(title))
	if err != nil {
		return chat.Message{}, false
	}

	return chat.Message{Timestamp: ts, Author: author, Text: body}, true
}

// textOfClass collects the text content of the first descendant with
// the given class.
func textOfClass(n *html.Node, class string) string {
	target := findClass(n, class)
	if target == nil {
		return ""
	}

	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(target)
	return buf.String()
}

func attrOfClass(n *html.Node, class, attr string) string {
	target := findClass(n, class)
	if target == nil {
		return ""
	}
	for _, a := range target.Attr {
		if a.Key == attr {
			return a.Val
		}
	}
	return ""
}

func findClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, class) {
			return c
		}
		if found := findClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
