package inlabs

import (
	"io"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// findDayLink scans the portal home page for an anchor whose href or
// label mentions the publication day in any of the portal's spellings
// (2025-08-19, 2025_08_19, 20250819).
func findDayLink(page io.Reader, day string) (string, error) {
	root, err := html.Parse(page)
	if err != nil {
		return "", err
	}

	candidates := []string{
		strings.ToLower(day),
		strings.ToLower(strings.ReplaceAll(day, "-", "_")),
		strings.ToLower(strings.ReplaceAll(day, "-", "")),
	}

	var href string
	walkAnchors(root, func(anchorHref, label string) {
		if href != "" {
			return
		}
		hay := strings.ToLower(label + " " + anchorHref)
		for _, candidate := range candidates {
			if candidate != "" && strings.Contains(hay, candidate) {
				href = anchorHref
				return
			}
		}
	})
	return href, nil
}

// pickZipLinks extracts the .zip links from a day listing whose label (or
// filename) mentions one of the wanted section names. Relative hrefs are
// resolved against the listing URL; the result is deduplicated and sorted.
func pickZipLinks(page io.Reader, listingURL string, sections []string) ([]string, error) {
	root, err := html.Parse(page)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(listingURL)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(sections))
	for _, section := range sections {
		wanted[strings.ToUpper(section)] = true
	}
	if len(wanted) == 0 {
		wanted["DO1"] = true
	}

	seen := make(map[string]bool)
	var links []string
	walkAnchors(root, func(href, label string) {
		if !strings.HasSuffix(strings.ToLower(href), ".zip") {
			return
		}
		if label == "" {
			label = href
		}
		upper := strings.ToUpper(label)
		matched := false
		for section := range wanted {
			if strings.Contains(upper, section) {
				matched = true
				break
			}
		}
		if !matched {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		absolute := base.ResolveReference(ref).String()
		if !seen[absolute] {
			seen[absolute] = true
			links = append(links, absolute)
		}
	})

	sort.Strings(links)
	return links, nil
}

// walkAnchors visits every <a href> in the document with its flattened
// label text.
func walkAnchors(root *html.Node, visit func(href, label string)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			var href string
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = strings.TrimSpace(attr.Val)
					break
				}
			}
			if href != "" {
				visit(href, anchorText(n))
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
}

func anchorText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if trimmed := strings.TrimSpace(node.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
