// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Describe returns a one-line hint for the operator explaining what a
// Fetch error most likely means. Unknown errors yield "".
func Describe(err error) string {
	var (
		transport *ErrTransport
		status    *ErrHTTPStatus
		malformed *ErrMalformedResponse
		shape     *ErrUnexpectedShape
	)
	switch {
	case errors.Is(err, ErrEmptyCatalog):
		return "No public documents were found at this endpoint."
	case errors.As(err, &transport):
		return "Could not connect to the server. Check the URL and your network connection."
	case errors.As(err, &status):
		return "The site may not have a public document API or may be private."
	case errors.As(err, &malformed):
		if title := PageTitle(malformed.Body); title != "" {
			return fmt.Sprintf("The server returned an HTML page titled %q instead of JSON.", title)
		}
		return "The response may not be valid JSON."
	case errors.As(err, &shape):
		return "The JSON response does not contain a 'data' list."
	default:
		return ""
	}
}

// PageTitle returns the trimmed <title> text of an HTML document, or "" if
// body has no title.
func PageTitle(body []byte) string {
	if !bytes.Contains(bytes.ToLower(body), []byte("<title")) {
		return ""
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return findTitle(doc)
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return strings.Join(strings.Fields(b.String()), " ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}
