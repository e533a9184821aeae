package scraper

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// ConvertOptions controls HTML cleanup before markdown conversion
type ConvertOptions struct {
	IncludeLinks   bool
	ExcludeTags    []string
	ExcludeClasses []string
	ExcludeIDs     []string
}

// excludeSelector joins tags, classes and ids into one CSS selector list
func (o ConvertOptions) excludeSelector() string {
	selectors := make([]string, 0, len(o.ExcludeTags)+len(o.ExcludeClasses)+len(o.ExcludeIDs))
	for _, tag := range o.ExcludeTags {
		if tag = strings.TrimSpace(tag); tag != "" {
			selectors = append(selectors, tag)
		}
	}
	for _, class := range o.ExcludeClasses {
		if class = strings.TrimSpace(class); class != "" {
			selectors = append(selectors, "."+class)
		}
	}
	for _, id := range o.ExcludeIDs {
		if id = strings.TrimSpace(id); id != "" {
			selectors = append(selectors, "#"+id)
		}
	}
	return strings.Join(selectors, ",")
}

// ConvertHTML strips excluded elements from html and renders the rest as markdown.
// When IncludeLinks is false anchors render as their text only.
func ConvertHTML(html string, baseURL string, opts ConvertOptions) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if selector := opts.excludeSelector(); selector != "" {
		doc.Find(selector).Remove()
	}

	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render cleaned HTML: %w", err)
	}

	converter := md.NewConverter(baseURL, true, nil)
	if !opts.IncludeLinks {
		converter.AddRules(md.Rule{
			Filter: []string{"a"},
			Replacement: func(content string, selec *goquery.Selection, options *md.Options) *string {
				return md.String(content)
			},
		})
	}

	markdown, err := converter.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return strings.TrimSpace(blankLinesRe.ReplaceAllString(markdown, "\n\n")), nil
}
