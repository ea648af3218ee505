package web

import (
	"html/template"

	"git.sr.ht/~mariusor/tagextractor"
	"gitlab.com/golang-commonmark/markdown"
)

func renderMarkdown(data string) template.HTML {
	md := markdown.New(
		markdown.HTML(false),
		markdown.Tables(true),
		markdown.Linkify(true),
		markdown.Typographer(true),
		markdown.Breaks(true),
	)
	return template.HTML(md.RenderToString([]byte(data)))
}

func hashtag(s string) string {
	if s == "" {
		return ""
	}
	return "#" + tagextractor.TagNormalize(s)
}
