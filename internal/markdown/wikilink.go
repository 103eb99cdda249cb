package markdown

import (
	"regexp"
	"strings"
)

var wikiLinkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)

// LinkResolver maps a wikilink target (a note title or slug) to an href.
type LinkResolver func(target string) (string, bool)

// ResolveWikilinks rewrites [[target]] and [[target|label]] references to
// plain Markdown links. Targets the resolver does not know stay literal,
// so a link to a note that does not exist yet reads as written.
func ResolveWikilinks(content string, resolve LinkResolver) string {
	return wikiLinkRe.ReplaceAllStringFunc(content, func(match string) string {
		groups := wikiLinkRe.FindStringSubmatch(match)
		target := strings.TrimSpace(groups[1])
		label := target
		if groups[2] != "" {
			label = strings.TrimSpace(groups[2])
		}
		href, ok := resolve(target)
		if !ok {
			return match
		}
		return "[" + label + "](" + href + ")"
	})
}
