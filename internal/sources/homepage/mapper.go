package homepage

import (
	"net/url"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/quicklink/internal/items"
)

// ServiceDrafts converts every service with a usable href into a link item
// titled with the service name. Groups and services keep their file order.
func ServiceDrafts(config ServicesConfig) []items.Draft {
	var drafts []items.Draft
	for _, group := range config {
		for _, groupName := range sortedKeys(group) {
			for _, serviceMap := range group[groupName] {
				for _, name := range sortedKeys(serviceMap) {
					href := strings.TrimSpace(serviceMap[name].Href)
					if !validLink(href) {
						continue
					}
					drafts = append(drafts, items.Draft{Title: name, Value: href})
				}
			}
		}
	}
	return drafts
}

// BookmarkDrafts converts bookmarks into link items. The bookmark name is the
// title; abbr stands in when the name is blank.
func BookmarkDrafts(config BookmarksConfig) []items.Draft {
	var drafts []items.Draft
	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			for _, bookmarkMap := range category[categoryName] {
				for _, name := range sortedKeys(bookmarkMap) {
					// Each bookmark has a list with a single entry
					entries := bookmarkMap[name]
					if len(entries) == 0 {
						continue
					}
					entry := entries[0]

					href := strings.TrimSpace(entry.Href)
					if !validLink(href) {
						continue
					}

					title := strings.TrimSpace(name)
					if title == "" {
						title = entry.Abbr
					}
					drafts = append(drafts, items.Draft{Title: title, Value: href})
				}
			}
		}
	}
	return drafts
}

// validLink accepts absolute http(s) URLs with a host
func validLink(href string) bool {
	if href == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil || u.Hostname() == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
