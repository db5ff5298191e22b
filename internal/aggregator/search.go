package aggregator

import (
	"regexp"
	"strings"

	"github.com/s21platform/chat-sync/internal/model"
)

// Search returns the messages whose text or author name matches term,
// case-insensitively. term is tried as a regular expression first and as a
// literal when it does not compile. An empty term matches nothing.
func Search(messages model.MessageList, term string) model.MessageList {
	if term == "" {
		return nil
	}
	re := compileTerm(term)

	var out model.MessageList
	for _, msg := range messages {
		if (msg.Content != "" && re.MatchString(msg.Content)) || re.MatchString(msg.User.Name) {
			out = append(out, msg)
		}
	}
	return out
}

// clearFlags matches flag groups that turn flags off, like (?-i) or (?s-i:.
var clearFlags = regexp.MustCompile(`\(\?([a-zA-Z]*)-([a-zA-Z]*)([):])`)

func compileTerm(term string) *regexp.Regexp {
	pattern := clearFlags.ReplaceAllStringFunc(term, keepCaseFolding)
	re, err := regexp.Compile("(?i)(?:" + pattern + ")")
	if err != nil {
		return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	}
	return re
}

// keepCaseFolding drops i from the cleared flags of a single flag group.
func keepCaseFolding(group string) string {
	m := clearFlags.FindStringSubmatch(group)
	set, cleared, end := m[1], strings.ReplaceAll(m[2], "i", ""), m[3]
	if cleared != "" {
		set += "-" + cleared
	}
	if set == "" && end == ")" {
		return ""
	}
	return "(?" + set + end
}
