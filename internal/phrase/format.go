package phrase

import (
	"fmt"
	"strings"
)

// Format fills %s verbs in tpl. Templates in one list may use fewer verbs
// than the caller supplies; extra args are dropped instead of rendered as
// %!(EXTRA ...).
func Format(tpl string, args ...interface{}) string {
	n := strings.Count(tpl, "%s")
	if n == 0 {
		return tpl
	}
	if n > len(args) {
		n = len(args)
	}
	return fmt.Sprintf(tpl, args[:n]...)
}
