package crawler

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	eventsBlockRegex = regexp.MustCompile(`(?s)\bevents\s*=\s*\[(.*?)\];`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	objectRegex      = regexp.MustCompile(`\{(.*?)\}`)

	startRegex = fieldRegex("start")
	endRegex   = fieldRegex("end")
	idRegex    = fieldRegex("id")
	// url : eventUrl + '&id_form=44&starting_date_time=...'
	urlRegex = regexp.MustCompile(`\burl["']?\s*:\s*(?:[A-Za-z_$][\w$.]*\s*\+\s*)?(?:'([^']*)'|"([^"]*)")`)
)

func fieldRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + name + `["']?\s*:\s*(?:'([^']*)'|"([^"]*)")`)
}

// EventsExtractor reads the calendar's `events = [ {...}, ... ];` script
// literal. It is a textual scan, not a JavaScript parse: objects are matched
// non-greedily between braces, so a brace inside a value cuts that object
// short.
type EventsExtractor struct{}

// NewEventsExtractor creates the default extractor
func NewEventsExtractor() *EventsExtractor {
	return &EventsExtractor{}
}

// Extract returns the slots declared in the first events literal, in source
// order. Objects missing start or end are dropped.
func (e *EventsExtractor) Extract(body string) []Slot {
	slots := []Slot{}

	block, ok := findEventsBlock(body)
	if !ok {
		return slots
	}

	block = whitespaceRegex.ReplaceAllString(block, " ")
	for _, m := range objectRegex.FindAllStringSubmatch(block, -1) {
		if slot, ok := parseSlot(m[1]); ok {
			slots = append(slots, slot)
		}
	}

	return slots
}

// findEventsBlock looks in the page's script elements first, then in the raw
// text for bodies that are bare script.
func findEventsBlock(body string) (string, bool) {
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		var block string
		found := false
		doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if m := eventsBlockRegex.FindStringSubmatch(s.Text()); m != nil {
				block, found = m[1], true
				return false
			}
			return true
		})
		if found {
			return block, true
		}
	}

	if m := eventsBlockRegex.FindStringSubmatch(body); m != nil {
		return m[1], true
	}
	return "", false
}

func parseSlot(object string) (Slot, bool) {
	slot := Slot{
		Start:     pick(startRegex, object),
		End:       pick(endRegex, object),
		ID:        pick(idRegex, object),
		URLSuffix: pick(urlRegex, object),
	}
	if slot.Start == "" || slot.End == "" {
		return Slot{}, false
	}
	return slot, true
}

// pick returns the quoted value of the first match, whichever quote style
func pick(re *regexp.Regexp, object string) string {
	m := re.FindStringSubmatch(object)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}
