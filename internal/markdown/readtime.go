package markdown

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DefaultWordsPerMinute is the reading speed assumed for prose.
const DefaultWordsPerMinute = 265

const (
	firstImageSeconds = 12
	minImageSeconds   = 3
)

var wordPattern = regexp.MustCompile(`\w+`)

// ReadTime is an estimate of how long a rendered document takes to read.
type ReadTime struct {
	Duration time.Duration
	Minutes  int
	Text     string // "<n> min read"
}

func (r ReadTime) String() string { return r.Text }

// EstimateReadTime counts the visible words and images of rendered HTML.
// Images add 12 seconds for the first and one second less for each further
// image, never below 3 seconds per image.
func EstimateReadTime(renderedHTML string, wordsPerMinute int) ReadTime {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words, images := countContent(renderedHTML)

	seconds := math.Ceil(float64(words) / float64(wordsPerMinute) * 60)
	for i := 0; i < images; i++ {
		seconds += float64(max(firstImageSeconds-i, minImageSeconds))
	}

	minutes := max(int(math.Ceil(seconds/60)), 1)
	return ReadTime{
		Duration: time.Duration(seconds) * time.Second,
		Minutes:  minutes,
		Text:     fmt.Sprintf("%d min read", minutes),
	}
}

func countContent(renderedHTML string) (words, images int) {
	z := html.NewTokenizer(strings.NewReader(renderedHTML))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return words, images
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "img":
				images++
			case "script", "style":
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if s := string(name); (s == "script" || s == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				words += len(wordPattern.FindAll(z.Text(), -1))
			}
		}
	}
}
