package glint

import (
	"strings"
	"sync"
)

// measureKey is the memoisation key §4.B names: (text, max_width, mode).
type measureKey struct {
	text     string
	maxWidth int
	wrap     TextWrap
}

type measureResult struct {
	width, height int
}

var (
	measureMu    sync.Mutex
	measureCache = map[measureKey]measureResult{}
)

// Measure returns the natural width when no wrap is required, else
// min(natural, maxWidth) and the wrapped line count (§4.B). It memoises by
// (text, maxWidth, wrap); callers that mutate the underlying text must use
// a new string value so the key changes — there is no explicit
// invalidation call, matching the "pure and deterministic" requirement.
func Measure(text string, maxWidth int, wrap TextWrap) (width, height int) {
	key := measureKey{text: text, maxWidth: maxWidth, wrap: wrap}
	measureMu.Lock()
	if r, ok := measureCache[key]; ok {
		measureMu.Unlock()
		return r.width, r.height
	}
	measureMu.Unlock()

	w, h := measureUncached(text, maxWidth, wrap)

	measureMu.Lock()
	measureCache[key] = measureResult{w, h}
	measureMu.Unlock()
	return w, h
}

func measureUncached(text string, maxWidth int, wrap TextWrap) (int, int) {
	if text == "" {
		return 0, 0
	}
	paragraphs := strings.Split(text, "\n")
	if wrap != WrapWrap {
		maxW := 0
		for _, p := range paragraphs {
			if w := VisibleWidth(p); w > maxW {
				maxW = w
			}
		}
		if maxWidth > 0 && maxW > maxWidth {
			maxW = maxWidth
		}
		return maxW, len(paragraphs)
	}
	totalLines := 0
	maxW := 0
	for _, p := range paragraphs {
		lines := Wrap(p, maxWidth, WrapWrap)
		totalLines += len(lines)
		for _, l := range lines {
			if w := VisibleWidth(l); w > maxW {
				maxW = w
			}
		}
	}
	if totalLines == 0 {
		totalLines = 1
	}
	return maxW, totalLines
}

// Wrap splits text into lines under maxWidth cells according to mode. For
// the truncate modes it always returns a single line.
func Wrap(text string, maxWidth int, wrap TextWrap) []string {
	switch wrap {
	case WrapTruncateEnd:
		return []string{truncateEnd(text, maxWidth)}
	case WrapTruncateStart:
		return []string{truncateStart(text, maxWidth)}
	case WrapTruncateMiddle:
		return []string{truncateMiddle(text, maxWidth)}
	default:
		return wrapLines(text, maxWidth)
	}
}

// wrapLines breaks text on word boundaries, re-slicing with the ANSI-aware
// Slice so each produced line keeps the styling active at its cut points
// (§4.B). An over-long single word is hard-broken at the cell boundary
// that would overflow.
func wrapLines(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		maxWidth = 1
	}
	stripped := StripEscapes(text)
	words := splitWordsWithCols(stripped)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	lineStart := 0
	lineWidth := 0
	emit := func(start, end int) {
		lines = append(lines, Slice(text, start, end))
	}
	cursor := 0
	for i, wseg := range words {
		wlen := wseg.end - wseg.start
		spaceBefore := 0
		if i > 0 {
			spaceBefore = 1
		}
		if wlen > maxWidth {
			if lineWidth > 0 {
				emit(lineStart, cursor)
				lineStart, lineWidth = cursor, 0
			}
			remStart := wseg.start
			for remStart < wseg.end {
				chunk := maxWidth
				if remStart+chunk > wseg.end {
					chunk = wseg.end - remStart
				}
				emit(remStart, remStart+chunk)
				remStart += chunk
			}
			cursor = wseg.end
			lineStart, lineWidth = cursor, 0
			continue
		}
		addWidth := wlen + spaceBefore
		if lineWidth > 0 && lineWidth+addWidth > maxWidth {
			emit(lineStart, cursor)
			lineStart, lineWidth = wseg.start, 0
			addWidth = wlen
		}
		lineWidth += addWidth
		cursor = wseg.end
	}
	if lineWidth > 0 || len(lines) == 0 {
		emit(lineStart, cursor)
	}
	return lines
}

type wordSpan struct{ start, end int }

// splitWordsWithCols finds whitespace-delimited word spans in stripped
// text, expressed in visible-column coordinates (escape sequences
// contribute zero width, so these columns line up with the original
// text's Slice coordinates too).
func splitWordsWithCols(stripped string) []wordSpan {
	var spans []wordSpan
	col := 0
	wordStart := -1
	for _, r := range stripped {
		w := runeVisibleWidth(r)
		isSpace := r == ' ' || r == '\t'
		if isSpace {
			if wordStart >= 0 {
				spans = append(spans, wordSpan{wordStart, col})
				wordStart = -1
			}
		} else if wordStart < 0 {
			wordStart = col
		}
		col += w
	}
	if wordStart >= 0 {
		spans = append(spans, wordSpan{wordStart, col})
	}
	return spans
}

func truncateEnd(text string, maxWidth int) string {
	w := VisibleWidth(text)
	if w <= maxWidth {
		return text
	}
	if maxWidth <= 1 {
		return "…"
	}
	return Slice(text, 0, maxWidth-1) + "…"
}

func truncateStart(text string, maxWidth int) string {
	w := VisibleWidth(text)
	if w <= maxWidth {
		return text
	}
	if maxWidth <= 1 {
		return "…"
	}
	return "…" + Slice(text, w-(maxWidth-1), w)
}

func truncateMiddle(text string, maxWidth int) string {
	w := VisibleWidth(text)
	if w <= maxWidth {
		return text
	}
	if maxWidth <= 1 {
		return "…"
	}
	keep := maxWidth - 1
	head := keep - keep/2
	tail := keep - head
	return Slice(text, 0, head) + "…" + Slice(text, w-tail, w)
}
