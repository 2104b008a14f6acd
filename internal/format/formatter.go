// Package format converts raw problem statement HTML into portable markdown.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// StatementUnavailable is returned when nothing useful can be recovered
const StatementUnavailable = "Problem statement could not be retrieved."

// Pipeline ordering is an invariant, not an accident:
// math payloads exist only verbatim inside their script tags, so math
// extraction must run before any generic tag stripping, and entity decoding
// must run after tag stripping so decoded entities are never re-read as markup.
var (
	reInlineMath  = regexp.MustCompile(`(?is)<script[^>]*type=["']math/tex["'][^>]*>\s*(.*?)\s*</script>`)
	reDisplayMath = regexp.MustCompile(`(?is)<script[^>]*type=["']math/tex;\s*mode=display["'][^>]*>\s*(.*?)\s*</script>`)
	reMathJaxSpan = regexp.MustCompile(`(?is)<span[^>]*class=["'][^"']*MathJax[^"']*["'][^>]*>(.*?)</span>`)
	reMathSymbols = regexp.MustCompile(`[\\{}^_$=+\-*/]`)

	reScript   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reNoscript = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)

	reHeading   = regexp.MustCompile(`(?is)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	reParagraph = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	reBreak     = regexp.MustCompile(`(?i)<br[^>]*/?>`)
	reBold      = regexp.MustCompile(`(?is)<(?:b|strong)[^>]*>(.*?)</(?:b|strong)>`)
	reItalic    = regexp.MustCompile(`(?is)<(?:i|em)[^>]*>(.*?)</(?:i|em)>`)
	rePre       = regexp.MustCompile(`(?is)<pre[^>]*>(.*?)</pre>`)
	reCodeTag   = regexp.MustCompile(`(?is)<code[^>]*>(.*?)</code>`)
	reUList     = regexp.MustCompile(`(?is)<ul[^>]*>(.*?)</ul>`)
	reOList     = regexp.MustCompile(`(?is)<ol[^>]*>(.*?)</ol>`)
	reListItem  = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	reTable     = regexp.MustCompile(`(?is)<table[^>]*>(.*?)</table>`)
	reTableRow  = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	reTableCell = regexp.MustCompile(`(?is)<t[hd][^>]*>(.*?)</t[hd]>`)
	reLink      = regexp.MustCompile(`(?is)<a[^>]*href=["']([^"']*)["'][^>]*>(.*?)</a>`)
	reImageAlt  = regexp.MustCompile(`(?i)<img[^>]*src=["']([^"']*)["'][^>]*alt=["']([^"']*)["'][^>]*/?>`)
	reImage     = regexp.MustCompile(`(?i)<img[^>]*src=["']([^"']*)["'][^>]*/?>`)

	reAnyTag = regexp.MustCompile(`<[^>]*>`)
	reEntity = regexp.MustCompile(`&(#?\w+);`)

	reManyNewlines  = regexp.MustCompile(`\n{3,}`)
	reRunSpaces     = regexp.MustCompile(`[ \t]+`)
	reSpaceAfterNL  = regexp.MustCompile(`\n[ \t]+`)
	reSpaceBeforeNL = regexp.MustCompile(`[ \t]+\n`)
	reWhitespace    = regexp.MustCompile(`\s+`)
)

// namedEntities is the fixed decode table; numeric references are handled
// separately.
var namedEntities = map[string]string{
	"&lt;": "<", "&gt;": ">", "&amp;": "&", "&quot;": `"`, "&apos;": "'",
	"&nbsp;": " ", "&ndash;": "–", "&mdash;": "—", "&hellip;": "…",
	"&copy;": "©", "&reg;": "®", "&trade;": "™", "&deg;": "°",
	"&plusmn;": "±", "&times;": "×", "&divide;": "÷",
	"&alpha;": "α", "&beta;": "β", "&gamma;": "γ", "&delta;": "δ",
	"&epsilon;": "ε", "&pi;": "π", "&sigma;": "σ", "&tau;": "τ",
	"&phi;": "φ", "&omega;": "ω",
}

// Statement converts problem HTML into markdown. It is total: malformed input
// yields a best-effort plain-text strip and, as a last resort, a fixed
// sentinel string. It never panics.
func Statement(html string) (out string) {
	if html == "" {
		return StatementUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			out = fallbackStrip(html)
		}
	}()

	cleaned := extractMath(html)

	cleaned = reScript.ReplaceAllString(cleaned, "")
	cleaned = reStyle.ReplaceAllString(cleaned, "")
	cleaned = reNoscript.ReplaceAllString(cleaned, "")

	cleaned = convertBlocks(cleaned)

	cleaned = reAnyTag.ReplaceAllString(cleaned, "")
	cleaned = decodeEntities(cleaned)
	cleaned = collapseWhitespace(cleaned)

	if cleaned == "" {
		return StatementUnavailable
	}
	return cleaned
}

func extractMath(html string) string {
	// Inline pattern requires the quote right after math/tex, so it cannot
	// consume the display variant.
	cleaned := reInlineMath.ReplaceAllStringFunc(html, func(m string) string {
		payload := reInlineMath.FindStringSubmatch(m)[1]
		return " $" + unescapeMath(payload) + "$ "
	})

	cleaned = reDisplayMath.ReplaceAllStringFunc(cleaned, func(m string) string {
		payload := reDisplayMath.FindStringSubmatch(m)[1]
		return "\n\n$$" + unescapeMath(payload) + "$$\n\n"
	})

	// Rendered MathJax spans are a fallback when the source script tag is gone
	cleaned = reMathJaxSpan.ReplaceAllStringFunc(cleaned, func(m string) string {
		inner := reMathJaxSpan.FindStringSubmatch(m)[1]
		text := unescapeMath(reAnyTag.ReplaceAllString(inner, ""))
		if text == "" {
			return ""
		}
		if reMathSymbols.MatchString(text) {
			return " $" + text + "$ "
		}
		return text
	})

	return cleaned
}

func unescapeMath(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.TrimSpace(s)
}

func convertBlocks(cleaned string) string {
	cleaned = reHeading.ReplaceAllStringFunc(cleaned, func(m string) string {
		parts := reHeading.FindStringSubmatch(m)
		level, _ := strconv.Atoi(parts[1])
		content := strings.TrimSpace(reAnyTag.ReplaceAllString(parts[2], ""))
		return "\n\n" + strings.Repeat("#", level) + " " + content + "\n\n"
	})

	cleaned = reParagraph.ReplaceAllStringFunc(cleaned, func(m string) string {
		content := strings.TrimSpace(reAnyTag.ReplaceAllString(reParagraph.FindStringSubmatch(m)[1], ""))
		if content == "" {
			return ""
		}
		return "\n\n" + content + "\n\n"
	})

	cleaned = reBreak.ReplaceAllString(cleaned, "\n")
	cleaned = reBold.ReplaceAllString(cleaned, "**${1}**")
	cleaned = reItalic.ReplaceAllString(cleaned, "*${1}*")

	cleaned = rePre.ReplaceAllStringFunc(cleaned, func(m string) string {
		content := rePre.FindStringSubmatch(m)[1]
		content = reCodeTag.ReplaceAllString(content, "${1}")
		content = strings.TrimSpace(reAnyTag.ReplaceAllString(content, ""))
		return "\n\n```\n" + content + "\n```\n\n"
	})
	cleaned = reCodeTag.ReplaceAllString(cleaned, "`${1}`")

	cleaned = reUList.ReplaceAllStringFunc(cleaned, func(m string) string {
		items := reListItem.ReplaceAllString(reUList.FindStringSubmatch(m)[1], "- ${1}\n")
		return "\n" + items + "\n"
	})
	cleaned = reOList.ReplaceAllStringFunc(cleaned, func(m string) string {
		counter := 0
		items := reListItem.ReplaceAllStringFunc(reOList.FindStringSubmatch(m)[1], func(item string) string {
			counter++
			return fmt.Sprintf("%d. %s\n", counter, reListItem.FindStringSubmatch(item)[1])
		})
		return "\n" + items + "\n"
	})

	cleaned = reTable.ReplaceAllStringFunc(cleaned, func(m string) string {
		content := reTable.FindStringSubmatch(m)[1]
		content = reTableRow.ReplaceAllString(content, "${1}|\n")
		content = reTableCell.ReplaceAllString(content, "| ${1} ")
		return "\n\n" + content + "\n\n"
	})

	cleaned = reLink.ReplaceAllString(cleaned, "[${2}](${1})")
	cleaned = reImageAlt.ReplaceAllString(cleaned, "![${2}](${1})")
	cleaned = reImage.ReplaceAllString(cleaned, "![](${1})")

	return cleaned
}

func decodeEntities(s string) string {
	return reEntity.ReplaceAllStringFunc(s, func(m string) string {
		if decoded, ok := namedEntities[m]; ok {
			return decoded
		}
		entity := m[1 : len(m)-1]
		if strings.HasPrefix(entity, "#") {
			var code int64
			var err error
			if strings.HasPrefix(entity, "#x") || strings.HasPrefix(entity, "#X") {
				code, err = strconv.ParseInt(entity[2:], 16, 32)
			} else {
				code, err = strconv.ParseInt(entity[1:], 10, 32)
			}
			if err == nil && code > 0 && code < 0x110000 {
				return string(rune(code))
			}
		}
		return m
	})
}

func collapseWhitespace(s string) string {
	s = reManyNewlines.ReplaceAllString(s, "\n\n")
	s = reRunSpaces.ReplaceAllString(s, " ")
	s = reSpaceAfterNL.ReplaceAllString(s, "\n")
	s = reSpaceBeforeNL.ReplaceAllString(s, "\n")
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// fallbackStrip is the best-effort pass used when the full pipeline fails.
// The sentinel is the last resort if even this pass gives up.
func fallbackStrip(html string) (out string) {
	out = StatementUnavailable
	defer func() { recover() }()

	cleaned := reScript.ReplaceAllString(html, "")
	cleaned = reStyle.ReplaceAllString(cleaned, "")
	cleaned = reAnyTag.ReplaceAllString(cleaned, " ")
	cleaned = decodeEntities(cleaned)
	cleaned = strings.TrimSpace(reWhitespace.ReplaceAllString(cleaned, " "))
	if cleaned != "" {
		out = cleaned
	}
	return out
}
