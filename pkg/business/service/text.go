package service

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type ITextService interface {
	RemoveTags(input string) string
	RemoveLinks(input string) string
	CollapseSpaces(input string) string
	CleanTitle(input string) string
	CleanDescription(input string) string
}

var (
	// только HTML-разметка: "<XL>" в названии размера остаётся
	tagsRe   = regexp.MustCompile(`(?i)</?(a|b|i|u|s|p|br|hr|em|strong|span|div|font|ul|ol|li|h[1-6]|table|thead|tbody|tr|td|th|img|sup|sub|small|big|blockquote|pre|code)(\s[^>]*)?/?>`)
	linksRe  = regexp.MustCompile(`https?://[^\s]+`)
	spacesRe = regexp.MustCompile(`[ \t\p{Zs}]+`)
	blankRe  = regexp.MustCompile(`\n{3,}`)
)

type TextService struct {
	maxTitleLength int
}

func NewTextService() *TextService {
	return &TextService{maxTitleLength: 200}
}

func (ts *TextService) RemoveTags(input string) string {
	return tagsRe.ReplaceAllString(html.UnescapeString(input), "")
}

func (ts *TextService) RemoveLinks(input string) string {
	return linksRe.ReplaceAllString(input, "")
}

// CollapseSpaces сводит пробелы внутри строк к одному и убирает пробелы по краям строк.
func (ts *TextService) CollapseSpaces(input string) string {
	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spacesRe.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(blankRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

// CleanTitle: NFC, без тегов, в одну строку, не длиннее maxTitleLength рун.
func (ts *TextService) CleanTitle(input string) string {
	cleaned := norm.NFC.String(input)
	cleaned = ts.RemoveTags(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return ts.ReduceToLength(cleaned, ts.maxTitleLength)
}

// CleanDescription сохраняет переносы строк, но убирает разметку.
func (ts *TextService) CleanDescription(input string) string {
	cleaned := norm.NFC.String(input)
	cleaned = ts.RemoveTags(cleaned)
	return ts.CollapseSpaces(cleaned)
}

// ReduceToLength обрезает по границе слова, чтобы уложиться в length рун.
func (ts *TextService) ReduceToLength(input string, length int) string {
	if len([]rune(input)) <= length {
		return input
	}
	var builder strings.Builder
	total := 0
	for i, word := range strings.Split(input, " ") {
		wordLen := len([]rune(word))
		extra := wordLen
		if i > 0 {
			extra++
		}
		if total+extra > length {
			if i == 0 {
				// одно слово длиннее лимита режем по рунам
				builder.WriteString(string([]rune(word)[:length]))
			}
			break
		}
		if i > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(word)
		total += extra
	}
	return builder.String()
}
