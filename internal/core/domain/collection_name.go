package domain

import (
	"strings"
	"unicode"
)

// ResolveTableName превращает отображаемое имя коллекции в имя таблицы:
// "Plush Pepe" -> "plushpepes", "Jelly Bunny #12" -> "jellybunnys".
// Пустой результат не отвергается, это делает вызывающий код.
func ResolveTableName(display string) string {
	var b strings.Builder
	b.Grow(len(display) + 1)
	for _, r := range display {
		if unicode.IsDigit(r) || r == '#' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}

	name := b.String()
	if !strings.HasSuffix(name, "s") {
		name += "s"
	}
	return name
}

// DisplayNameFromTable обратная эвристика для листинга:
// "plushpepes" -> "Plushpepe", "PlushPepes" -> "Plush Pepe", "NFTs" -> "NFT".
// Заглавной становится только первая буква слова, остальные не меняются.
func DisplayNameFromTable(table string) string {
	base := strings.TrimSuffix(table, "s")

	var b strings.Builder
	var prev rune
	for i, r := range base {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = upperWordStarts(w)
	}
	return strings.Join(words, " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// upperWordStarts поднимает регистр первой буквы каждого слова: "b-day" -> "B-Day"
func upperWordStarts(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		if isWordRune(r) {
			if !inWord {
				r = unicode.ToUpper(r)
			}
			inWord = true
		} else {
			inWord = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
