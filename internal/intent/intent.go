// Package intent maps free text to a music, game or mind request using an
// ordered table of regular expressions.
package intent

import (
	"regexp"
	"strings"
)

// Kind is the category of an inferred request
type Kind string

const (
	Music Kind = "music"
	Game  Kind = "game"
	Mind  Kind = "mind"
)

// Intent is a classified user goal. Query is only set for Music and may be
// empty, meaning the caller should ask for one.
type Intent struct {
	Kind  Kind
	Query string
}

// Rule maps one pattern to a Kind
type Rule struct {
	Kind    Kind
	Pattern *regexp.Regexp
}

// Rules is evaluated top to bottom; the first match decides the Kind. Music
// rules come before game rules, game before mind.
var Rules = []Rule{
	{Music, regexp.MustCompile(`(?i)(想|要|可以)?(聽|播|播放).*?(歌|音樂)`)},
	{Music, regexp.MustCompile(`(?i)(來|放)一?首`)},
	{Music, regexp.MustCompile(`(?i)音樂.*(放|播)`)},
	{Music, regexp.MustCompile(`(?i)\b(play|put on)\b.*\b(music|songs?|tunes)\b`)},
	{Music, regexp.MustCompile(`(?i)\blisten to\b`)},

	{Game, regexp.MustCompile(`(?i)(想|要|可以)?(玩|來).*?(遊戲|小遊戲)`)},
	{Game, regexp.MustCompile(`(?i)紓壓.*(遊戲)`)},
	{Game, regexp.MustCompile(`(?i)\b(play|want)\b.*\b(game|puzzle)\b`)},

	{Mind, regexp.MustCompile(`(?i)(想|要|可以)?.*?(正念|冥想|呼吸練習|身體掃描|放鬆練習)`)},
	{Mind, regexp.MustCompile(`(?i)\b(meditat\w*|mindfulness|breathing exercises?|body scan)\b`)},
}

// queryRules recover the artist, genre or mood from a music request. Each
// must define the named group "q".
var queryRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(聽|播|播放|來|放).*?(?P<q>周杰倫|五月天|lo-?fi|lofi|鋼琴|放鬆|輕音樂|抒情|搖滾|爵士|古典|電音|hip[- ]?hop|rap|白噪音|日文|韓文|英文|中文|中文歌|日語|韓語)`),
	regexp.MustCompile(`(?i)想.*?聽(?P<q>.+?)(的歌)?$`),
	regexp.MustCompile(`(?i)(來|放).*?一?首(?P<q>.+)$`),
	regexp.MustCompile(`(?i)\blisten to (?P<q>.+?)[.!?]*$`),
}

// genericQueries name music in general rather than a specific request
var genericQueries = map[string]bool{
	"音樂": true, "歌": true, "歌曲": true, "一首歌": true, "首歌": true,
	"music": true, "a song": true, "some music": true, "songs": true, "something": true,
}

// reservedPrefixes are explicit commands; they are never reinterpreted
var reservedPrefixes = []string{
	"/ok", "/no", "/music", "/game", "/mind", "/chat", "/reset", "/end", "/menu",
}

// IsCommand reports whether text starts with a reserved command prefix
func IsCommand(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

// Classify returns the intent expressed by text, or nil when text is a
// command or matches no rule
func Classify(text string) *Intent {
	if IsCommand(text) {
		return nil
	}
	for _, r := range Rules {
		if !r.Pattern.MatchString(text) {
			continue
		}
		in := &Intent{Kind: r.Kind}
		if r.Kind == Music {
			in.Query = MusicQuery(text)
		}
		return in
	}
	return nil
}

// MusicQuery extracts a free-text query from a music request. It returns ""
// when nothing more specific than "music" was asked for.
func MusicQuery(text string) string {
	text = strings.TrimSpace(text)
	for _, re := range queryRules {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		q := strings.TrimSpace(m[re.SubexpIndex("q")])
		if genericQueries[strings.ToLower(q)] {
			return ""
		}
		return q
	}
	return ""
}
