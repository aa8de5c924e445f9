package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		kind  Kind // "" means no intent
		query string
	}{
		{"music with artist", "我想聽周杰倫的歌", Music, "周杰倫"},
		{"music generic", "想聽音樂", Music, ""},
		{"music trailing phrase", "想聽陳奕迅的歌", Music, "陳奕迅"},
		{"music genre keyword", "可以播放一些輕音樂嗎", Music, "輕音樂"},
		{"music one song", "來一首晴天", Music, "晴天"},
		{"music lofi", "幫我放首 lofi", Music, "lofi"},
		{"music english", "I want to listen to Taylor Swift", Music, "Taylor Swift"},
		{"music english generic", "can you play some music", Music, ""},
		{"music english listen generic", "let me listen to some music.", Music, ""},
		{"game", "來個遊戲", Game, ""},
		{"game relax", "想玩紓壓小遊戲", Game, ""},
		{"game english", "I want to play a puzzle", Game, ""},
		{"mind", "帶我做正念", Mind, ""},
		{"mind breathing", "可以做個呼吸練習嗎", Mind, ""},
		{"mind english", "help me meditate", Mind, ""},
		{"nothing", "今天天氣不錯", "", ""},
		{"nothing english", "I had a long day", "", ""},
		{"command music", "/music 周杰倫", "", ""},
		{"command upper", "/MIND 2", "", ""},
		{"command with space", "  /game", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if tt.kind == "" {
				if got != nil {
					t.Fatalf("Classify(%q) = %+v, want nil", tt.text, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Classify(%q) = nil, want %s", tt.text, tt.kind)
			}
			if got.Kind != tt.kind || got.Query != tt.query {
				t.Errorf("Classify(%q) = {%s %q}, want {%s %q}", tt.text, got.Kind, got.Query, tt.kind, tt.query)
			}
		})
	}
}

func TestClassify_ReservedPrefixesNeverClassify(t *testing.T) {
	// Each body would otherwise match a rule
	bodies := []string{" 想聽音樂", " 來個遊戲", " 正念", " listen to jazz"}
	for _, p := range reservedPrefixes {
		for _, b := range bodies {
			if got := Classify(p + b); got != nil {
				t.Errorf("Classify(%q) = %+v, want nil", p+b, got)
			}
		}
	}
}

func TestRules_EachRuleMatchesItsExample(t *testing.T) {
	examples := map[int]string{
		0: "想聽歌",
		1: "放一首",
		2: "音樂幫我播",
		3: "play me some songs",
		4: "listen to jazz",
		5: "要玩遊戲",
		6: "紓壓一下來點遊戲",
		7: "want a game",
		8: "想冥想",
		9: "body scan please",
	}
	if len(examples) != len(Rules) {
		t.Fatalf("have %d examples for %d rules", len(examples), len(Rules))
	}
	for i, r := range Rules {
		if !r.Pattern.MatchString(examples[i]) {
			t.Errorf("rule %d (%s) did not match %q", i, r.Kind, examples[i])
		}
	}
}

func TestMusicQuery(t *testing.T) {
	tests := []struct{ text, want string }{
		{"聽五月天", "五月天"},
		{"播放 hip hop", "hip hop"},
		{"想聽歌", ""},
		{"放一首歌", ""},
		{"listen to a song", ""},
		{"隨便", ""},
	}
	for _, tt := range tests {
		if got := MusicQuery(tt.text); got != tt.want {
			t.Errorf("MusicQuery(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
