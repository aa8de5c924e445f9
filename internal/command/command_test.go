package command

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
		arg  string
	}{
		{"/ok", OK, ""},
		{"  /OK  ", OK, ""},
		{"/no", No, ""},
		{"/music", Music, ""},
		{"/music 周杰倫", Music, "周杰倫"},
		{"/music   想聽放鬆的鋼琴 ", Music, "想聽放鬆的鋼琴"},
		{"/music\t爵士", Music, "爵士"},
		{"/music　五月天", Music, "五月天"}, // full-width space
		{"/game", Game, ""},
		{"/mind", Mind, ""},
		{"/mind 2", Mind, "2"},
		{"/mind 放鬆", Mind, "放鬆"},
		{"/chat", Chat, ""},
		{"/reset", Reset, ""},
		{"/end", End, ""},
		{"/menu", Menu, ""},
		{"/ok thanks", Text, ""},
		{"/game now", Text, ""},
		{"/musical", Text, ""},
		{"/unknown", Text, ""},
		{"想聽音樂", Text, ""},
		{"", Text, ""},
	}

	for _, tt := range tests {
		got := Parse(tt.line)
		if got.Kind != tt.kind || got.Arg != tt.arg {
			t.Errorf("Parse(%q) = {%v %q}, want {%v %q}", tt.line, got.Kind, got.Arg, tt.kind, tt.arg)
		}
	}
}

func TestParse_RawIsTrimmedLine(t *testing.T) {
	if got := Parse("  想聽音樂 \n").Raw; got != "想聽音樂" {
		t.Errorf("Raw = %q", got)
	}
}

func TestMindArg(t *testing.T) {
	tests := []struct {
		line    string
		index   int
		keyword string
	}{
		{"/mind", NoIndex, ""},
		{"/mind 0", 0, ""},
		{"/mind 2", 2, ""},
		{"/mind 12", 12, ""},
		{"/mind 放鬆", NoIndex, "放鬆"},
		{"/mind 2a", NoIndex, "2a"},
		{"/mind -1", NoIndex, "-1"},
	}
	for _, tt := range tests {
		idx, kw := Parse(tt.line).MindArg()
		if idx != tt.index || kw != tt.keyword {
			t.Errorf("%q: MindArg() = (%d, %q), want (%d, %q)", tt.line, idx, kw, tt.index, tt.keyword)
		}
	}
}

func TestKindString(t *testing.T) {
	if Music.String() != "/music" || Text.String() != "text" {
		t.Errorf("unexpected names: %s %s", Music, Text)
	}
}
