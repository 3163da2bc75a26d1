package logtail

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Record
	}{
		{
			name:  "structured",
			input: `{"time":"10:00:01","level":" WARN ","msg":"slow tick"}`,
			want: Record{
				Time:    "10:00:01",
				Level:   LevelWarn,
				Message: "slow tick",
				Raw:     `{"time":"10:00:01","level":" WARN ","msg":"slow tick"}`,
				Text:    "[10:00:01]  WARN : slow tick",
			},
		},
		{
			name:  "missing fields render empty",
			input: `{"msg":"hello"}`,
			want:  Record{Message: "hello", Raw: `{"msg":"hello"}`, Text: "[] : hello"},
		},
		{
			name:  "null level is untagged",
			input: `{"level":null,"msg":"m"}`,
			want:  Record{Message: "m", Raw: `{"level":null,"msg":"m"}`, Text: "[] : m"},
		},
		{
			name:  "non-string time renders as json",
			input: `{"time":1700000000,"level":"info","msg":{"a":1}}`,
			want: Record{
				Time:    "1700000000",
				Level:   LevelInfo,
				Message: `{"a":1}`,
				Raw:     `{"time":1700000000,"level":"info","msg":{"a":1}}`,
				Text:    `[1700000000] info: {"a":1}`,
			},
		},
		{
			name:  "plain text",
			input: "starting bot for Sorc",
			want:  Record{Raw: "starting bot for Sorc", Text: "starting bot for Sorc"},
		},
		{
			name:  "json array",
			input: `[1,2,3]`,
			want:  Record{Raw: `[1,2,3]`, Text: `[1,2,3]`},
		},
		{
			name:  "json null",
			input: `null`,
			want:  Record{Raw: `null`, Text: `null`},
		},
		{
			name:  "zero level is untagged",
			input: `{"time":"t","level":0,"msg":"x"}`,
			want:  Record{Time: "t", Message: "x", Raw: `{"time":"t","level":0,"msg":"x"}`, Text: "[t] : x"},
		},
		{
			name:  "false level is untagged",
			input: `{"level":false,"msg":"x"}`,
			want:  Record{Message: "x", Raw: `{"level":false,"msg":"x"}`, Text: "[] : x"},
		},
		{
			name:  "non-string level falls back to raw",
			input: `{"level":3,"msg":"x"}`,
			want:  Record{Raw: `{"level":3,"msg":"x"}`, Text: `{"level":3,"msg":"x"}`},
		},
		{
			name:  "truncated json",
			input: `{"level":"info"`,
			want:  Record{Raw: `{"level":"info"`, Text: `{"level":"info"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_TaggedOnlyWithLevel(t *testing.T) {
	if Parse("plain").Tagged() {
		t.Fatalf("plain line should be untagged")
	}
	if !Parse(`{"level":"error"}`).Tagged() {
		t.Fatalf("structured line with level should be tagged")
	}
	if Parse(`{"level":""}`).Tagged() {
		t.Fatalf("empty level should be untagged")
	}
}

func TestParseChunk_SkipsBlankLines(t *testing.T) {
	got := ParseChunk("a\n\n   \n{\"level\":\"info\",\"msg\":\"b\"}\r\nc\n")
	if len(got) != 3 {
		t.Fatalf("ParseChunk returned %d records, want 3: %#v", len(got), got)
	}
	if got[0].Text != "a" || got[1].Level != LevelInfo || got[2].Text != "c" {
		t.Fatalf("ParseChunk = %#v", got)
	}
	if ParseChunk("") != nil {
		t.Fatalf("ParseChunk(\"\") should be nil")
	}
}

func TestLevelRankAndParse(t *testing.T) {
	for i, level := range Levels {
		rank, ok := level.Rank()
		if !ok || rank != i {
			t.Fatalf("%s.Rank() = %d,%v want %d,true", level, rank, ok, i)
		}
	}
	if _, ok := Level("fatal").Rank(); ok {
		t.Fatalf("unknown level should not rank")
	}
	if _, ok := Level("").Rank(); ok {
		t.Fatalf("empty level should not rank")
	}

	got, err := ParseLevel(" Warn ")
	if err != nil || got != LevelWarn {
		t.Fatalf("ParseLevel = %q,%v want warn", got, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel(loud) returned nil error")
	}
}

func TestLevelNextPrev(t *testing.T) {
	if LevelDebug.Next() != LevelInfo || LevelError.Next() != LevelError {
		t.Fatalf("Next wrong")
	}
	if LevelInfo.Prev() != LevelDebug || LevelTrace.Prev() != LevelTrace {
		t.Fatalf("Prev wrong")
	}
}
