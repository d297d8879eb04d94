package session

import (
	"errors"
	"testing"

	"github.com/park285/Cheese-TicTacToe/pkg/tttdto"
)

func TestParseTrainingMode(t *testing.T) {
	for in, want := range map[string]TrainingMode{
		"selfplay":   ModeSelfPlay,
		" MINIMAX ":  ModeMinimax,
		"SelfPlay":   ModeSelfPlay,
	} {
		got, err := ParseTrainingMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseTrainingMode(%q) = %q, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "self-play", "qlearning"} {
		if _, err := ParseTrainingMode(in); !errors.Is(err, ErrUnknownMode) {
			t.Fatalf("ParseTrainingMode(%q) err = %v, want ErrUnknownMode", in, err)
		}
	}
}

func TestSummaryFromReplyWithoutStats(t *testing.T) {
	sum, err := SummaryFromReply(&tttdto.TrainReply{Mode: "minimax"})
	if err != nil {
		t.Fatalf("SummaryFromReply: %v", err)
	}
	a, b := sum.Rates.Rates()
	if a != nil || b != nil || sum.Episodes != nil {
		t.Fatalf("expected absent values, got %+v", sum)
	}
	if sum.Rates.Mode() != ModeMinimax {
		t.Fatalf("rates mode = %q", sum.Rates.Mode())
	}
	if _, err := SummaryFromReply(nil); err == nil {
		t.Fatalf("expected error for nil reply")
	}
}

func TestFormatHelpers(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{FormatFloat(nil, 3), "-"},
		{FormatFloat(tttdto.Float(0.2), 3), "0.200"},
		{FormatInt(tttdto.Int(12)), "12"},
		{FormatPercent(0.125), "12.5%"},
		{FormatRate(nil), "-"},
		{FormatRounded(tttdto.Float(5471.6)), "5472"},
	}
	for i, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, tc.got, tc.want)
		}
	}
}
