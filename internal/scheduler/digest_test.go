package scheduler

import (
	"testing"
)

func TestSummarize(t *testing.T) {
	got := Summarize(map[string]int{
		"pendiente":  3,
		"completado": 1,
	})
	want := "pendiente=3 en_proceso=0 completado=1 cancelado=0"
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarize_UnexpectedStatusAppended(t *testing.T) {
	got := Summarize(map[string]int{
		"pendiente": 1,
		"zombie":    2,
		"archived":  4,
	})
	want := "pendiente=1 en_proceso=0 completado=0 cancelado=0 archived=4 zombie=2"
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	want := "pendiente=0 en_proceso=0 completado=0 cancelado=0"
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestRun_BadCronExpression(t *testing.T) {
	if err := Run("not a cron spec", nil); err == nil {
		t.Fatal("expected error for malformed expression")
	}
}
