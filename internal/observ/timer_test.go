package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerMergeSumsByName(t *testing.T) {
	a := &Timer{phases: []Phase{{Name: "lex", Dur: time.Millisecond}, {Name: "expand", Dur: 2 * time.Millisecond}}}
	b := &Timer{phases: []Phase{{Name: "expand", Dur: 3 * time.Millisecond}, {Name: "print", Dur: time.Millisecond}}}
	a.Merge(b)

	rep := a.Report()
	if len(rep.Phases) != 3 {
		t.Fatalf("phases = %d, want 3", len(rep.Phases))
	}
	if rep.Phases[1].Name != "expand" || rep.Phases[1].DurationMS != 5 {
		t.Fatalf("expand phase = %+v", rep.Phases[1])
	}
	if rep.TotalMS != 7 {
		t.Fatalf("total = %v, want 7", rep.TotalMS)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.Measure("lex", func() {})
	idx := tm.Begin("expand")
	tm.End(idx, "3 calls")
	tm.End(42, "ignored")

	s := tm.Summary()
	for _, want := range []string{"timings:", "lex", "expand", "// 3 calls", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	tm.Merge(NewTimer())
	if got := tm.Report(); len(got.Phases) != 0 {
		t.Fatalf("nil timer report = %+v", got)
	}
}
