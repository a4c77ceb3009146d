package wm

import "testing"

func TestPickMode(t *testing.T) {
	tests := []struct {
		name  string
		modes []Mode
		want  Mode
		ok    bool
	}{
		{"none", nil, Mode{}, false},
		{"highest refresh", []Mode{{1920, 1080, 60000}, {1920, 1080, 144000}, {1280, 720, 75000}}, Mode{1920, 1080, 144000}, true},
		{"first on tie", []Mode{{2560, 1440, 60000}, {1920, 1080, 60000}}, Mode{2560, 1440, 60000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickMode(tt.modes)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("expected %+v/%v, got %+v/%v", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestAddOutputClaimsLowestStacks(t *testing.T) {
	s, host := newTestServer(t, nil)
	addOutput(s, 1, 0)
	addOutput(s, 2, 1920)
	addOutput(s, 3, 3840)

	want := map[OutputID][]int{1: {0, 1}, 2: {2, 3}, 3: nil}
	for id, stacks := range want {
		o, ok := s.Output(id)
		if !ok {
			t.Fatalf("expected output %d", id)
		}
		if len(o.Stacks) != len(stacks) {
			t.Fatalf("output %d: expected stacks %v, got %v", id, stacks, o.Stacks)
		}
		for i := range stacks {
			if o.Stacks[i] != stacks[i] {
				t.Fatalf("output %d: expected stacks %v, got %v", id, stacks, o.Stacks)
			}
		}
	}
	if s.FocusedPanel().Main() != 1 {
		t.Fatalf("expected first output to be main, got %d", s.FocusedPanel().Main())
	}
	o1, _ := s.Output(1)
	if !o1.ContainsStack(1) || o1.ContainsStack(2) {
		t.Fatalf("expected output 1 to contain stack 1 and not stack 2, got %v", o1.Stacks)
	}
	if host.modes[1] != (Mode{1920, 1080, 60000}) {
		t.Fatalf("expected mode set on output 1, got %+v", host.modes[1])
	}
	for _, st := range s.FocusedPanel().Stacks() {
		if !st.Mapped {
			t.Fatalf("expected every stack mapped")
		}
	}
}

func TestAddOutputTwiceIsIgnored(t *testing.T) {
	s, _ := newTestServer(t, nil)
	addOutput(s, 1, 0)
	addOutput(s, 1, 0)
	if got := s.OutputIDs(); len(got) != 1 {
		t.Fatalf("expected one output, got %v", got)
	}
}

func TestRemoveOutputReleasesStacks(t *testing.T) {
	s, _ := newTestServer(t, nil)
	addOutput(s, 1, 0)
	addOutput(s, 2, 1920)
	var ids []ViewID
	for surface := SurfaceID(1); surface <= 4; surface++ {
		ids = append(ids, mapToplevel(t, s, surface))
	}
	s.Refresh(1)
	s.Refresh(2)

	s.Handle(OutputRemoved{Output: 1})

	p := s.FocusedPanel()
	if p.Main() != 2 {
		t.Fatalf("expected main to move to output 2, got %d", p.Main())
	}
	stacks := p.Stacks()
	if stacks[0].Mapped || stacks[1].Mapped {
		t.Fatalf("expected stacks 0 and 1 released")
	}
	for _, id := range ids {
		idx := mustView(t, s, id).StackIndex
		if idx != 2 && idx != 3 {
			t.Fatalf("expected view %d relaid onto output 2, got stack %d", id, idx)
		}
	}

	addOutput(s, 3, 0)
	o, _ := s.Output(3)
	if len(o.Stacks) != 2 || o.Stacks[0] != 0 || o.Stacks[1] != 1 {
		t.Fatalf("expected freed stacks to be reclaimed, got %v", o.Stacks)
	}
}

func TestRemoveLastOutput(t *testing.T) {
	s, _ := newTestServer(t, nil)
	addOutput(s, 1, 0)
	id := mapToplevel(t, s, 1)
	s.Handle(OutputRemoved{Output: 1})

	if s.FocusedPanel().Main() != 0 {
		t.Fatalf("expected no main output")
	}
	if got := mustView(t, s, id).StackIndex; got != -1 {
		t.Fatalf("expected stack -1, got %d", got)
	}
	if len(s.OutputIDs()) != 0 {
		t.Fatalf("expected no outputs")
	}
}
