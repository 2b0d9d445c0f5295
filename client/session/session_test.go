package session

import "testing"

func TestJoinValidation(t *testing.T) {
	cases := []struct {
		room, name string
		ok         bool
	}{
		{"", "alice", false},
		{"room1", "", false},
		{"", "", false},
		{"room1", "alice", true},
	}
	for _, c := range cases {
		s := New()
		if got := s.Join(c.room, c.name); got != c.ok {
			t.Errorf("Join(%q, %q) = %v, want %v", c.room, c.name, got, c.ok)
		}
		wantState := Unjoined
		if c.ok {
			wantState = Joined
		}
		if s.State() != wantState {
			t.Errorf("Join(%q, %q): state = %v, want %v", c.room, c.name, s.State(), wantState)
		}
	}
}

func TestJoinRecordsIdentity(t *testing.T) {
	s := New()
	s.Join("room1", "alice")
	if s.Room() != "room1" || s.Name() != "alice" {
		t.Errorf("got room=%q name=%q", s.Room(), s.Name())
	}
}

func TestRepeatJoinIsNoOp(t *testing.T) {
	s := New()
	s.Join("room1", "alice")
	if s.Join("room2", "bob") {
		t.Fatal("second join transitioned")
	}
	if s.Room() != "room1" || s.Name() != "alice" {
		t.Errorf("second join mutated identity: room=%q name=%q", s.Room(), s.Name())
	}
}

func TestFailedJoinLeavesNoIdentity(t *testing.T) {
	s := New()
	s.Join("room1", "")
	if s.Joined() || s.Room() != "" || s.Name() != "" {
		t.Errorf("failed join left state: joined=%v room=%q name=%q", s.Joined(), s.Room(), s.Name())
	}
}
