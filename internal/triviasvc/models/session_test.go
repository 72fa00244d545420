package models

import "testing"

func TestSessionTransitions(t *testing.T) {
	cases := []struct {
		from, to SessionStatus
		allowed  bool
	}{
		{StatusCreated, StatusLobby, true},
		{StatusCreated, StatusRoundActive, true},
		{StatusLobby, StatusRoundActive, true},
		{StatusRoundActive, StatusRoundActive, true},
		{StatusRoundActive, StatusRoundEnded, true},
		{StatusRoundEnded, StatusRoundActive, true},
		{StatusRoundEnded, StatusCompleted, true},
		{StatusRoundActive, StatusCompleted, true},

		{StatusCompleted, StatusRoundActive, false},
		{StatusCompleted, StatusLobby, false},
		{StatusLobby, StatusCreated, false},
		{StatusRoundActive, StatusLobby, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Fatalf("%s -> %s: expected %v, got %v", c.from, c.to, c.allowed, got)
		}
	}
}

func TestStartable(t *testing.T) {
	for _, s := range []SessionStatus{StatusCreated, StatusLobby} {
		if !s.Startable() {
			t.Fatalf("%s should be startable", s)
		}
	}
	for _, s := range []SessionStatus{StatusRoundActive, StatusRoundEnded, StatusCompleted} {
		if s.Startable() {
			t.Fatalf("%s should not be startable", s)
		}
	}
}

func TestSessionQuestionActive(t *testing.T) {
	sq := &SessionQuestion{}
	if sq.Active() {
		t.Fatal("unstarted round should not be active")
	}
}
