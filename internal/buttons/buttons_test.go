package buttons

import "testing"

func TestButtonMapKeySetMatchesEnumeration(t *testing.T) {
	m := NewButtonMap()
	got := m.Keys()
	if len(got) != len(allButtons) {
		t.Fatalf("expected %d buttons, got %d", len(allButtons), len(got))
	}
	seen := map[Button]bool{}
	for _, b := range got {
		seen[b] = true
	}
	for _, b := range allButtons {
		if !seen[b] {
			t.Fatalf("missing button %v from key set", b)
		}
	}
}

func TestButtonMapSetKeyNeverGrowsKeySet(t *testing.T) {
	m := NewButtonMap()
	before := len(m.Keys())
	m.SetKey(Button(9999), HostKey(1))
	after := len(m.Keys())
	if before != after {
		t.Fatalf("key set grew from %d to %d after SetKey on an unknown button", before, after)
	}
}

func TestStatusByte200ClearsTriggerAndPump(t *testing.T) {
	m := DefaultButtonMap()
	if m.Get(Trigger) == NoKey || m.Get(PumpAction) == NoKey {
		t.Fatal("expected default map to assign Trigger and PumpAction")
	}
	m.Unassign(Trigger)
	m.Unassign(PumpAction)
	if m.Get(Trigger) != NoKey {
		t.Fatalf("expected Trigger to be cleared, got %v", m.Get(Trigger))
	}
	if m.Get(PumpAction) != NoKey {
		t.Fatalf("expected PumpAction to be cleared, got %v", m.Get(PumpAction))
	}
}
