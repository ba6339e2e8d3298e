package rollover

import "testing"

// TestDeterministicFailover covers Scenario E: output 0 pulls once, receives
// the first element, then cancels; output 1 then pulls and receives the
// second element, with nothing dropped in between.
func TestDeterministicFailover(t *testing.T) {
	ro := New[int](FromSlice([]int{1, 2}), 2)
	out0, out1 := ro.Output(0), ro.Output(1)

	v, ok, err := out0.Pull()
	if err != nil || !ok || v != 1 {
		t.Fatalf("out0.Pull() = %v, %v, %v, want 1, true, nil", v, ok, err)
	}
	out0.Cancel()

	if ro.ActiveIndex() != 1 {
		t.Fatalf("ActiveIndex() = %d, want 1 after out0 cancels", ro.ActiveIndex())
	}

	v, ok, err = out1.Pull()
	if err != nil || !ok || v != 2 {
		t.Fatalf("out1.Pull() = %v, %v, %v, want 2, true, nil", v, ok, err)
	}

	if _, ok, _ := out1.Pull(); ok {
		t.Fatalf("out1.Pull() after exhaustion should report ok=false")
	}
}

// TestSkipCancelledOutputs covers Scenario F: output 1 cancels before ever
// pulling; output 0 pulls once then cancels; failover must skip the
// already-cancelled output 1 and land on output 2.
func TestSkipCancelledOutputs(t *testing.T) {
	ro := New[int](FromSlice([]int{1, 2}), 3)
	out0, out1, out2 := ro.Output(0), ro.Output(1), ro.Output(2)

	out1.Cancel()
	if ro.ActiveIndex() != 0 {
		t.Fatalf("ActiveIndex() = %d, want 0: cancelling a non-active output must not move active", ro.ActiveIndex())
	}

	v, ok, err := out0.Pull()
	if err != nil || !ok || v != 1 {
		t.Fatalf("out0.Pull() = %v, %v, %v, want 1, true, nil", v, ok, err)
	}
	out0.Cancel()

	if ro.ActiveIndex() != 2 {
		t.Fatalf("ActiveIndex() = %d, want 2 (output 1 was already cancelled)", ro.ActiveIndex())
	}

	if _, ok, _ := out1.Pull(); ok {
		t.Fatalf("a cancelled output must never receive an element")
	}

	v, ok, err = out2.Pull()
	if err != nil || !ok || v != 2 {
		t.Fatalf("out2.Pull() = %v, %v, %v, want 2, true, nil", v, ok, err)
	}
}

func TestNonActivePullRecordsDemandWithoutTouchingUpstream(t *testing.T) {
	src := FromSlice([]int{1, 2})
	ro := New[int](src, 2)
	out1 := ro.Output(1)

	if _, ok, err := out1.Pull(); ok || err != nil {
		t.Fatalf("a non-active Pull must return ok=false, err=nil immediately")
	}
	if src.pos != 0 {
		t.Fatalf("a non-active Pull must not touch upstream, pos = %d", src.pos)
	}
}

func TestCancelAllCancelsUpstream(t *testing.T) {
	cancelled := false
	src := &cancellableSource{SliceSource: *FromSlice([]int{1, 2}), onCancel: func() { cancelled = true }}
	ro := New[int](src, 2)
	out0, out1 := ro.Output(0), ro.Output(1)

	out0.Cancel()
	out1.Cancel()

	if !cancelled {
		t.Fatalf("cancelling every output must cancel upstream")
	}
	if ro.ActiveIndex() != -1 {
		t.Fatalf("ActiveIndex() = %d, want -1 once every output is cancelled", ro.ActiveIndex())
	}
}

type cancellableSource struct {
	SliceSource[int]
	onCancel func()
}

func (c *cancellableSource) CancelUpstream() { c.onCancel() }

func TestUpstreamExhaustionFinishesEveryOutput(t *testing.T) {
	ro := New[int](FromSlice([]int{1}), 2)
	out0, out1 := ro.Output(0), ro.Output(1)

	v, ok, err := out0.Pull()
	if err != nil || !ok || v != 1 {
		t.Fatalf("out0.Pull() = %v, %v, %v, want 1, true, nil", v, ok, err)
	}
	if _, ok, err := out0.Pull(); ok || err != nil {
		t.Fatalf("out0.Pull() after upstream exhaustion should report ok=false, err=nil")
	}

	out0.Cancel()
	if _, ok, _ := out1.Pull(); ok {
		t.Fatalf("out1.Pull() should also report ok=false once upstream is exhausted")
	}
}
