package commands

import (
	"testing"

	"todoclient/internal/view"
)

func TestParseTaskRef_Position(t *testing.T) {
	ref, err := ParseTaskRef("5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Pos != 5 || ref.ID != "" {
		t.Errorf("expected position 5, got %#v", ref)
	}
}

func TestParseTaskRef_AnyOtherArgIsAnID(t *testing.T) {
	for _, arg := range []string{"t1", "list-1/task", "a1", "1.5", "١", "{3F2504E0-4F89-11D3-9A0C-0305E82C3301}"} {
		ref, err := ParseTaskRef(arg)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", arg, err)
			continue
		}
		if ref.ID != arg || ref.Pos != 0 {
			t.Errorf("expected id ref %q, got %#v", arg, ref)
		}
	}
}

func TestParseTaskRef_Empty(t *testing.T) {
	_, err := ParseTaskRef("")
	if err == nil {
		t.Fatal("expected error for empty reference")
	}
	expectedMsg := `invalid task reference: ""`
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestParseTaskRefs_NoArgs(t *testing.T) {
	_, err := ParseTaskRefs(nil)
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRefs_Mixed(t *testing.T) {
	refs, err := ParseTaskRefs([]string{"2", "3f2504e0-4f89-11d3-9a0c-0305e82c3301", "10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d", len(refs))
	}
	if refs[0].Pos != 2 || refs[1].ID == "" || refs[2].Pos != 10 {
		t.Errorf("unexpected refs: %#v", refs)
	}
}

func TestParseTaskRefs_InvalidToken(t *testing.T) {
	_, err := ParseTaskRefs([]string{"1", ""})
	if err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestTaskRef_Resolve(t *testing.T) {
	nodes := []view.Node{
		{ID: "3f2504e0-4f89-11d3-9a0c-0305e82c3301", Name: "first"},
		{ID: "t2", Name: "second"},
	}

	n, err := TaskRef{Pos: 2}.Resolve(nodes)
	if err != nil || n.Name != "second" {
		t.Errorf("position 2: got %#v, %v", n, err)
	}

	n, err = TaskRef{ID: "t2"}.Resolve(nodes)
	if err != nil || n.Name != "second" {
		t.Errorf("opaque id: got %#v, %v", n, err)
	}

	n, err = TaskRef{ID: "{3F2504E0-4F89-11D3-9A0C-0305E82C3301}"}.Resolve(nodes)
	if err != nil || n.Name != "first" {
		t.Errorf("uuid spelling: got %#v, %v", n, err)
	}

	for _, pos := range []int{0, 3} {
		_, err := TaskRef{Pos: pos}.Resolve(nodes)
		if err == nil {
			t.Errorf("expected out of range error for %d", pos)
		}
	}

	if _, err := (TaskRef{ID: "T2"}).Resolve(nodes); err == nil {
		t.Error("expected opaque ids to match exactly")
	}
	_, err = TaskRef{ID: "00000000-0000-4000-8000-000000000000"}.Resolve(nodes)
	if err == nil || err.Error() != "task not found: 00000000-0000-4000-8000-000000000000" {
		t.Errorf("expected not found error, got %v", err)
	}
}
