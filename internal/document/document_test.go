package document

import (
	"fmt"
	"testing"
)

func TestDocument_Add_DefaultNames(t *testing.T) {
	d := New()

	a1 := d.Add("", "one")
	if a1.Name != "Untitled_1" {
		t.Errorf("first default name = %q, want %q", a1.Name, "Untitled_1")
	}

	a2 := d.Add("", "two")
	if a2.Name != "Untitled_2" {
		t.Errorf("second default name = %q, want %q", a2.Name, "Untitled_2")
	}

	if a1.ID == a2.ID {
		t.Errorf("ids must be unique, both were %q", a1.ID)
	}
}

func TestDocument_Add_DefaultNameAfterDelete(t *testing.T) {
	// The default name derives from the current count, not a persistent
	// counter, so deleting in the middle and adding again repeats a suffix.
	// That behavior is deliberate; this test pins it down.
	d := New()
	d.Add("", "")
	a2 := d.Add("", "")
	a3 := d.Add("", "")
	if a3.Name != "Untitled_3" {
		t.Fatalf("third default name = %q, want %q", a3.Name, "Untitled_3")
	}

	d.Delete(a2.ID)
	a4 := d.Add("", "")
	if a4.Name != "Untitled_3" {
		t.Errorf("name after delete+add = %q, want repeated %q", a4.Name, "Untitled_3")
	}
}

func TestDocument_Rename(t *testing.T) {
	tests := []struct {
		name     string
		newName  string
		wantOK   bool
		wantName string
	}{
		{name: "valid rename", newName: "notes.txt", wantOK: true, wantName: "notes.txt"},
		{name: "empty rejected", newName: "", wantOK: false, wantName: "orig"},
		{name: "whitespace only rejected", newName: "   ", wantOK: false, wantName: "orig"},
		{name: "tab and newline rejected", newName: "\t\n", wantOK: false, wantName: "orig"},
		{name: "padded name accepted verbatim", newName: " padded ", wantOK: true, wantName: " padded "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			a := d.Add("orig", "content")

			ok := d.Rename(a.ID, tt.newName)
			if ok != tt.wantOK {
				t.Errorf("Rename() = %v, want %v", ok, tt.wantOK)
			}

			got, _ := d.Get(a.ID)
			if got.Name != tt.wantName {
				t.Errorf("name after rename = %q, want %q", got.Name, tt.wantName)
			}
			if got.ID != a.ID || got.Content != "content" {
				t.Errorf("rename touched id or content: %+v", got)
			}
		})
	}
}

func TestDocument_Rename_UnknownID(t *testing.T) {
	d := New()
	d.Add("a", "")
	if d.Rename("no-such-id", "x") {
		t.Error("rename of unknown id should report false")
	}
}

func TestDocument_SetContent(t *testing.T) {
	d := New()
	a := d.Add("a", "old")

	if !d.SetContent(a.ID, "new") {
		t.Fatal("SetContent() = false for existing id")
	}
	got, _ := d.Get(a.ID)
	if got.Content != "new" {
		t.Errorf("content = %q, want %q", got.Content, "new")
	}

	if d.SetContent("missing", "x") {
		t.Error("SetContent() = true for unknown id")
	}
}

func TestDocument_Delete_ClearsSelection(t *testing.T) {
	d := New()
	a := d.Add("a", "")
	b := d.Add("b", "")

	d.Select(a.ID)
	if !d.Delete(a.ID) {
		t.Fatal("Delete() = false for existing id")
	}
	if d.SelectedID() != "" {
		t.Errorf("selection after deleting selected = %q, want empty", d.SelectedID())
	}

	d.Select(b.ID)
	d.Add("c", "")
	if d.SelectedID() != b.ID {
		t.Errorf("selection changed by unrelated add: %q", d.SelectedID())
	}
}

func TestDocument_Delete_Unselected(t *testing.T) {
	d := New()
	a := d.Add("a", "")
	b := d.Add("b", "")

	d.Select(b.ID)
	d.Delete(a.ID)
	if d.SelectedID() != b.ID {
		t.Errorf("deleting unselected attachment cleared selection: %q", d.SelectedID())
	}
}

func TestDocument_Select(t *testing.T) {
	d := New()
	a := d.Add("a", "")

	if d.Select("bogus") {
		t.Error("Select() = true for unknown id")
	}
	if d.SelectedID() != "" {
		t.Errorf("failed select changed selection to %q", d.SelectedID())
	}

	if !d.Select(a.ID) {
		t.Error("Select() = false for existing id")
	}
	if d.SelectedID() != a.ID {
		t.Errorf("selected = %q, want %q", d.SelectedID(), a.ID)
	}
}

func TestDocument_Reorder(t *testing.T) {
	setup := func() (*Document, [3]Attachment) {
		d := New()
		var ids [3]Attachment
		ids[0] = d.Add("A", "")
		ids[1] = d.Add("B", "")
		ids[2] = d.Add("C", "")
		return d, ids
	}

	names := func(d *Document) []string {
		var out []string
		for _, a := range d.Attachments() {
			out = append(out, a.Name)
		}
		return out
	}

	t.Run("drag last onto first", func(t *testing.T) {
		d, ids := setup()
		if !d.Reorder(ids[2].ID, ids[0].ID) {
			t.Fatal("Reorder() = false")
		}
		got := names(d)
		want := []string{"C", "A", "B"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("order = %v, want %v", got, want)
		}
	})

	t.Run("drag first onto last", func(t *testing.T) {
		d, ids := setup()
		d.Reorder(ids[0].ID, ids[2].ID)
		got := names(d)
		want := []string{"B", "A", "C"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("order = %v, want %v", got, want)
		}
	})

	t.Run("same id is a no-op", func(t *testing.T) {
		d, ids := setup()
		if d.Reorder(ids[1].ID, ids[1].ID) {
			t.Error("Reorder() on equal ids = true")
		}
		got := names(d)
		want := []string{"A", "B", "C"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("order = %v, want %v", got, want)
		}
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		d, ids := setup()
		if d.Reorder("missing", ids[0].ID) || d.Reorder(ids[0].ID, "missing") {
			t.Error("Reorder() with missing id = true")
		}
		got := names(d)
		want := []string{"A", "B", "C"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("order = %v, want %v", got, want)
		}
	})
}

func TestDocument_Replace(t *testing.T) {
	d := New()
	d.SetPromptText("old")
	a := d.Add("a", "")
	d.Select(a.ID)

	other := New()
	other.SetPromptText("new")
	other.Add("x", "1")
	other.Add("y", "2")

	d.Replace(other)

	if d.PromptText() != "new" {
		t.Errorf("prompt = %q, want %q", d.PromptText(), "new")
	}
	if d.Len() != 2 {
		t.Errorf("len = %d, want 2", d.Len())
	}
	if d.SelectedID() != "" {
		t.Errorf("selection after replace = %q, want empty", d.SelectedID())
	}

	// The replacement must be a copy, not an alias.
	other.Add("z", "3")
	if d.Len() != 2 {
		t.Errorf("replace aliased the other document's slice")
	}
}
