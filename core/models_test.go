package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "CAACAgIAAxkBAAIB",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "a very long upstream sticker file identifier that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("sticker1")
	id2 := IDFromContent("sticker2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestPostingList_Find(t *testing.T) {
	list := PostingList{
		{RecordId: 2, Weight: 1.0},
		{RecordId: 5, Weight: 2.0},
		{RecordId: 9, Weight: 3.0},
	}

	tests := []struct {
		name    string
		id      ID
		wantIdx int
		wantOk  bool
	}{
		{"first entry", 2, 0, true},
		{"middle entry", 5, 1, true},
		{"last entry", 9, 2, true},
		{"before first", 1, 0, false},
		{"between entries", 7, 2, false},
		{"after last", 100, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := list.Find(tt.id)
			if idx != tt.wantIdx || ok != tt.wantOk {
				t.Errorf("Find(%d) = (%d, %v), want (%d, %v)", tt.id, idx, ok, tt.wantIdx, tt.wantOk)
			}
		})
	}
}

func TestPostingList_Upsert(t *testing.T) {
	var list PostingList

	// Insert out of order; list must stay sorted by RecordId.
	list = list.Upsert(Posting{RecordId: 5, Weight: 1.0})
	list = list.Upsert(Posting{RecordId: 2, Weight: 1.0})
	list = list.Upsert(Posting{RecordId: 9, Weight: 1.0})

	want := []ID{2, 5, 9}
	if len(list) != len(want) {
		t.Fatalf("len(list) = %d, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].RecordId != id {
			t.Errorf("list[%d].RecordId = %d, want %d", i, list[i].RecordId, id)
		}
	}

	// Upserting an existing id replaces the weight without growing the list.
	list = list.Upsert(Posting{RecordId: 5, Weight: 4.0})
	if len(list) != 3 {
		t.Errorf("len(list) = %d after replacing upsert, want 3", len(list))
	}
	if list[1].Weight != 4.0 {
		t.Errorf("list[1].Weight = %f, want 4.0", list[1].Weight)
	}
}

func TestPostingList_Delete(t *testing.T) {
	list := PostingList{
		{RecordId: 2, Weight: 1.0},
		{RecordId: 5, Weight: 2.0},
		{RecordId: 9, Weight: 3.0},
	}

	list = list.Delete(5)
	if len(list) != 2 {
		t.Fatalf("len(list) = %d after delete, want 2", len(list))
	}
	if list[0].RecordId != 2 || list[1].RecordId != 9 {
		t.Errorf("unexpected survivors: %v", list)
	}

	// Deleting a missing id is a no-op.
	list = list.Delete(42)
	if len(list) != 2 {
		t.Errorf("len(list) = %d after no-op delete, want 2", len(list))
	}
}
