package docstore

import (
	"testing"
	"time"
)

func TestInsertAssignsUniqueIDs(t *testing.T) {
	c := New().Collection("events")
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := c.Insert(Document{"n": i})
		if id == "" {
			t.Fatal("expected non-empty id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if got := c.Count(Filter{}); got != 50 {
		t.Fatalf("expected 50 documents, got %d", got)
	}
}

func TestFindPreservesInsertionOrder(t *testing.T) {
	c := New().Collection("events")
	for _, name := range []string{"a", "b", "c", "d"} {
		c.Insert(Document{"name": name, "kind": "x"})
	}
	docs := c.Find(Filter{"kind": "x"}).All()
	if len(docs) != 4 {
		t.Fatalf("expected 4 docs, got %d", len(docs))
	}
	for i, want := range []string{"a", "b", "c", "d"} {
		if docs[i]["name"] != want {
			t.Errorf("docs[%d] = %v, want %s", i, docs[i]["name"], want)
		}
	}
}

func TestFindOneReturnsFirstMatch(t *testing.T) {
	c := New().Collection("progress")
	c.Insert(Document{"user_id": uint(1), "points": 10})
	c.Insert(Document{"user_id": uint(1), "points": 20})

	doc, ok := c.FindOne(Filter{"user_id": uint(1)})
	if !ok {
		t.Fatal("expected a match")
	}
	if doc["points"] != 10 {
		t.Errorf("expected first inserted doc, got points=%v", doc["points"])
	}
	if _, ok := c.FindOne(Filter{"user_id": uint(99)}); ok {
		t.Error("expected no match for unknown user")
	}
}

func TestRangeFilterOnTimestamps(t *testing.T) {
	c := New().Collection("events")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		c.Insert(Document{"ts": base.AddDate(0, 0, i), "n": i})
	}

	got := c.Find(Filter{"ts": Range{Gte: base.AddDate(0, 0, 1), Lte: base.AddDate(0, 0, 3)}}).All()
	if len(got) != 3 {
		t.Fatalf("expected 3 docs in range, got %d", len(got))
	}
	for i, want := range []int{1, 2, 3} {
		if got[i]["n"] != want {
			t.Errorf("got[%d][n] = %v, want %d", i, got[i]["n"], want)
		}
	}

	open := c.Find(Filter{"ts": Range{Gte: base.AddDate(0, 0, 3)}}).All()
	if len(open) != 2 {
		t.Errorf("expected 2 docs with open upper bound, got %d", len(open))
	}
}

func TestRangeBoundsInclusive(t *testing.T) {
	c := New().Collection("scores")
	c.Insert(Document{"v": 10})
	c.Insert(Document{"v": 20})
	c.Insert(Document{"v": 30})

	got := c.Find(Filter{"v": Range{Gte: 10, Lte: 30}}).All()
	if len(got) != 3 {
		t.Errorf("expected inclusive bounds to match all 3, got %d", len(got))
	}
}

func TestSortAndLimit(t *testing.T) {
	c := New().Collection("events")
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, i := range []int{2, 0, 3, 1} {
		c.Insert(Document{"ts": base.AddDate(0, 0, i), "n": i})
	}

	desc := c.Find(Filter{}).Sort("ts", -1).Limit(2).All()
	if len(desc) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(desc))
	}
	if desc[0]["n"] != 3 || desc[1]["n"] != 2 {
		t.Errorf("descending sort wrong: %v, %v", desc[0]["n"], desc[1]["n"])
	}

	asc := c.Find(Filter{}).Sort("ts", 1).All()
	if asc[0]["n"] != 0 || asc[3]["n"] != 3 {
		t.Errorf("ascending sort wrong: first=%v last=%v", asc[0]["n"], asc[3]["n"])
	}
}

func TestSortMissingFieldFirstBothDirections(t *testing.T) {
	c := New().Collection("events")
	c.Insert(Document{"ts": 20, "n": "b"})
	c.Insert(Document{"n": "missing"})
	c.Insert(Document{"ts": 10, "n": "a"})

	asc := c.Find(Filter{}).Sort("ts", 1).All()
	if asc[0]["n"] != "missing" || asc[1]["n"] != "a" || asc[2]["n"] != "b" {
		t.Errorf("ascending order wrong: %v, %v, %v", asc[0]["n"], asc[1]["n"], asc[2]["n"])
	}

	// 缺字段的文档在降序时同样排最前
	desc := c.Find(Filter{}).Sort("ts", -1).All()
	if desc[0]["n"] != "missing" || desc[1]["n"] != "b" || desc[2]["n"] != "a" {
		t.Errorf("descending order wrong: %v, %v, %v", desc[0]["n"], desc[1]["n"], desc[2]["n"])
	}
}

func TestUpdateOneSetAndInc(t *testing.T) {
	c := New().Collection("progress")
	c.Insert(Document{"user_id": uint(7), "points": 10})

	ok := c.UpdateOne(Filter{"user_id": uint(7)}, Update{
		Set: map[string]any{"streak": 3},
		Inc: map[string]int{"points": 50},
	}, false)
	if !ok {
		t.Fatal("expected update to apply")
	}

	doc, _ := c.FindOne(Filter{"user_id": uint(7)})
	if got, _ := doc["points"].(int); got != 60 {
		t.Errorf("points = %v, want 60", doc["points"])
	}
	if doc["streak"] != 3 {
		t.Errorf("streak = %v, want 3", doc["streak"])
	}
}

func TestUpdateOneIncMissingFieldStartsAtZero(t *testing.T) {
	c := New().Collection("progress")
	c.Insert(Document{"user_id": uint(1)})

	c.UpdateOne(Filter{"user_id": uint(1)}, Update{Inc: map[string]int{"points": 5}}, false)
	doc, _ := c.FindOne(Filter{"user_id": uint(1)})
	if got, _ := doc["points"].(int); got != 5 {
		t.Errorf("points = %v, want 5", doc["points"])
	}
}

func TestUpdateOneNoMatchIsNoOp(t *testing.T) {
	c := New().Collection("progress")
	c.Insert(Document{"user_id": uint(1), "points": 1})

	ok := c.UpdateOne(Filter{"user_id": uint(2)}, Update{Inc: map[string]int{"points": 10}}, false)
	if ok {
		t.Error("expected no-op for unmatched filter")
	}
	if got := c.Count(Filter{}); got != 1 {
		t.Errorf("expected collection unchanged, got %d docs", got)
	}
}

func TestUpdateOneUpsertSynthesizesDocument(t *testing.T) {
	c := New().Collection("progress")

	ok := c.UpdateOne(Filter{"user_id": uint(9)}, Update{
		Set: map[string]any{"streak": 1},
		Inc: map[string]int{"points": 50},
	}, true)
	if !ok {
		t.Fatal("expected upsert to create a document")
	}

	doc, found := c.FindOne(Filter{"user_id": uint(9)})
	if !found {
		t.Fatal("upserted document not found")
	}
	if doc["_id"] == "" || doc["_id"] == nil {
		t.Error("upserted document missing id")
	}
	if doc["streak"] != 1 {
		t.Errorf("streak = %v, want 1", doc["streak"])
	}
	if doc["points"] != 50 {
		t.Errorf("points = %v, want 50 (Inc treated as initial value)", doc["points"])
	}
}

func TestAddToSetIsIdempotent(t *testing.T) {
	c := New().Collection("progress")
	c.Insert(Document{"user_id": uint(1)})

	for i := 0; i < 3; i++ {
		c.UpdateOne(Filter{"user_id": uint(1)}, Update{
			AddToSet: map[string]any{"completed": "prog_1"},
		}, false)
	}
	c.UpdateOne(Filter{"user_id": uint(1)}, Update{
		AddToSet: map[string]any{"completed": "prog_2"},
	}, false)

	doc, _ := c.FindOne(Filter{"user_id": uint(1)})
	list, _ := doc["completed"].([]any)
	if len(list) != 2 {
		t.Fatalf("expected 2 distinct entries, got %v", doc["completed"])
	}
	if list[0] != "prog_1" || list[1] != "prog_2" {
		t.Errorf("expected append order preserved, got %v", list)
	}
}

func TestPullRemovesAllOccurrences(t *testing.T) {
	c := New().Collection("progress")
	c.Insert(Document{"user_id": uint(1), "bookmarks": []any{"a", "b", "a"}})

	c.UpdateOne(Filter{"user_id": uint(1)}, Update{
		Pull: map[string]any{"bookmarks": "a"},
	}, false)

	doc, _ := c.FindOne(Filter{"user_id": uint(1)})
	list, _ := doc["bookmarks"].([]any)
	if len(list) != 1 || list[0] != "b" {
		t.Errorf("bookmarks = %v, want [b]", list)
	}

	// Pull on a missing field leaves an empty list, not nil.
	c.UpdateOne(Filter{"user_id": uint(1)}, Update{
		Pull: map[string]any{"tags": "x"},
	}, false)
	doc, _ = c.FindOne(Filter{"user_id": uint(1)})
	if tags, ok := doc["tags"].([]any); !ok || len(tags) != 0 {
		t.Errorf("tags = %v, want empty list", doc["tags"])
	}
}

func TestFindReturnsCopies(t *testing.T) {
	c := New().Collection("progress")
	c.Insert(Document{"user_id": uint(1), "points": 1})

	doc, _ := c.FindOne(Filter{"user_id": uint(1)})
	doc["points"] = 999

	again, _ := c.FindOne(Filter{"user_id": uint(1)})
	if again["points"] != 1 {
		t.Errorf("mutating a returned document leaked into the store: %v", again["points"])
	}
}

func TestConcurrentUpdatesAreAtomic(t *testing.T) {
	c := New().Collection("progress")
	c.Insert(Document{"user_id": uint(1), "points": 0})

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				c.UpdateOne(Filter{"user_id": uint(1)}, Update{Inc: map[string]int{"points": 1}}, false)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	doc, _ := c.FindOne(Filter{"user_id": uint(1)})
	if got, _ := doc["points"].(int); got != 1000 {
		t.Errorf("points = %v, want 1000", doc["points"])
	}
}
