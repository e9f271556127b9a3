package wire

import "testing"

func TestProblemInitRoundTrip(t *testing.T) {
	p := ProblemInit{Tables: []uint32{4, 4, 4, 4, 4, 4}, Rounds: 6}
	got, err := DecodeProblemInit(EncodeProblemInit(p))
	if err != nil {
		t.Fatalf("DecodeProblemInit: %v", err)
	}
	if got.Rounds != p.Rounds || len(got.Tables) != len(p.Tables) {
		t.Fatalf("got %+v, want %+v", got, p)
	}
	for i := range p.Tables {
		if got.Tables[i] != p.Tables[i] {
			t.Fatalf("table %d = %d, want %d", i, got.Tables[i], p.Tables[i])
		}
	}
}

func TestDecodeProblemInitRejectsBadLength(t *testing.T) {
	buf := EncodeProblemInit(ProblemInit{Tables: []uint32{4, 4}, Rounds: 2})
	if _, err := DecodeProblemInit(buf[:len(buf)-1]); err == nil {
		t.Fatalf("expected error for truncated payload")
	}
}

func TestFrontierNodeRoundTrip(t *testing.T) {
	words := []uint64{1, 0, 0xFFFFFFFFFFFFFFFF, 42}
	raw := EncodeFrontierNode(words)
	got, err := DecodeFrontierNode(raw, len(words))
	if err != nil {
		t.Fatalf("DecodeFrontierNode: %v", err)
	}
	for i := range words {
		if got[i] != words[i] {
			t.Fatalf("word %d = %d, want %d", i, got[i], words[i])
		}
	}
}

func TestDecodeFrontierNodeRejectsWrongSize(t *testing.T) {
	raw := EncodeFrontierNode([]uint64{1, 2, 3})
	if _, err := DecodeFrontierNode(raw, 4); err == nil {
		t.Fatalf("expected error for wrong word count")
	}
}

func TestBatchResultRoundTrip(t *testing.T) {
	wordCount := 3
	b := BatchResult{
		Base: []uint64{1, 2, 3},
		Children: [][]uint64{
			{4, 5, 6},
			{7, 8, 9},
		},
		Notable: nil,
		Stats:   Stats{Steps: 1234, ElapsedNanos: 5678},
	}
	raw := EncodeBatchResult(b, wordCount)
	got, err := DecodeBatchResult(raw, wordCount)
	if err != nil {
		t.Fatalf("DecodeBatchResult: %v", err)
	}
	if len(got.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(got.Children))
	}
	if got.Stats.Steps != 1234 || got.Stats.ElapsedNanos != 5678 {
		t.Fatalf("Stats = %+v", got.Stats)
	}
	if len(got.Notable) != 0 {
		t.Fatalf("Notable should be empty, got %v", got.Notable)
	}
	for i, word := range got.Base {
		if word != b.Base[i] {
			t.Fatalf("Base[%d] = %d, want %d", i, word, b.Base[i])
		}
	}
}

func TestControlRequestRoundTrip(t *testing.T) {
	raw := EncodeControlRequest()
	kind, payload, err := DecodeFrame(raw)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if kind != KindControlRequest {
		t.Fatalf("kind = %v, want %v", kind, KindControlRequest)
	}
	if !IsControlRequest(payload) {
		t.Fatalf("IsControlRequest(%q) = false, want true", payload)
	}
	if IsControlRequest([]byte("nope")) {
		t.Fatalf("IsControlRequest should reject unrelated payloads")
	}
}
