package agenda

import "testing"

func TestLoad(t *testing.T) {
	data := []byte(`{
		"items": [
			{"title": "EIP-7702 readiness", "start_timestamp": "00:12:00",
			 "actions": [{"text": "benchmark client impact", "owner": "Alice", "timestamp": "00:15:30"}]},
			{"title": "Testnet fork date", "start_timestamp": "00:25:00"}
		]
	}`)
	s, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(s.Items))
	}
	if s.Items[0].Actions[0].Owner != "Alice" {
		t.Errorf("action = %+v", s.Items[0].Actions[0])
	}
	secs := s.StartSeconds()
	if len(secs) != 2 || secs[0] != 720 || secs[1] != 1500 {
		t.Errorf("StartSeconds = %v", secs)
	}
}

func TestLoadMalformed(t *testing.T) {
	if _, err := Load([]byte("{not json")); err == nil {
		t.Error("expected error for malformed agenda")
	}
}
