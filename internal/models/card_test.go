package models

import (
	"encoding/json"
	"testing"
)

func TestCardUnmarshal_LegacySingularPhone(t *testing.T) {
	blob := []byte(`{"id":"a","name":"N","phone":"555-1234","address":"1 Main St"}`)
	var c Card
	if err := json.Unmarshal(blob, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(c.Phones) != 1 || c.Phones[0] != "555-1234" {
		t.Errorf("phones = %v; want [555-1234]", c.Phones)
	}
	if len(c.Addresses) != 1 || c.Addresses[0] != "1 Main St" {
		t.Errorf("addresses = %v; want [1 Main St]", c.Addresses)
	}

	// The singular field must not survive a round trip.
	out, err := json.Marshal(&c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if _, ok := raw["phone"]; ok {
		t.Error("singular phone field round-tripped")
	}
}

func TestCardUnmarshal_ArrayFormWins(t *testing.T) {
	blob := []byte(`{"id":"a","phones":["111","222"],"phone":"999"}`)
	var c Card
	if err := json.Unmarshal(blob, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(c.Phones) != 2 || c.Phones[0] != "111" {
		t.Errorf("phones = %v; want array form preserved", c.Phones)
	}
}

func TestScanCreated(t *testing.T) {
	c := Card{Tags: []string{"client", TagScanned}}
	if !c.ScanCreated() {
		t.Error("expected scan-created card")
	}
	c2 := Card{Tags: []string{"client"}}
	if c2.ScanCreated() {
		t.Error("unexpected scan-created card")
	}
}

func TestIsUUID(t *testing.T) {
	cases := map[string]bool{
		"6ba7b810-9dad-11d1-80b4-00c04fd430c8":   true,
		"6BA7B810-9DAD-11D1-80B4-00C04FD430C8":   true,
		"card-17":                                false,
		"{6ba7b810-9dad-11d1-80b4-00c04fd430c8}": false,
		"": false,
	}
	for id, want := range cases {
		if got := IsUUID(id); got != want {
			t.Errorf("IsUUID(%q) = %v; want %v", id, got, want)
		}
	}
}

func TestReferralMerge(t *testing.T) {
	r := Referral{ID: "x", Category: "intro", Outcome: OutcomePending, Value: 100}
	r.Merge(Referral{Outcome: OutcomeSuccessful, Notes: "closed"})
	if r.Outcome != OutcomeSuccessful {
		t.Errorf("outcome = %s; want successful", r.Outcome)
	}
	if r.Category != "intro" || r.Value != 100 {
		t.Errorf("untouched fields changed: %+v", r)
	}
	if r.Notes != "closed" {
		t.Errorf("notes = %q; want closed", r.Notes)
	}
}
