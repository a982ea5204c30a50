package imodel

import "testing"

func TestParseIDNormalizes(t *testing.T) {
	cases := []struct {
		in   any
		want ID
	}{
		{int64(31), "0x1f"},
		{"0x1F", "0x1f"},
		{"31", "0x1f"},
		{[]byte("0x20"), "0x20"},
		{int64(0), InvalidID},
		{"", InvalidID},
		{"bogus", InvalidID},
		{nil, InvalidID},
	}
	for _, tc := range cases {
		if got := ParseID(tc.in); got != tc.want {
			t.Fatalf("ParseID(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIDInt64RoundTrip(t *testing.T) {
	id := IDFromInt(0x2000000001)
	if id.Int64() != 0x2000000001 {
		t.Fatalf("expected round trip, got %d", id.Int64())
	}
	if InvalidID.Valid() || ID("").Valid() {
		t.Fatalf("expected invalid ids to report invalid")
	}
	if InvalidID.Int64() != 0 {
		t.Fatalf("expected 0 for invalid id")
	}
}

func TestHighBriefcaseIDsSurvive(t *testing.T) {
	// briefcase 0xffffff, local id 1
	const stored = int64(-0xffffffffff)
	id := IDFromInt(stored)
	if id != "0xffffff0000000001" {
		t.Fatalf("expected unsigned hex form, got %q", id)
	}
	if !id.Valid() {
		t.Fatalf("expected a high briefcase id to be valid")
	}
	if id.Int64() != stored {
		t.Fatalf("expected round trip to %d, got %d", stored, id.Int64())
	}
	if got := ParseID("0xFFFFFF0000000001"); got != id {
		t.Fatalf("ParseID hex = %q, want %q", got, id)
	}
	if got := ParseID("18446742974197923841"); got != id {
		t.Fatalf("ParseID decimal = %q, want %q", got, id)
	}
	if got := ParseID(stored); got != id {
		t.Fatalf("ParseID int64 = %q, want %q", got, id)
	}
}

func TestRowAccessors(t *testing.T) {
	row := Row{"codevalue": "Walls", "isprivate": int64(1), "id": int64(16)}
	if row.String("CodeValue") != "Walls" {
		t.Fatalf("expected case-insensitive lookup")
	}
	if !row.Bool("isPrivate") {
		t.Fatalf("expected isPrivate true")
	}
	if row.ID("id") != "0x10" {
		t.Fatalf("unexpected id %q", row.ID("id"))
	}
	if row.String("missing") != "" || row.ID("missing") != InvalidID {
		t.Fatalf("expected zero values for missing columns")
	}
}
