package statetree

import "testing"

func TestParsePermissionTokens(t *testing.T) {
	cases := []struct {
		token string
		want  Permission
	}{
		{"none", PermissionNone},
		{"", PermissionNone},
		{"r", PermissionRead},
		{"w", PermissionWrite},
		{"rw", PermissionReadWrite},
		{"wr", PermissionReadWrite},
	}
	for _, tc := range cases {
		got, err := ParsePermission(tc.token)
		if err != nil {
			t.Fatalf("ParsePermission(%q): %v", tc.token, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePermission(%q) = %v, want %v", tc.token, got, tc.want)
		}
	}

	if _, err := ParsePermission("admin"); err == nil {
		t.Fatalf("expected error for unknown token")
	}
}

func TestPermissionCapabilities(t *testing.T) {
	if PermissionNone.CanRead() || PermissionNone.CanWrite() {
		t.Fatalf("none must grant nothing")
	}
	if !PermissionRead.CanRead() || PermissionRead.CanWrite() {
		t.Fatalf("read-only must grant read only")
	}
	if PermissionWrite.CanRead() || !PermissionWrite.CanWrite() {
		t.Fatalf("write-only must grant write only")
	}
	if !PermissionReadWrite.CanRead() || !PermissionReadWrite.CanWrite() {
		t.Fatalf("read-write must grant both")
	}
}

func TestPermissionStringRoundTrip(t *testing.T) {
	for _, p := range []Permission{PermissionNone, PermissionRead, PermissionWrite, PermissionReadWrite} {
		parsed, err := ParsePermission(p.String())
		if err != nil {
			t.Fatalf("round trip %v: %v", p, err)
		}
		if parsed != p {
			t.Fatalf("round trip %v yielded %v", p, parsed)
		}
	}
}

func TestPermissionTextMarshalling(t *testing.T) {
	text, err := PermissionRead.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(text) != "r" {
		t.Fatalf("expected token r, got %q", text)
	}

	var p Permission
	if err := p.UnmarshalText([]byte("rw")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p != PermissionReadWrite {
		t.Fatalf("expected rw, got %v", p)
	}
	if err := p.UnmarshalText([]byte("bogus")); err == nil {
		t.Fatalf("expected error for bogus token")
	}
}
