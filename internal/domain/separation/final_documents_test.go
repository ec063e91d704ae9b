package separation

import (
	"testing"
)

func TestFinalDocuments_ScanToleratesLegacyStrings(t *testing.T) {
	var fd FinalDocuments
	raw := `["separations/e/final/old-memo.pdf",{"name":"Certificate","handle":"separations/e/final/abc-cert.pdf"},{"handle":"x/y/z.pdf"}]`
	if err := fd.Scan([]byte(raw)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(fd) != 3 {
		t.Fatalf("len = %d, want 3", len(fd))
	}
	if fd[0].Name != "old-memo.pdf" || fd[0].Handle != "separations/e/final/old-memo.pdf" {
		t.Fatalf("legacy entry = %+v", fd[0])
	}
	if fd[1].Name != "Certificate" {
		t.Fatalf("object entry = %+v", fd[1])
	}
	if fd[2].Name != "z.pdf" {
		t.Fatalf("nameless entry = %+v", fd[2])
	}
}

func TestFinalDocuments_ScanEmpty(t *testing.T) {
	for _, src := range []any{nil, "", "null", []byte("[]")} {
		fd := FinalDocuments{{Name: "stale"}}
		if err := fd.Scan(src); err != nil {
			t.Fatalf("Scan(%v): %v", src, err)
		}
		if len(fd) != 0 {
			t.Fatalf("Scan(%v) = %+v, want empty", src, fd)
		}
	}
}

func TestFinalDocuments_ScanRejectsGarbage(t *testing.T) {
	var fd FinalDocuments
	if err := fd.Scan(`{"not":"a list"}`); err == nil {
		t.Fatal("want error for object column")
	}
	if err := fd.Scan(42); err == nil {
		t.Fatal("want error for int column")
	}
}

func TestFinalDocuments_ValuePreservesOrder(t *testing.T) {
	in := FinalDocuments{{Name: "a", Handle: "h1"}, {Name: "b", Handle: "h2"}}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	var out FinalDocuments
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(out) != 2 || out[0].Handle != "h1" || out[1].Handle != "h2" {
		t.Fatalf("round trip = %+v", out)
	}
	if v, _ := FinalDocuments(nil).Value(); v != "[]" {
		t.Fatalf("nil Value = %v, want []", v)
	}
}
