package address

import (
	"strings"
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestWard(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"canonical", "Đường X, Phường Y, District, City", "Phường Y", true},
		{"lower case ward", "Đường Mỹ Đa Tây 11 , phường khuê mỹ , Ngũ Hành Sơn , Đà Nẵng", "Phường Khuê Mỹ", true},
		{"upper case ward", "12 Lê Lợi, PHƯỜNG THẠCH THANG, Hải Châu", "Phường Thạch Thang", true},
		{"extra spaces", "  ,Phường   Hòa   Khánh Bắc,, Liên Chiểu", "Phường Hòa Khánh Bắc", true},
		{"numbered ward", "Kiệt 5, Phường 5, Quận 3", "Phường 5", true},
		{"first ward wins", "Phường An Hải Bắc, Phường An Hải Tây", "Phường An Hải Bắc", true},
		{"no ward", "no ward here", "", false},
		{"empty", "", "", false},
		{"only the token", "Đường A, Phường , Đà Nẵng", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Ward(tc.in)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("expected (%q, %v) got (%q, %v)", tc.want, tc.wantOK, got, ok)
			}
		})
	}
}

func TestWardDecomposedInput(t *testing.T) {
	in := norm.NFD.String("Đường A, Phường Khuê Mỹ, Đà Nẵng")
	got, ok := Ward(in)
	if !ok {
		t.Fatal("expected a ward for NFD input")
	}
	if !strings.HasPrefix(got, WardToken) {
		t.Fatalf("expected %q prefix, got %q", WardToken, got)
	}
	if got != "Phường Khuê Mỹ" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestComponents(t *testing.T) {
	got := Components(" a , ,b,  c ")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected components %q", got)
	}
}
