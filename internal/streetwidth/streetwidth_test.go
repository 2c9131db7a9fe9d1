package streetwidth

import "testing"

func TestBucket(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"7,5m", Bucket6To8},
		{"", BucketUnknown},
		{"   ", BucketUnknown},
		{"không rõ", BucketUnknown},
		{"3.9m", BucketUnder4},
		{"4", Bucket4To6},
		{"4m", Bucket4To6},
		{"5,99 m", Bucket4To6},
		{"6", Bucket6To8},
		{"8m", Bucket8To10},
		{"9.5", Bucket8To10},
		{"10m", BucketOver10},
		{"Đường trước nhà 15m", BucketOver10},
		{"0", BucketUnder4},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := Bucket(tc.in); got != tc.want {
				t.Fatalf("Bucket(%q): expected %q got %q", tc.in, tc.want, got)
			}
		})
	}
}

func TestParse(t *testing.T) {
	if v, ok := Parse("7,5m"); !ok || v != 7.5 {
		t.Fatalf("expected 7.5 got %v (%v)", v, ok)
	}
	if v, ok := Parse("hẻm 3m, ô tô 7m"); !ok || v != 3 {
		t.Fatalf("expected first number 3 got %v (%v)", v, ok)
	}
	if _, ok := Parse("n/a"); ok {
		t.Fatal("expected no width")
	}
}

func TestLabelsOrder(t *testing.T) {
	labels := Labels()
	if len(labels) != 6 || labels[0] != BucketUnder4 || labels[5] != BucketUnknown {
		t.Fatalf("unexpected labels %q", labels)
	}
}
