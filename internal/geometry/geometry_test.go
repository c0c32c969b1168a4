package geometry

import (
	"errors"
	"testing"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Spec
	}{
		{
			name:  "size and mixed offsets",
			input: "200x200+100-100",
			want: Spec{
				Size:   &Size{Width: 200, Height: 200},
				Offset: &Offset{X: 100, Y: 100, FarX: false, FarY: true},
			},
		},
		{
			name:  "size only",
			input: "200x200",
			want:  Spec{Size: &Size{Width: 200, Height: 200}},
		},
		{
			name:  "uppercase separator",
			input: "1024X768",
			want:  Spec{Size: &Size{Width: 1024, Height: 768}},
		},
		{
			name:  "offset only near far",
			input: "+100-100",
			want:  Spec{Offset: &Offset{X: 100, Y: 100, FarX: false, FarY: true}},
		},
		{
			name:  "offset only both far",
			input: "-100-100",
			want:  Spec{Offset: &Offset{X: 100, Y: 100, FarX: true, FarY: true}},
		},
		{
			name:  "offset only both near",
			input: "+0+0",
			want:  Spec{Offset: &Offset{X: 0, Y: 0}},
		},
		{
			name:  "empty",
			input: "",
			want:  Spec{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if (got.Size == nil) != (tt.want.Size == nil) {
				t.Fatalf("Parse(%q) size presence = %v, want %v", tt.input, got.Size != nil, tt.want.Size != nil)
			}
			if got.Size != nil && *got.Size != *tt.want.Size {
				t.Errorf("Parse(%q) size = %+v, want %+v", tt.input, *got.Size, *tt.want.Size)
			}
			if (got.Offset == nil) != (tt.want.Offset == nil) {
				t.Fatalf("Parse(%q) offset presence = %v, want %v", tt.input, got.Offset != nil, tt.want.Offset != nil)
			}
			if got.Offset != nil && *got.Offset != *tt.want.Offset {
				t.Errorf("Parse(%q) offset = %+v, want %+v", tt.input, *got.Offset, *tt.want.Offset)
			}
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	inputs := []string{
		"200x",             // missing height
		"x200",             // missing width
		"abc",              // not a geometry at all
		"200X200++100-100", // doubled sign
		"200x200+100",      // offset needs both axes
		"200x200+100-100x", // trailing garbage
		"200x-100",         // sign where height expected
		"70000x100",        // width over 16 bits
		"+100-70000",       // offset over 16 bits
		"200 x 200",        // no separators allowed
	}

	for _, input := range inputs {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestResolveNearOffsets(t *testing.T) {
	spec, err := Parse("200x200+100+50")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	res, err := spec.Resolve(1920, 1080, func() (int, int, error) {
		t.Fatal("winSize called, but explicit size and near offsets need no fetch")
		return 0, 0, nil
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.HasSize || res.Width != 200 || res.Height != 200 {
		t.Errorf("size = (%d,%d) has=%v, want (200,200)", res.Width, res.Height, res.HasSize)
	}
	if !res.HasPos || res.X != 100 || res.Y != 50 {
		t.Errorf("pos = (%d,%d) has=%v, want (100,50)", res.X, res.Y, res.HasPos)
	}
}

func TestResolveFarEdgeUsesCurrentWindowSize(t *testing.T) {
	spec, err := Parse("-100-50")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	calls := 0
	res, err := spec.Resolve(1920, 1080, func() (int, int, error) {
		calls++
		return 300, 200, nil
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// x = 1920 - 100 - 300 = 1520, y = 1080 - 50 - 200 = 830
	if res.X != 1520 {
		t.Errorf("x = %d, want 1520", res.X)
	}
	if res.Y != 830 {
		t.Errorf("y = %d, want 830", res.Y)
	}
	if calls != 1 {
		t.Errorf("window size fetched %d times, want exactly 1", calls)
	}
}

func TestResolveFarEdgeUsesRequestedSize(t *testing.T) {
	spec, err := Parse("400x300-10-20")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	res, err := spec.Resolve(1920, 1080, func() (int, int, error) {
		t.Fatal("winSize called, but the requested size should be used")
		return 0, 0, nil
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// x = 1920 - 10 - 400 = 1510, y = 1080 - 20 - 300 = 760
	if res.X != 1510 || res.Y != 760 {
		t.Errorf("pos = (%d,%d), want (1510,760)", res.X, res.Y)
	}
}

func TestResolveWindowSizeError(t *testing.T) {
	spec, err := Parse("-100-100")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantErr := errors.New("gone")
	if _, err := spec.Resolve(1920, 1080, func() (int, int, error) {
		return 0, 0, wantErr
	}); err == nil {
		t.Fatal("Resolve succeeded, want window size error")
	}
}

func TestResolveEmptySpec(t *testing.T) {
	res, err := Spec{}.Resolve(1920, 1080, func() (int, int, error) {
		t.Fatal("winSize called for empty spec")
		return 0, 0, nil
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.HasSize || res.HasPos {
		t.Errorf("empty spec resolved to %+v, want nothing set", res)
	}
}
