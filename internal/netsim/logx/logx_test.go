package logx

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"DEBUG", Debug, false},
		{"info", Info, false},
		{"", Info, false},
		{"Warning", Warning, false},
		{"ERROR", Error, false},
		{"off", Off, false},
		{"bogus", Info, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLogger_AllowedByLevel(t *testing.T) {
	l := New(Warning, "all")
	if l.allowed("sim", Debug) {
		t.Error("Debug should be filtered out at Warning level")
	}
	if l.allowed("sim", Info) {
		t.Error("Info should be filtered out at Warning level")
	}
	if !l.allowed("sim", Warning) {
		t.Error("Warning should pass at Warning level")
	}
	if !l.allowed("sim", Error) {
		t.Error("Error should pass at Warning level")
	}
}

func TestLogger_OffSuppressesEverything(t *testing.T) {
	l := New(Off, "all")
	if l.allowed("sim", Error) {
		t.Error("Off level should suppress even Error")
	}
}

func TestLogger_ScopeAllowlist(t *testing.T) {
	l := New(Debug, "sim,link")
	if !l.allowed("sim", Debug) {
		t.Error("sim should be in scope")
	}
	if !l.allowed("link", Debug) {
		t.Error("link should be in scope")
	}
	if l.allowed("node", Debug) {
		t.Error("node should not be in scope")
	}
}

func TestLogger_ScopeAllMeansEverything(t *testing.T) {
	l := New(Debug, "")
	if !l.allowed("anything", Debug) {
		t.Error("empty scope should default to allowing every module")
	}
	l2 := New(Debug, "ALL")
	if !l2.allowed("anything", Debug) {
		t.Error("scope \"ALL\" should be case-insensitive for \"all\"")
	}
}
