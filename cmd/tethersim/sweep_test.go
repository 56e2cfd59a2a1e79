package main

import "testing"

func TestParseAxis(t *testing.T) {
	a, err := parseAxis("mass=40:60:5")
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "mass" || len(a.Values) != 5 || a.Values[4] != 60 {
		t.Errorf("axis = %+v", a)
	}

	for _, bad := range []string{"mass", "=1:2:3", "mass=1:2", "mass=a:2:3", "mass=1:b:3", "mass=1:2:c", "mass=1:2:1"} {
		if _, err := parseAxis(bad); err == nil {
			t.Errorf("parseAxis(%q) should fail", bad)
		}
	}
}
