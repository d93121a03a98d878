package utils

import (
	"reflect"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , ,b ", []string{"a", "b"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := SplitAndTrim(tt.in, ","); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitAndTrim(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"#/", ""},
		{"#/log_level", "log_level"},
		{"#/tasks/build/steps/0/exec", "tasks.build.steps[0].exec"},
		{"/tasks/a~1b/deps/2", "tasks.a/b.deps[2]"},
		{"/tasks/x~0y", "tasks.x~y"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := JSONPointerToPath(tt.in); got != tt.want {
				t.Errorf("JSONPointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
