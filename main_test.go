package main

import (
	"flag"
	"reflect"
	"testing"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantArgs []string
		wantGen  bool
	}{
		{"flag first", []string{"-g", "github"}, []string{"github"}, true},
		{"flag last", []string{"github", "--auto-generate"}, []string{"github"}, true},
		{"no flag", []string{"github"}, []string{"github"}, false},
		{"terminator", []string{"--", "-weird"}, []string{"-weird"}, false},
		{"terminator after name", []string{"a", "-g", "--", "-b"}, []string{"a", "-b"}, true},
		{"several names", []string{"a", "b", "c"}, []string{"a", "b", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("add", flag.ContinueOnError)
			genShort := fs.Bool("g", false, "")
			genLong := fs.Bool("auto-generate", false, "")

			got := parseArgs(fs, tt.args)
			if !reflect.DeepEqual(got, tt.wantArgs) {
				t.Errorf("parseArgs = %v, want %v", got, tt.wantArgs)
			}
			if gen := *genShort || *genLong; gen != tt.wantGen {
				t.Errorf("generate = %v, want %v", gen, tt.wantGen)
			}
		})
	}
}
