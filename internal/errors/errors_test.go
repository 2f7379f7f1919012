// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestUserError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *UserError
		want string
	}{
		{
			name: "with underlying error",
			err:  &UserError{Message: "cannot read source", Err: fmt.Errorf("file locked")},
			want: "cannot read source: file locked",
		},
		{
			name: "without underlying error",
			err:  &UserError{Message: "invalid target"},
			want: "invalid target",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := &UserError{Message: "failed", Err: inner}
	if err.Unwrap() != inner {
		t.Errorf("Unwrap() did not return the wrapped error")
	}
}

func TestConstructors_ExitCodes(t *testing.T) {
	cases := []struct {
		name string
		err  *UserError
		want int
	}{
		{"usage", NewUsageError("bad flag", "use --target"), ExitUsage},
		{"input", NewInputError("bad target", "not registered", "see mgen targets"), ExitInput},
		{"io", NewIOError("cannot write", "permission denied", "check dir perms", fmt.Errorf("eacces")), ExitIO},
		{"compile", NewCompileError("compile failed", "2 errors"), ExitCompile},
		{"internal", NewInternalError("unexpected nil module", "please report this", fmt.Errorf("nil")), ExitInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.ExitCode != tc.want {
				t.Errorf("ExitCode = %d, want %d", tc.err.ExitCode, tc.want)
			}
		})
	}
}

func TestUserError_Format(t *testing.T) {
	err := &UserError{Message: "bad target", Cause: "not registered", Fix: "see mgen targets"}
	out := err.Format(true)
	for _, want := range []string{"Error: bad target", "Cause: not registered", "Fix:   see mgen targets"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestUserError_Format_OmitsEmptyFields(t *testing.T) {
	err := &UserError{Message: "bad flag"}
	out := err.Format(true)
	if strings.Contains(out, "Cause:") || strings.Contains(out, "Fix:") {
		t.Errorf("Format() should omit empty Cause/Fix, got:\n%s", out)
	}
}

func TestUserError_ToJSON(t *testing.T) {
	err := NewInputError("bad target", "not registered", "see mgen targets")
	j := err.ToJSON()
	if j.Error != "bad target" || j.Cause != "not registered" || j.Fix != "see mgen targets" || j.ExitCode != ExitInput {
		t.Errorf("ToJSON() = %+v, unexpected", j)
	}
}
