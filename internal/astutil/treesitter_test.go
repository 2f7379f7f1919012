// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

package astutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/mgen/internal/diag"
)

// codesOf collects the diagnostic codes from a Read() call as strings, for
// order-insensitive assertions.
func codesOf(diags []diag.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = string(d.Code)
	}
	return out
}

func TestReader_RejectsYield(t *testing.T) {
	src := "def gen() -> int:\n" +
		"    yield 1\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1001")
}

func TestReader_RejectsAwait(t *testing.T) {
	src := "def f() -> int:\n" +
		"    x: int = await g()\n" +
		"    return x\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1002")
}

func TestReader_RejectsTryExcept(t *testing.T) {
	src := "def f() -> int:\n" +
		"    try:\n" +
		"        return 1\n" +
		"    except:\n" +
		"        return 0\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1003")
}

func TestReader_RejectsRaise(t *testing.T) {
	src := "def f() -> int:\n" +
		"    raise ValueError()\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1003")
}

func TestReader_RejectsWith(t *testing.T) {
	src := "def f() -> int:\n" +
		"    with open(\"x\") as fh:\n" +
		"        return 1\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1004")
}

func TestReader_RejectsDel(t *testing.T) {
	src := "def f() -> None:\n" +
		"    x: int = 1\n" +
		"    del x\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1005")
}

func TestReader_RejectsGlobal(t *testing.T) {
	src := "def f() -> None:\n" +
		"    global x\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1006")
}

func TestReader_RejectsNonlocal(t *testing.T) {
	src := "def f() -> None:\n" +
		"    nonlocal x\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1007")
}

func TestReader_RejectsMultipleInheritance(t *testing.T) {
	src := "class C(A, B):\n" +
		"    x: int\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1009")
}

func TestReader_AcceptsSingleInheritance(t *testing.T) {
	src := "class C(A):\n" +
		"    x: int\n"
	_, diags := NewReader().Read("t.py", src)
	assert.Empty(t, diags)
}

func TestReader_RejectsUnsupportedDecorator(t *testing.T) {
	src := "class C:\n" +
		"    @property\n" +
		"    def x(self) -> int:\n" +
		"        return 1\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1011")
}

func TestReader_AcceptsStaticmethodAndClassmethod(t *testing.T) {
	src := "class C:\n" +
		"    @staticmethod\n" +
		"    def make() -> int:\n" +
		"        return 1\n" +
		"    @classmethod\n" +
		"    def from_zero(cls) -> int:\n" +
		"        return 0\n"
	mod, diags := NewReader().Read("t.py", src)
	assert.Empty(t, diags)
	require.Len(t, mod.Classes, 1)
	require.Len(t, mod.Classes[0].Methods, 2)
	assert.True(t, mod.Classes[0].Methods[0].IsStatic)
	assert.True(t, mod.Classes[0].Methods[1].IsClassM)
}

func TestReader_RejectsVarargsParam(t *testing.T) {
	src := "def f(*args) -> None:\n" +
		"    return None\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1013")
}

func TestReader_RejectsKwargsParam(t *testing.T) {
	src := "def f(**kwargs) -> None:\n" +
		"    return None\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1013")
}

func TestReader_RejectsKeywordArgumentInCall(t *testing.T) {
	src := "def f(x: int) -> int:\n" +
		"    return g(x=x)\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1013")
}

func TestReader_RejectsDefaultParameterValue(t *testing.T) {
	src := "def f(x: int = 0) -> int:\n" +
		"    return x\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1014")
}

func TestReader_RejectsMissingParamAnnotation(t *testing.T) {
	src := "def f(x) -> int:\n" +
		"    return 1\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1015")
}

func TestReader_RejectsMissingReturnAnnotation(t *testing.T) {
	src := "def f(x: int):\n" +
		"    return x\n"
	_, diags := NewReader().Read("t.py", src)
	require.NotEmpty(t, diags)
	assert.Contains(t, codesOf(diags), "E1016")
}

func TestReader_AcceptsFullyAnnotatedFunction(t *testing.T) {
	src := "def add(a: int, b: int) -> int:\n" +
		"    return a + b\n"
	mod, diags := NewReader().Read("t.py", src)
	assert.Empty(t, diags)
	require.Len(t, mod.Functions, 1)
	assert.Equal(t, "add", mod.Functions[0].Name)
	require.Len(t, mod.Functions[0].Params, 2)
}

func TestReader_MethodSelfParamNeedsNoAnnotation(t *testing.T) {
	src := "class Counter:\n" +
		"    count: int\n" +
		"    def bump(self) -> None:\n" +
		"        self.count = self.count + 1\n"
	mod, diags := NewReader().Read("t.py", src)
	assert.Empty(t, diags)
	require.Len(t, mod.Classes, 1)
	require.Len(t, mod.Classes[0].Methods, 1)
	assert.Equal(t, "bump", mod.Classes[0].Methods[0].Name)
}
