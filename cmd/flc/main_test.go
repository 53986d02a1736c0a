package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testEnv = `variables:
  premium: Money
  rate: Decimal
  gender: Gender
enums:
  Gender: [male, female]
values:
  premium: 10.00EUR
  rate: 0.5
  gender: male
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runFlc(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCompile(t *testing.T) {
	code, out, errOut := runFlc(t, "3.5 + 7")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := "3.5 + 7\tDecimal\tvalues.DecimalOf(\"3.5\").Add(values.DecimalFromInt(7))\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestCompileFailure(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"1 + a"}, "ERROR[UNDEFINED_IDENTIFIER] at 4: The identifier a is undefined."},
		{[]string{"-locale", "de", "1 + a"}, "[UNDEFINED_IDENTIFIER] at 4: Der Bezeichner a ist nicht definiert."},
		{[]string{"1 +"}, "[SYNTAX_ERROR]"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			code, _, errOut := runFlc(t, tt.args...)
			if code != 1 {
				t.Errorf("exit = %d, want 1", code)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", errOut, tt.want)
			}
		})
	}
}

func TestEval(t *testing.T) {
	env := writeFile(t, "env.yaml", testEnv)
	code, out, errOut := runFlc(t, "-env", env, "-eval", "premium * rate", `IF(gender = Gender.male; 1; 2)`)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"= 5.00EUR\n", "= 1\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout = %q, want it to contain %q", out, want)
		}
	}
}

func TestBoxed(t *testing.T) {
	code, out, _ := runFlc(t, "-boxed", "1 + 2")
	if code != 0 || !strings.Contains(out, "\tInteger\tvalues.IntegerOf(values.Must(values.AddInt(1, 2)))") {
		t.Errorf("exit %d, stdout = %q", code, out)
	}
}

func TestBatch(t *testing.T) {
	batch := writeFile(t, "exprs.txt", "# sample\n1 + 2\n\nMAX(1; 2)\nABS(\"a\")\n")
	code, out, errOut := runFlc(t, "-batch", batch)
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "1 + 2\t") || !strings.HasPrefix(lines[1], "MAX(1; 2)\t") {
		t.Errorf("stdout = %q", out)
	}
	if !strings.Contains(errOut, "WRONG_ARGUMENT_TYPES") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestStream(t *testing.T) {
	env := writeFile(t, "env.yaml", testEnv)
	docs := writeFile(t, "values.yaml", "premium: 2.00EUR\nrate: 2\n---\npremium: 1.00EUR\nrate: 0.5\n")
	code, out, errOut := runFlc(t, "-env", env, "-stream", docs, "premium * rate")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.HasSuffix(out, "= 4.00EUR\n= 0.50EUR\n") {
		t.Errorf("stdout = %q", out)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"-locale", "!!", "1"},
		{"-env", "/does/not/exist.yaml", "1"},
		{"-stream", "x.yaml", "1"},
	}
	for _, args := range tests {
		if code, _, _ := runFlc(t, args...); code != 2 {
			t.Errorf("run(%q) = %d, want 2", args, code)
		}
	}
}

func TestParseEnvErrors(t *testing.T) {
	tests := []string{
		"variables:\n  x: Float\n",
		"enums:\n  Money: [a]\n",
		"variables:\n  x: int\nvalues:\n  y: 1\n",
		"variables: [",
	}
	for _, src := range tests {
		if _, err := parseEnv([]byte(src)); err == nil {
			t.Errorf("parseEnv(%q) succeeded", src)
		}
	}
}
