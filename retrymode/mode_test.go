package retrymode_test

import (
	"errors"
	"os"
	"testing"

	"github.com/aponysus/retrycap/retrymode"
)

func TestParseMode_CaseInsensitive(t *testing.T) {
	cases := []struct {
		in   string
		want retrymode.Mode
	}{
		{"legacy", retrymode.Legacy},
		{"LEGACY", retrymode.Legacy},
		{"Legacy", retrymode.Legacy},
		{"standard", retrymode.Standard},
		{"STANDARD", retrymode.Standard},
	}
	for _, c := range cases {
		got, err := retrymode.ParseMode(c.in)
		if err != nil {
			t.Errorf("ParseMode(%q) unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseMode(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseMode_UnknownIsInvalidConfig(t *testing.T) {
	_, err := retrymode.ParseMode("bogus")
	if err == nil {
		t.Fatal("expected error for unknown mode string")
	}
	var invalid *retrymode.InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidConfigError, got %T", err)
	}
}

func TestMaxAttemptsAndNumRetries(t *testing.T) {
	if got := retrymode.MaxAttempts(retrymode.Legacy); got != 4 {
		t.Errorf("MaxAttempts(Legacy) = %d, want 4", got)
	}
	if got := retrymode.NumRetries(retrymode.Legacy); got != 3 {
		t.Errorf("NumRetries(Legacy) = %d, want 3", got)
	}
	if got := retrymode.MaxAttempts(retrymode.Standard); got != 3 {
		t.Errorf("MaxAttempts(Standard) = %d, want 3", got)
	}
	if got := retrymode.NumRetries(retrymode.Standard); got != 2 {
		t.Errorf("NumRetries(Standard) = %d, want 2", got)
	}
}

type fakeProfileSource struct {
	value string
	ok    bool
}

func (f fakeProfileSource) RetryModeProperty() (string, bool) { return f.value, f.ok }

func TestResolveDefault_EnvTakesPriorityOverProfile(t *testing.T) {
	t.Setenv(retrymode.EnvRetryMode, "standard")
	got := retrymode.ResolveDefault(fakeProfileSource{value: "legacy", ok: true})
	if got != retrymode.Standard {
		t.Errorf("ResolveDefault = %v, want Standard (env should win)", got)
	}
}

func TestResolveDefault_FallsBackToProfileWhenEnvUnset(t *testing.T) {
	os.Unsetenv(retrymode.EnvRetryMode)
	got := retrymode.ResolveDefault(fakeProfileSource{value: "standard", ok: true})
	if got != retrymode.Standard {
		t.Errorf("ResolveDefault = %v, want Standard from profile", got)
	}
}

func TestResolveDefault_FallsBackToLegacyWhenNothingSet(t *testing.T) {
	os.Unsetenv(retrymode.EnvRetryMode)
	got := retrymode.ResolveDefault(fakeProfileSource{ok: false})
	if got != retrymode.Legacy {
		t.Errorf("ResolveDefault = %v, want Legacy fallback", got)
	}
	if got := retrymode.ResolveDefault(nil); got != retrymode.Legacy {
		t.Errorf("ResolveDefault(nil) = %v, want Legacy fallback", got)
	}
}

func TestResolveDefault_PanicsOnInvalidEnvValue(t *testing.T) {
	t.Setenv(retrymode.EnvRetryMode, "bogus")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on invalid AWS_RETRY_MODE value")
		}
	}()
	retrymode.ResolveDefault(nil)
}
