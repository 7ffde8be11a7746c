package gearbox

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestDriverError(t *testing.T) {
	uerr := fmt.Errorf("some driver error")
	err := &DriverError{"you won't believe what happened next", uerr}

	got := err.Error()
	want := "you won't believe what happened next: some driver error"
	if got != want {
		t.Errorf("Error messages did not match\ngot  %q\nwant %q\n", got, want)
	}
	got = UnderlyingError(err).Error()
	want = "some driver error"
	if got != want {
		t.Errorf("underlying error does not match\ngot  %q\nwant %q\n", got, want)
	}
	got = UnderlyingError(errors.Wrap(err, "upgrade")).Error()
	if got != want {
		t.Errorf("underlying error of wrapped DriverError does not match\ngot  %q\nwant %q\n", got, want)
	}
	got = UnderlyingError(fmt.Errorf("not DriverError")).Error()
	want = "not DriverError"
	if got != want {
		t.Errorf("underlying error returned something wrong\ngot  %q\nwant %q\n", got, want)
	}
}

func TestConfigError(t *testing.T) {
	uerr := fmt.Errorf("no section [app:main]")
	err := &ConfigError{"development.ini", uerr}

	got := err.Error()
	want := "config development.ini: no section [app:main]"
	if got != want {
		t.Errorf("Error messages did not match\ngot  %q\nwant %q\n", got, want)
	}
	if !errors.Is(err, uerr) {
		t.Errorf("ConfigError does not unwrap to its cause")
	}
}
