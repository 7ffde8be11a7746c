package gearbox

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is an Engine noting every call it receives.
type recorder struct {
	calls []string
	fail  map[string]error // keyed by method name
}

func (r *recorder) record(method, arg string) error {
	r.calls = append(r.calls, method+"("+arg+")")
	return r.fail[method]
}

func (r *recorder) Revision(_ context.Context, name string) error { return r.record("Revision", name) }
func (r *recorder) Current(_ context.Context) error               { return r.record("Current", "") }
func (r *recorder) Upgrade(_ context.Context, v string) error     { return r.record("Upgrade", v) }
func (r *recorder) Downgrade(_ context.Context, v string) error   { return r.record("Downgrade", v) }

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		inv  Invocation
		want []string
	}{
		{
			name: "create",
			inv:  Invocation{Subcommand: Create, Argument: "add users"},
			want: []string{"Revision(add users)"},
		},
		{
			name: "db_version",
			inv:  NewInvocation(DBVersion),
			want: []string{"Current()"},
		},
		{
			name: "upgrade default",
			inv:  NewInvocation(Upgrade),
			want: []string{"Upgrade(head)"},
		},
		{
			name: "upgrade version",
			inv:  Invocation{Subcommand: Upgrade, Argument: "20190305173612"},
			want: []string{"Upgrade(20190305173612)"},
		},
		{
			name: "downgrade default",
			inv:  NewInvocation(Downgrade),
			want: []string{"Downgrade(-1)"},
		},
		{
			name: "downgrade base",
			inv:  Invocation{Subcommand: Downgrade, Argument: "base"},
			want: []string{"Downgrade(base)"},
		},
		{
			name: "test",
			inv:  NewInvocation(Test),
			want: []string{"Upgrade(+1)", "Downgrade(-1)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &recorder{}
			require.NoError(t, Run(context.Background(), engine, tt.inv))
			assert.Equal(t, tt.want, engine.calls)
		})
	}
}

func TestRunPassesErrorsThrough(t *testing.T) {
	engineErr := fmt.Errorf("database is locked")

	for _, sub := range []Subcommand{Create, DBVersion, Upgrade, Downgrade} {
		t.Run(sub.String(), func(t *testing.T) {
			engine := &recorder{fail: map[string]error{
				"Revision": engineErr, "Current": engineErr, "Upgrade": engineErr, "Downgrade": engineErr,
			}}
			err := Run(context.Background(), engine, NewInvocation(sub))
			assert.Same(t, engineErr, err)
			assert.Len(t, engine.calls, 1)
		})
	}
}

func TestRunTestStopsOnFailedUpgrade(t *testing.T) {
	engineErr := fmt.Errorf("no next version found")
	engine := &recorder{fail: map[string]error{"Upgrade": engineErr}}

	err := Run(context.Background(), engine, NewInvocation(Test))
	assert.Same(t, engineErr, err)
	assert.Equal(t, []string{"Upgrade(+1)"}, engine.calls)
}

func TestRunTestReturnsDowngradeError(t *testing.T) {
	engineErr := fmt.Errorf("no migration 0")
	engine := &recorder{fail: map[string]error{"Downgrade": engineErr}}

	err := Run(context.Background(), engine, NewInvocation(Test))
	assert.Same(t, engineErr, err)
	assert.Equal(t, []string{"Upgrade(+1)", "Downgrade(-1)"}, engine.calls)
}

func TestRunInvalidSubcommand(t *testing.T) {
	engine := &recorder{}
	err := Run(context.Background(), engine, Invocation{Subcommand: Subcommand(42)})
	assert.Error(t, err)
	assert.Empty(t, engine.calls)
}
