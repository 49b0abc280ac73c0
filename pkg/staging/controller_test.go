package staging_test

import (
	"testing"

	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/observability"
	"github.com/aretw0/calform/pkg/registry"
	"github.com/aretw0/calform/pkg/staging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *registry.Registry {
	return registry.MustNew(
		[]domain.FieldDescriptor{
			domain.Scalar("a"), domain.Scalar("b"), domain.Scalar("c"),
			domain.Scalar("d"),
			domain.Scalar("p"), domain.Scalar("q"),
		},
		domain.DependentGroup{Name: "abc", Members: []string{"a", "b", "c"}},
		domain.DependentGroup{Name: "pq", Members: []string{"p", "q"}},
		domain.DependentGroup{Name: "empty"},
	)
}

// recorder captures full validations together with the form state they saw.
type recorder struct {
	state    domain.FormState
	snapshot []map[string]string
	partial  []string
}

func (r *recorder) full() {
	r.snapshot = append(r.snapshot, r.state.Strings())
}

func (r *recorder) check(group, key string) {
	r.partial = append(r.partial, group+"/"+key)
}

func newController(t *testing.T, opts ...staging.Option) (*staging.Controller, *recorder) {
	t.Helper()
	rec := &recorder{state: domain.NewFormState()}
	opts = append(opts, staging.WithPartialCheck(rec.check))
	return staging.New(testRegistry(), rec.full, opts...), rec
}

func TestController_GroupEditSettlesOnceOnLeave(t *testing.T) {
	c, rec := newController(t)

	c.Focus("a")
	rec.state.SetText("a", "1")
	c.Edit("a")
	c.Focus("b")
	rec.state.SetText("b", "2")
	c.Edit("b")

	assert.Empty(t, rec.snapshot, "full validation is withheld while editing the group")
	assert.Equal(t, []string{"abc/a", "abc/b"}, rec.partial)
	assert.Equal(t, domain.GroupEditing, c.State("abc"))

	c.Focus("d")

	require.Len(t, rec.snapshot, 1)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, rec.snapshot[0])
	assert.Equal(t, domain.GroupSettled, c.State("abc"))
	_, active := c.Active()
	assert.False(t, active)
}

func TestController_SettleWithoutEdits(t *testing.T) {
	c, rec := newController(t)

	c.Focus("a")
	c.Focus("c")
	c.Focus("d")

	assert.Len(t, rec.snapshot, 1, "leaving the group always re-validates")
}

func TestController_UngroupedEditValidatesImmediately(t *testing.T) {
	c, rec := newController(t)

	c.Focus("d")
	c.Edit("d")
	c.Edit("d")

	assert.Len(t, rec.snapshot, 2, "once per edit")
	assert.Empty(t, rec.partial)
}

func TestController_UngroupedEditDuringGroupEditing(t *testing.T) {
	c, rec := newController(t)

	c.Focus("a")
	c.Edit("d")

	assert.Len(t, rec.snapshot, 1)
	assert.Equal(t, domain.GroupEditing, c.State("abc"), "groups only gate their own members")
}

func TestController_GroupedEditWhileSettled(t *testing.T) {
	c, rec := newController(t)

	// No focus event reached the group (e.g. programmatic change).
	c.Edit("a")

	assert.Len(t, rec.snapshot, 1)
	assert.Equal(t, domain.GroupSettled, c.State("abc"))
}

func TestController_FocusMovesBetweenGroups(t *testing.T) {
	c, rec := newController(t)

	c.Focus("a")
	c.Focus("p")

	assert.Len(t, rec.snapshot, 1, "leaving abc settles it")
	assert.Equal(t, domain.GroupSettled, c.State("abc"))
	assert.Equal(t, domain.GroupEditing, c.State("pq"))

	c.Edit("q")
	assert.Equal(t, []string{"pq/q"}, rec.partial)

	c.Blur()
	assert.Len(t, rec.snapshot, 2)
	assert.Equal(t, domain.GroupSettled, c.State("pq"))
}

func TestController_UnknownKeysAndGroups(t *testing.T) {
	c, rec := newController(t)

	assert.Equal(t, domain.GroupSettled, c.State("empty"))
	assert.Equal(t, domain.GroupSettled, c.State("no-such-group"))

	c.Focus("a")
	c.Focus("not-a-field")
	assert.Len(t, rec.snapshot, 1, "an unknown field is outside every group")

	c.Blur()
	assert.Len(t, rec.snapshot, 1, "blur with no active group is a no-op")

	c.Handle(domain.Event{Type: "hover", Key: "a"})
	assert.Len(t, rec.snapshot, 1)
	assert.Equal(t, domain.GroupSettled, c.State("abc"))
}

func TestController_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	c, _ := newController(t, staging.WithMetrics(m))
	c.Focus("a")
	c.Edit("a")
	c.Focus("d")
	c.Edit("d")

	count, err := testutil.GatherAndCount(reg, "calform_staging_validations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "full and partial series")

	count, err = testutil.GatherAndCount(reg, "calform_staging_group_settles_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
