package flow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	flowassert "github.com/0STG0T/t1-solution-2/internal/assert"
	"github.com/0STG0T/t1-solution-2/internal/assert/helpers"
	"github.com/0STG0T/t1-solution-2/internal/flow"
	"github.com/0STG0T/t1-solution-2/pkg/api"
)

const previewTimeout = time.Second

func nextPreview(t *testing.T, ch <-chan flow.Preview) flow.Preview {
	t.Helper()
	select {
	case p, ok := <-ch:
		assert.True(t, ok, "preview channel closed")
		return p
	case <-time.After(previewTimeout):
		assert.Fail(t, "timed out waiting for preview")
		return flow.Preview{}
	}
}

func TestProject(t *testing.T) {
	entries := flow.Project(seedItems())
	assert.Equal(t, []api.PreviewEntry{
		{Type: api.ItemInput, Label: "User Input", Category: "green"},
		{Type: api.ItemProcess, Label: "Process Message", Category: "brand"},
		{Type: api.ItemOutput, Label: "AI Response", Category: "purple"},
	}, entries)

	empty := flow.Project(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestWatchPreviewFollowsReplacements(t *testing.T) {
	bus := flow.NewBus()
	defer bus.Close()
	s := flow.NewStore("watch", bus)
	assert.NoError(t, s.Replace(seedItems()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := flow.WatchPreview(ctx, s)

	first := nextPreview(t, ch)
	assert.Equal(t, int64(1), first.Sequence)
	assert.Len(t, first.Entries, 3)

	_, err := flow.Reorder(s, flow.Gesture{ActiveID: "1", OverID: "3"})
	assert.NoError(t, err)

	second := nextPreview(t, ch)
	assert.Equal(t, int64(2), second.Sequence)
	assert.Equal(t, api.FlowID("watch"), second.FlowID)
	assert.Equal(t, "Process Message", second.Entries[0].Label)
	assert.Equal(t, "User Input", second.Entries[2].Label)
}

func TestWatchPreviewIgnoresOtherFlows(t *testing.T) {
	bus := flow.NewBus()
	defer bus.Close()
	mine := flow.NewStore("mine", bus)
	other := flow.NewStore("other", bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := flow.WatchPreview(ctx, mine)
	assert.Empty(t, nextPreview(t, ch).Entries)

	assert.NoError(t, other.Replace(seedItems()))
	assert.NoError(t, mine.Replace(seedItems()[:1]))

	p := nextPreview(t, ch)
	assert.Equal(t, api.FlowID("mine"), p.FlowID)
	assert.Len(t, p.Entries, 1)
}

func TestWatchPreviewIgnoresEarlierEditors(t *testing.T) {
	bus := flow.NewBus()
	defer bus.Close()
	earlier := flow.NewStore("same", bus)
	assert.NoError(t, earlier.Replace(seedItems()))
	assert.NoError(t, earlier.Replace(seedItems()[:2]))
	earlier.Raise(api.EventTypeEditorClosed, api.EditorClosedEvent{
		FlowID: "same",
	})

	current := flow.NewStore("same", bus)
	assert.NoError(t, current.Replace(seedItems()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := flow.WatchPreview(ctx, current)
	assert.Len(t, nextPreview(t, ch).Entries, 3)

	assert.NoError(t, current.Replace(seedItems()[:1]))
	p := nextPreview(t, ch)
	assert.Equal(t, int64(2), p.Sequence)
	assert.Len(t, p.Entries, 1)
}

func TestWatchPreviewMatchesReplacement(t *testing.T) {
	helpers.WithTestEnv(t, func(env *helpers.TestEnv) {
		as := flowassert.New(t)
		e := env.Editor(t, "restored")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch := e.Watch(ctx)
		nextPreview(t, ch)

		items := seedItems()
		reversed := []api.FlowItem{items[2], items[1], items[0]}
		replaced := env.SubscribeToReplace("restored")
		as.NoError(e.Restore(reversed))

		rep := replaced.Wait(t, ctx, previewTimeout)
		as.SameItems(items, rep.Items)
		as.ItemOrder(rep.Items, "3", "2", "1")

		p := nextPreview(t, ch)
		as.Equal(flow.Project(rep.Items), p.Entries)
	})
}

func TestWatchPreviewEndsWithContext(t *testing.T) {
	bus := flow.NewBus()
	defer bus.Close()
	s := flow.NewStore("cancel", bus)

	ctx, cancel := context.WithCancel(context.Background())
	ch := flow.WatchPreview(ctx, s)
	nextPreview(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(previewTimeout):
		assert.Fail(t, "preview channel not closed")
	}
}

func TestWatchPreviewWithoutBus(t *testing.T) {
	s := flow.NewStore("quiet", nil)
	assert.NoError(t, s.Replace(seedItems()))

	ch := flow.WatchPreview(context.Background(), s)
	p := nextPreview(t, ch)
	assert.Len(t, p.Entries, 3)

	_, ok := <-ch
	assert.False(t, ok)
}
