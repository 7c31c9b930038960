package exporter

import (
	"bytes"
	"context"
	"testing"
	"todoblocks/internal/retrieve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBlocks() []*retrieve.TaskBlock {
	return []*retrieve.TaskBlock{
		retrieve.NewTaskBlock("TODO write report — Mon, Mar 10 • today\nSCHEDULED: <2025-03-10 Mon>", map[string]string{
			retrieve.PropTodoistID: "1",
			retrieve.PropDue:       "2025-03-10T00:00:00.000Z",
		}, retrieve.NewTaskBlock("TODO outline", map[string]string{retrieve.PropTodoistID: "2"})),
		retrieve.NewTaskBlock("TODO call back", nil),
	}
}

func TestRenderMarkdown(t *testing.T) {
	expected := "- TODO write report — Mon, Mar 10 • today\n" +
		"  SCHEDULED: <2025-03-10 Mon>\n" +
		"  todoist_due:: 2025-03-10T00:00:00.000Z\n" +
		"  todoistid:: 1\n" +
		"  - TODO outline\n" +
		"    todoistid:: 2\n" +
		"- TODO call back\n"
	assert.Equal(t, expected, RenderMarkdown("", sampleBlocks()))
}

func TestRenderMarkdown_TitleNestsBlocks(t *testing.T) {
	md := RenderMarkdown("Todoist · Today", sampleBlocks()[1:])
	assert.Equal(t, "- Todoist · Today\n  - TODO call back\n", md)
	assert.Empty(t, RenderMarkdown("", nil))
}

func TestStdout_Raw(t *testing.T) {
	var buf bytes.Buffer
	e := &Stdout{w: &buf, Raw: true}
	require.NoError(t, e.Set(context.Background(), Output{Title: "Inbox", Blocks: sampleBlocks()[1:]}))
	assert.Equal(t, "- Inbox\n  - TODO call back\n", buf.String())

	buf.Reset()
	require.NoError(t, e.Set(context.Background(), Output{Title: "Inbox"}))
	assert.Empty(t, buf.String())
}

func TestStdout_Styled(t *testing.T) {
	var buf bytes.Buffer
	e := &Stdout{w: &buf}
	require.NoError(t, e.Set(context.Background(), Output{Blocks: sampleBlocks()[1:]}))
	assert.Contains(t, buf.String(), "call")
}

func TestConsole_ShowMsg(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{w: &buf}
	c.ShowMsg(context.Background(), "Error: boom", retrieve.LevelError)
	c.ShowMsg(context.Background(), "odd", retrieve.Level("other"))
	assert.Contains(t, buf.String(), "Error: boom")
	assert.Contains(t, buf.String(), "odd")
}
