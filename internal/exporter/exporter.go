package exporter

import (
	"context"
	"todoblocks/internal/importer/todoist"
	"todoblocks/internal/retrieve"
)

// Output is one rendered retrieval ready to be published.
type Output struct {
	Title  string
	Query  string
	Tasks  []todoist.Task
	Blocks []*retrieve.TaskBlock
}

func (o Output) Empty() bool {
	return len(o.Blocks) == 0
}

type TaskExporter interface {
	Set(ctx context.Context, out Output) error
}

func FromResult(res retrieve.Result, query string) Output {
	return Output{
		Title:  res.Title,
		Query:  query,
		Tasks:  res.Tasks,
		Blocks: res.Blocks,
	}
}
