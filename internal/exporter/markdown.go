package exporter

import (
	"maps"
	"slices"
	"strings"
	"todoblocks/internal/retrieve"
)

const indentUnit = "  "

// RenderMarkdown writes blocks as an outline. A non-empty title becomes the
// parent bullet of every root block.
func RenderMarkdown(title string, blocks []*retrieve.TaskBlock) string {
	var sb strings.Builder
	depth := 0
	if title != "" {
		sb.WriteString("- " + title + "\n")
		depth = 1
	}
	for _, block := range blocks {
		writeBlock(&sb, block, depth)
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, block *retrieve.TaskBlock, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	lines := strings.Split(block.Content, "\n")
	sb.WriteString(indent + "- " + lines[0] + "\n")
	for _, line := range lines[1:] {
		sb.WriteString(indent + indentUnit + line + "\n")
	}
	for _, key := range slices.Sorted(maps.Keys(block.Properties)) {
		sb.WriteString(indent + indentUnit + key + ":: " + block.Properties[key] + "\n")
	}
	for _, child := range block.Children {
		writeBlock(sb, child, depth+1)
	}
}
