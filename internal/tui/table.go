package tui

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/e111077/baobranch/internal/engine"
)

// RenderPlanTable renders the evolve plan summary: every branch that will be
// touched, in processing order, with its scope classification.
func RenderPlanTable(plan *engine.Plan, orphans map[string]bool) string {
	var sb strings.Builder

	table := tablewriter.NewWriter(&sb)
	table.SetHeader([]string{"#", "Branch", "State"})
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for i, branch := range plan.Branches {
		state := "current"
		if orphans[branch] {
			state = "orphaned"
		}
		table.Append([]string{strconv.Itoa(i + 1), branch, state})
	}
	table.Render()

	return sb.String()
}

// RenderTree renders a branch tree with indentation, coloring orphans.
func RenderTree(node *engine.TreeNode, currentBranch string) string {
	var sb strings.Builder
	renderTreeNode(&sb, node, 0, currentBranch)
	return sb.String()
}

func renderTreeNode(sb *strings.Builder, node *engine.TreeNode, depth int, currentBranch string) {
	sb.WriteString(strings.Repeat("  ", depth))
	switch {
	case depth == 0:
		sb.WriteString(ColorTrunk(node.Name))
	case node.Orphaned:
		sb.WriteString(ColorOrphan(node.Name))
		sb.WriteString(" (orphaned)")
	default:
		sb.WriteString(ColorBranchName(node.Name, node.Name == currentBranch))
	}
	sb.WriteString("\n")

	for _, child := range node.Children {
		renderTreeNode(sb, child, depth+1, currentBranch)
	}
}
