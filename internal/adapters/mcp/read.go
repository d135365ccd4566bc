package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pictag/internal/application"
	"pictag/internal/application/commands"
	"pictag/internal/domain"
)

// RegisterReadTools adds all read-only ontology tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, g *application.Guarded) {
	s.AddTool(searchTool(), searchHandler(g))
	s.AddTool(treeTool(), treeHandler(g))
	s.AddTool(showTagTool(), showTagHandler(g))
	s.AddTool(descendantsTool(), descendantsHandler(g))
	s.AddTool(ancestorsTool(), ancestorsHandler(g))
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search pictures by tags. Every include tag must match (its sub-tags and synonyms count as a match); pictures matching any exclude tag are dropped. Returns the matching Pixiv ids."),
		mcp.WithString("include",
			mcp.Description("Space or comma separated tags that must all match (e.g. \"#東方 #Girl\")"),
			mcp.Required(),
		),
		mcp.WithString("exclude",
			mcp.Description("Space or comma separated tags to exclude"),
		),
	)
}

func searchHandler(g *application.Guarded) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		include := splitTags(req.GetString("include", ""))
		exclude := splitTags(req.GetString("exclude", ""))

		var result *commands.SearchResult
		err := g.Do(func(c *application.Catalog) error {
			var err error
			result, err = commands.NewSearchCommand(c, include, exclude).Execute(ctx)
			return err
		})
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString(result.Message)
		sb.WriteByte('\n')
		for _, pid := range result.PIDs {
			fmt.Fprintf(&sb, "%d\n", pid)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the tag ontology as a tree. Tags with several parents appear under each of them."),
		mcp.WithString("root",
			mcp.Description("Start from this tag or category instead of the root"),
		),
	)
}

func treeHandler(g *application.Guarded) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		from := req.GetString("root", "")

		var root *domain.TreeNode
		_ = g.Do(func(c *application.Catalog) error {
			root = c.Tree()
			return nil
		})
		if from != "" {
			root = root.Find(from)
			if root == nil {
				return toolError(fmt.Errorf("%s: %w", from, domain.ErrNotFound))
			}
		}

		var sb strings.Builder
		renderTree(&sb, root, "")
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, node *domain.TreeNode, prefix string) {
	sb.WriteString(prefix)
	sb.WriteString(node.Name)
	if node.EnglishName != "" {
		fmt.Fprintf(sb, " (%s)", node.EnglishName)
	}
	if len(node.Synonyms) > 0 {
		fmt.Fprintf(sb, " = %s", strings.Join(node.Synonyms, ", "))
	}
	sb.WriteByte('\n')
	for _, child := range node.Children {
		renderTree(sb, child, prefix+"  ")
	}
}

// --- show_tag ---

func showTagTool() mcp.Tool {
	return mcp.NewTool("show_tag",
		mcp.WithDescription("Show a tag's parents, children, synonyms, English name, type and ancestors."),
		mcp.WithString("tag",
			mcp.Description("Tag or category name (e.g. #東方)"),
			mcp.Required(),
		),
	)
}

func showTagHandler(g *application.Guarded) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag := req.GetString("tag", "")

		var result *commands.ShowTagResult
		err := g.Do(func(c *application.Catalog) error {
			var err error
			result, err = commands.NewShowTagCommand(c, tag).Execute(ctx)
			return err
		})
		if err != nil {
			return toolError(err)
		}

		rec := result.Tag
		var sb strings.Builder
		fmt.Fprintf(&sb, "name: %s\n", rec.Name)
		if rec.EnglishName != "" {
			fmt.Fprintf(&sb, "english: %s\n", rec.EnglishName)
		}
		if rec.Type != "" {
			fmt.Fprintf(&sb, "type: %s\n", rec.Type)
		}
		writeList(&sb, "parents", rec.Parents)
		writeList(&sb, "children", rec.Children)
		writeList(&sb, "synonyms", rec.Synonyms)
		writeList(&sb, "ancestors", result.Ancestors)
		fmt.Fprintf(&sb, "descendants: %d\n", len(result.Descendants))
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- descendants ---

func descendantsTool() mcp.Tool {
	return mcp.NewTool("descendants",
		mcp.WithDescription("List every tag below a tag, optionally with synonyms. This is the set a search for the tag expands to."),
		mcp.WithString("tag",
			mcp.Description("Tag or category name"),
			mcp.Required(),
		),
		mcp.WithBoolean("synonyms",
			mcp.Description("Include synonyms of the descendants"),
		),
	)
}

func descendantsHandler(g *application.Guarded) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag := req.GetString("tag", "")
		synonyms := req.GetBool("synonyms", false)
		if tag == "" {
			return toolError(fmt.Errorf("tag is required"))
		}

		var names []string
		err := g.Do(func(c *application.Catalog) error {
			var err error
			names, err = c.Descendants(tag, synonyms)
			return err
		})
		if err != nil {
			return toolError(err)
		}
		return formatNames(names)
	}
}

// --- ancestors ---

func ancestorsTool() mcp.Tool {
	return mcp.NewTool("ancestors",
		mcp.WithDescription("List the tags a picture tagged with this tag is completed with."),
		mcp.WithString("tag",
			mcp.Description("Tag name"),
			mcp.Required(),
		),
	)
}

func ancestorsHandler(g *application.Guarded) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag := req.GetString("tag", "")
		if tag == "" {
			return toolError(fmt.Errorf("tag is required"))
		}

		var names []string
		err := g.Do(func(c *application.Catalog) error {
			var err error
			names, err = c.Ancestors(tag)
			return err
		})
		if err != nil {
			return toolError(err)
		}
		return formatNames(names)
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// splitTags splits a tag list on spaces and commas
func splitTags(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func formatNames(names []string) (*mcp.CallToolResult, error) {
	if len(names) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n") + "\n"), nil
}

func writeList(sb *strings.Builder, label string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s: %s\n", label, strings.Join(names, ", "))
}
