package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pictag/internal/application"
	"pictag/internal/application/commands"
)

// RegisterWriteTools adds all ontology mutation tools to the MCP server.
// Every successful write is saved to the tree file.
func RegisterWriteTools(s *server.MCPServer, g *application.Guarded) {
	s.AddTool(addTagTool(), addTagHandler(g))
	s.AddTool(addParentTool(), addParentHandler(g))
	s.AddTool(deleteTagTool(), deleteTagHandler(g))
	s.AddTool(moveTagTool(), moveTagHandler(g))
	s.AddTool(addSynonymTool(), synonymHandler(g, commands.SynonymAdd))
	s.AddTool(removeSynonymTool(), synonymHandler(g, commands.SynonymRemove))
}

// run executes a command against the guarded catalog and reports its message
func run(g *application.Guarded, exec func(c *application.Catalog) (string, error)) (*mcp.CallToolResult, error) {
	var msg string
	err := g.Do(func(c *application.Catalog) error {
		var err error
		msg, err = exec(c)
		return err
	})
	if err != nil {
		if msg != "" {
			return mcp.NewToolResultError(msg + ": " + err.Error()), nil
		}
		return toolError(err)
	}
	return mcp.NewToolResultText(msg), nil
}

// --- add_tag ---

func addTagTool() mcp.Tool {
	return mcp.NewTool("add_tag",
		mcp.WithDescription("Create a new tag or category under an existing parent. Names starting with # are tags; other names are categories."),
		mcp.WithString("tag",
			mcp.Description("Name of the new node (e.g. #霊夢)"),
			mcp.Required(),
		),
		mcp.WithString("parent",
			mcp.Description("Existing parent name (e.g. #東方)"),
			mcp.Required(),
		),
	)
}

func addTagHandler(g *application.Guarded) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag := req.GetString("tag", "")
		parent := req.GetString("parent", "")

		return run(g, func(c *application.Catalog) (string, error) {
			result, err := commands.NewAddTagCommand(c, tag, parent).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- add_parent ---

func addParentTool() mcp.Tool {
	return mcp.NewTool("add_parent",
		mcp.WithDescription("Link an existing tag under an additional parent. Links that would create a cycle are rejected."),
		mcp.WithString("tag",
			mcp.Description("Existing tag name"),
			mcp.Required(),
		),
		mcp.WithString("parent",
			mcp.Description("Existing node to add as a parent"),
			mcp.Required(),
		),
	)
}

func addParentHandler(g *application.Guarded) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag := req.GetString("tag", "")
		parent := req.GetString("parent", "")

		return run(g, func(c *application.Catalog) (string, error) {
			result, err := commands.NewAddParentCommand(c, tag, parent).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- delete_tag ---

func deleteTagTool() mcp.Tool {
	return mcp.NewTool("delete_tag",
		mcp.WithDescription("Detach a tag from one parent. A tag left without parents is removed; its children stay in the ontology under their other parents."),
		mcp.WithString("tag",
			mcp.Description("Tag name"),
			mcp.Required(),
		),
		mcp.WithString("parent",
			mcp.Description("Parent to detach from"),
			mcp.Required(),
		),
	)
}

func deleteTagHandler(g *application.Guarded) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag := req.GetString("tag", "")
		parent := req.GetString("parent", "")

		return run(g, func(c *application.Catalog) (string, error) {
			result, err := commands.NewDeleteTagCommand(c, tag, parent).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}

// --- move_tag ---

func moveTagTool() mcp.Tool {
	return mcp.NewTool("move_tag",
		mcp.WithDescription("Move a tag from one parent to another. If the tag is linked under the new parent but cannot be detached from the old one, the partial move is kept and reported."),
		mcp.WithString("tag",
			mcp.Description("Tag name"),
			mcp.Required(),
		),
		mcp.WithString("from",
			mcp.Description("Current parent"),
			mcp.Required(),
		),
		mcp.WithString("to",
			mcp.Description("New parent"),
			mcp.Required(),
		),
	)
}

func moveTagHandler(g *application.Guarded) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag := req.GetString("tag", "")
		from := req.GetString("from", "")
		to := req.GetString("to", "")

		return run(g, func(c *application.Catalog) (string, error) {
			result, err := commands.NewMoveTagCommand(c, tag, from, to).Execute(ctx)
			if result == nil {
				return "", err
			}
			return result.Message, err
		})
	}
}

// --- add_synonym / remove_synonym ---

func addSynonymTool() mcp.Tool {
	return mcp.NewTool("add_synonym",
		mcp.WithDescription("Add a synonym to a tag. Searches for the tag also match pictures tagged with the synonym."),
		mcp.WithString("tag",
			mcp.Description("Tag name"),
			mcp.Required(),
		),
		mcp.WithString("synonym",
			mcp.Description("Synonym to add (e.g. #Touhou)"),
			mcp.Required(),
		),
	)
}

func removeSynonymTool() mcp.Tool {
	return mcp.NewTool("remove_synonym",
		mcp.WithDescription("Remove a synonym from a tag."),
		mcp.WithString("tag",
			mcp.Description("Tag name"),
			mcp.Required(),
		),
		mcp.WithString("synonym",
			mcp.Description("Synonym to remove"),
			mcp.Required(),
		),
	)
}

func synonymHandler(g *application.Guarded, action commands.SynonymAction) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag := req.GetString("tag", "")
		synonym := req.GetString("synonym", "")

		return run(g, func(c *application.Catalog) (string, error) {
			result, err := commands.NewSynonymCommand(c, action, tag, synonym).Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		})
	}
}
