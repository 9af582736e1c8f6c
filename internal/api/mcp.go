package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/cgs/internal/auth"
	"github.com/kalambet/cgs/internal/catalog"
	"github.com/kalambet/cgs/internal/profile"
	"github.com/kalambet/cgs/internal/recommend"
	"github.com/kalambet/cgs/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store       *storage.Store
	Profile     *profile.Manager
	Recommender *recommend.Service
	Catalog     *catalog.Loader
}

// NewMCPServer creates an MCP server exposing course lookup and
// recommendation tools plus the job-skills catalog as a resource.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"cgs",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("cgs: course catalog and skill-gap based course recommendations."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("list_courses",
			mcp.WithDescription("List every course with the skills it teaches."),
		),
		mcpListCourses(deps),
	)

	s.AddTool(
		mcp.NewTool("find_courses_by_skill",
			mcp.WithDescription("Find courses teaching a skill (case-insensitive, partial names match)."),
			mcp.WithString("skill", mcp.Description("Skill name, e.g. python"), mcp.Required()),
		),
		mcpFindCoursesBySkill(deps),
	)

	s.AddTool(
		mcp.NewTool("match_career_goal",
			mcp.WithDescription("Resolve a free-text career goal to a job in the catalog and list its required skills."),
			mcp.WithString("goal", mcp.Description("Career goal, e.g. data scientist"), mcp.Required()),
		),
		mcpMatchCareerGoal(deps),
	)

	s.AddTool(
		mcp.NewTool("recommend_courses",
			mcp.WithDescription("Recommend courses for a registered user based on their skill gaps."),
			mcp.WithString("email", mcp.Description("Email of the user"), mcp.Required()),
		),
		mcpRecommendCourses(deps),
	)

	s.AddTool(
		mcp.NewTool("profile_summary",
			mcp.WithDescription("Summarize a user's profile: role, career goal, skills and interests."),
			mcp.WithString("email", mcp.Description("Email of the user"), mcp.Required()),
		),
		mcpProfileSummary(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"catalog://job-skills-mapping",
			"Job Skills Mapping",
			mcp.WithResourceDescription("Job titles and the skills each one requires"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCatalog(deps),
	)

	return s
}

type mcpCourse struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
	Score  int      `json:"score,omitempty"`
}

func toMCPCourses(courses []storage.Course) []mcpCourse {
	out := make([]mcpCourse, len(courses))
	for i, c := range courses {
		out[i] = mcpCourse{ID: c.ID, Title: c.Title, Skills: c.Skills}
	}
	return out
}

func mcpListCourses(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		courses, err := deps.Store.ListCourses()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list courses: %v", err)), nil
		}
		return mcpJSON(toMCPCourses(courses))
	}
}

func mcpFindCoursesBySkill(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		skill, err := req.RequireString("skill")
		if err != nil || skill == "" {
			return mcpError("skill is required"), nil
		}
		courses, err := deps.Store.ListCourses()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list courses: %v", err)), nil
		}
		return mcpJSON(toMCPCourses(recommend.FilterBySkill(courses, skill)))
	}
}

func mcpMatchCareerGoal(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		goal, err := req.RequireString("goal")
		if err != nil {
			return mcpError("goal is required"), nil
		}
		cat, err := deps.Catalog.Load(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("catalog unavailable: %v", err)), nil
		}
		job, ok := cat.FindJob(goal)
		if !ok {
			return mcpText(fmt.Sprintf("No catalog job matches %q.", goal)), nil
		}
		return mcpJSON(job)
	}
}

func mcpRecommendCourses(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		email, err := req.RequireString("email")
		if err != nil {
			return mcpError("email is required"), nil
		}
		email = auth.NormalizeEmail(email)
		// Accounts are stored under the normalized address.
		email = auth.NormalizeEmail(email)

		res, err := deps.Recommender.RecommendForEmail(ctx, email)
		if errors.Is(err, recommend.ErrCatalogUnavailable) {
			return mcpError("job-skills catalog unavailable"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("recommendation failed: %v", err)), nil
		}

		courses := make([]mcpCourse, len(res.Ranked))
		for i, sc := range res.Ranked {
			courses[i] = mcpCourse{ID: sc.Course.ID, Title: sc.Course.Title, Skills: sc.Course.Skills, Score: sc.Score}
		}
		return mcpJSON(struct {
			Reason     recommend.Reason `json:"reason"`
			Path       recommend.Path   `json:"path,omitempty"`
			MatchedJob string           `json:"matchedJob,omitempty"`
			Missing    []string         `json:"missingSkills"`
			Courses    []mcpCourse      `json:"courses"`
		}{res.Reason, res.Path, res.MatchedJob, res.Missing, courses})
	}
}

func mcpProfileSummary(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		email, err := req.RequireString("email")
		if err != nil {
			return mcpError("email is required"), nil
		}
		summary, err := deps.Profile.GetSummary(email)
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError(fmt.Sprintf("no profile for %s", email)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get profile: %v", err)), nil
		}
		return mcpText(summary), nil
	}
}

func mcpResourceCatalog(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		raw, err := deps.Catalog.Raw(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(raw),
			},
		}, nil
	}
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
