package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListProfilesParams defines parameters for the list_profiles tool.
type ListProfilesParams struct {
	Filter string `json:"filter,omitempty"`
}

// ListProfilesResult contains the result of listing profiles.
type ListProfilesResult struct {
	Error    string   `json:"error,omitempty"`
	Message  string   `json:"message"`
	Profiles []string `json:"profiles"`
	Count    int      `json:"count"`
}

func (s *Server) handleListProfiles(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ListProfilesParams],
) (*mcp.CallToolResultFor[ListProfilesResult], error) {
	result := ListProfilesResult{Profiles: []string{}}

	c, err := s.source.Open(ctx)
	if err != nil {
		result.Error = err.Error()
		result.Message = "CONFIGURATION ERROR: " + result.Error

		return newResult(result.Message, result, true), nil
	}

	result.Profiles = c.Filter(params.Arguments.Filter)
	result.Count = len(result.Profiles)

	switch {
	case params.Arguments.Filter != "":
		result.Message = fmt.Sprintf("Found %d profiles matching %q.", result.Count, params.Arguments.Filter)
	default:
		result.Message = fmt.Sprintf("Found %d profiles.", result.Count)
	}

	return newResult(result.Message, result, false), nil
}

// newResult creates a tool result with a text summary and structured
// content.
func newResult[Out any](text string, out Out, isError bool) *mcp.CallToolResultFor[Out] {
	return &mcp.CallToolResultFor[Out]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		StructuredContent: out,
		IsError:           isError,
	}
}
