package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/prompter/pkg/compose"
	"github.com/macropower/prompter/pkg/prompt"
)

// RenderProfileParams defines parameters for the render_profile tool.
type RenderProfileParams struct {
	PrePrompt  *string `json:"prePrompt,omitempty"`
	PostPrompt *string `json:"postPrompt,omitempty"`
	Profile    string  `json:"profile"`
	Separator  string  `json:"separator,omitempty"`
}

// RenderProfileResult contains the result of rendering a profile.
type RenderProfileResult struct {
	Error       string   `json:"error,omitempty"`
	Profile     string   `json:"profile"`
	Message     string   `json:"message"`
	Prompt      string   `json:"prompt"`
	Suggestions []string `json:"suggestions,omitempty"`
	FileCount   int      `json:"fileCount"`
}

func (s *Server) handleRenderProfile(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[RenderProfileParams],
) (*mcp.CallToolResultFor[RenderProfileResult], error) {
	args := params.Arguments
	result := RenderProfileResult{Profile: args.Profile}

	c, err := s.source.Open(ctx)
	if err != nil {
		result.Error = err.Error()
		result.Message = "CONFIGURATION ERROR: " + result.Error

		return newResult(result.Message, result, true), nil
	}

	req := compose.Request{
		Profile:    args.Profile,
		Separator:  prompt.Unescape(args.Separator),
		PrePrompt:  unescapePtr(args.PrePrompt),
		PostPrompt: unescapePtr(args.PostPrompt),
	}

	res, err := c.Compose(ctx, req)
	if err != nil {
		result.Error = err.Error()
		result.Suggestions = suggestions(c, err)
		result.Message = errorMessage(err, result.Suggestions)

		return newResult(result.Message, result, true), nil
	}

	result.Prompt = res.String()
	result.FileCount = len(res.Files)
	result.Message = fmt.Sprintf("Rendered profile %q from %d files.", args.Profile, result.FileCount)

	return newResult(result.Prompt, result, false), nil
}

func unescapePtr(s *string) *string {
	if s == nil {
		return nil
	}

	v := prompt.Unescape(*s)

	return &v
}
