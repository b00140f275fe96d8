package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/prompter/pkg/compose"
)

// ResolveProfileParams defines parameters for the resolve_profile tool.
type ResolveProfileParams struct {
	Profile string `json:"profile"`
}

// ResolvedFile is a single entry of a resolved profile.
type ResolvedFile struct {
	Path         string `json:"path"`
	ReferencedBy string `json:"referencedBy"`
}

// ResolveProfileResult contains the result of resolving a profile.
type ResolveProfileResult struct {
	Error       string         `json:"error,omitempty"`
	Profile     string         `json:"profile"`
	Message     string         `json:"message"`
	Files       []ResolvedFile `json:"files"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Count       int            `json:"count"`
}

func (s *Server) handleResolveProfile(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ResolveProfileParams],
) (*mcp.CallToolResultFor[ResolveProfileResult], error) {
	name := params.Arguments.Profile
	result := ResolveProfileResult{
		Profile: name,
		Files:   []ResolvedFile{},
	}

	c, err := s.source.Open(ctx)
	if err != nil {
		result.Error = err.Error()
		result.Message = "CONFIGURATION ERROR: " + result.Error

		return newResult(result.Message, result, true), nil
	}

	files, err := c.Resolve(name)
	if err != nil {
		result.Error = err.Error()
		result.Suggestions = suggestions(c, err)
		result.Message = errorMessage(err, result.Suggestions)

		return newResult(result.Message, result, true), nil
	}

	lines := make([]string, 0, len(files))
	for _, f := range files {
		result.Files = append(result.Files, ResolvedFile{Path: f.Path, ReferencedBy: f.ReferencedBy})
		lines = append(lines, f.Path)
	}

	result.Count = len(files)
	result.Message = fmt.Sprintf("Profile %q resolves to %d files.", name, result.Count)

	text := result.Message
	if len(lines) > 0 {
		text += "\n" + strings.Join(lines, "\n")
	}

	return newResult(text, result, false), nil
}

func suggestions(c *compose.Composer, err error) []string {
	name, ok := compose.IsUnknownTopLevel(err)
	if !ok {
		return nil
	}

	return c.Suggest(name, defaultSuggestions)
}

func errorMessage(err error, suggestions []string) string {
	if _, ok := compose.IsUnknownTopLevel(err); !ok {
		return "ERROR: " + err.Error()
	}

	msg := "INVALID INPUT ERROR: " + err.Error() + ". Use an EXACT name from the list_profiles tool."
	if len(suggestions) > 0 {
		msg += fmt.Sprintf(" Did you mean: %s?", strings.Join(suggestions, ", "))
	}

	return msg
}
