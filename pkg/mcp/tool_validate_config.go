package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ValidateConfigParams defines parameters for the validate_config tool.
type ValidateConfigParams struct{}

// ValidationIssue is a single problem found in the configuration.
type ValidationIssue struct {
	Profile string `json:"profile"`
	Message string `json:"message"`
}

// ValidateConfigResult contains the result of validating the configuration.
type ValidateConfigResult struct {
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message"`
	Config  string            `json:"config,omitempty"`
	Library string            `json:"library,omitempty"`
	Issues  []ValidationIssue `json:"issues"`
	Valid   bool              `json:"valid"`
}

func (s *Server) handleValidateConfig(
	ctx context.Context,
	_ *mcp.ServerSession,
	_ *mcp.CallToolParamsFor[ValidateConfigParams],
) (*mcp.CallToolResultFor[ValidateConfigResult], error) {
	result := ValidateConfigResult{Issues: []ValidationIssue{}}

	c, err := s.source.Open(ctx)
	if err != nil {
		result.Error = err.Error()
		result.Message = "CONFIGURATION ERROR: " + result.Error

		return newResult(result.Message, result, true), nil
	}

	paths := c.Paths()
	result.Config = paths.Config
	result.Library = paths.Library

	issues := c.Validate()
	if len(issues) == 0 {
		result.Valid = true
		result.Message = "All profiles valid"

		return newResult(result.Message, result, false), nil
	}

	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		result.Issues = append(result.Issues, ValidationIssue{
			Profile: issue.Profile,
			Message: issue.Error(),
		})
		lines = append(lines, issue.Error())
	}

	result.Message = fmt.Sprintf("Found %d validation errors.", len(issues))

	return newResult("Validation errors:\n"+strings.Join(lines, "\n"), result, false), nil
}
